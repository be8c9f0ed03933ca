package dto

import (
	"time"

	"becreative_backend/internal/models"
)

type CreateSubscriptionRequest struct {
	PlanType string `json:"plan_type" binding:"required,is-plan-type"`
}

type SubscriptionResponse struct {
	ID                 string                    `json:"id"`
	UserID             string                    `json:"user_id"`
	PlanType           models.PlanType           `json:"plan_type"`
	Status             models.SubscriptionStatus `json:"status"`
	CreditsPerMonth    int                       `json:"credits_per_month"`
	CurrentPeriodStart *time.Time                `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time                `json:"current_period_end,omitempty"`
	CancelledAt        *time.Time                `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
}

type PlanResponse struct {
	PlanType   models.PlanType `json:"plan_type"`
	Name       string          `json:"name"`
	Credits    int             `json:"credits_per_month"`
	PriceCents int64           `json:"price_cents"`
}

func NewSubscriptionResponse(s *models.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:                 s.ID,
		UserID:             s.UserID,
		PlanType:           s.PlanType,
		Status:             s.Status,
		CreditsPerMonth:    s.CreditsPerMonth,
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CancelledAt:        s.CancelledAt,
		CreatedAt:          s.CreatedAt,
	}
}
