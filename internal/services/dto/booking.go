package dto

import (
	"time"

	"becreative_backend/internal/models"
)

// CreateBookingRequest settles in credits or in cash, never both.
// PaymentMethodID is the processor's payment method and is required only
// for cash payments.
type CreateBookingRequest struct {
	ClassID         string `json:"class_id" binding:"required,uuid"`
	PaymentMethod   string `json:"payment_method" binding:"required,is-payment-method"`
	PaymentMethodID string `json:"payment_method_id" binding:"required_if=PaymentMethod stripe"`
}

type BookingListQuery struct {
	Pagination
	Status string `form:"status" binding:"omitempty,is-booking-status"`
}

type BookingResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	ClassID       string               `json:"class_id"`
	ClassTitle    string               `json:"class_title,omitempty"`
	ScheduledAt   *time.Time           `json:"scheduled_at,omitempty"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	CreditsUsed   *int                 `json:"credits_used,omitempty"`
	AmountPaid    *float64             `json:"amount_paid,omitempty"`
	Status        models.BookingStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
}

func NewBookingResponse(b *models.Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		ClassID:       b.ClassID,
		PaymentMethod: b.PaymentMethod,
		CreditsUsed:   b.CreditsUsed,
		AmountPaid:    b.AmountPaid,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
	}
	if b.Class != nil {
		resp.ClassTitle = b.Class.Title
		scheduledAt := b.Class.ScheduledAt
		resp.ScheduledAt = &scheduledAt
	}
	return resp
}
