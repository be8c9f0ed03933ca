package services

import (
	"context"
	"errors"
	"time"

	"becreative_backend/internal/logger"
	"becreative_backend/internal/models"
	"becreative_backend/internal/payments"
	"becreative_backend/internal/repositories"
	"becreative_backend/internal/services/dto"
	"becreative_backend/pkg/apperrors"
)

type SubscriptionService interface {
	ListPlans() []dto.PlanResponse

	// Subscribe creates the processor-side subscription and the local row,
	// then grants the first month of credits.
	Subscribe(ctx context.Context, userID string, planType models.PlanType) (*dto.SubscriptionResponse, error)

	GetSubscription(userID string) (*dto.SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, userID string) error

	// RenewDue grants the monthly credits to subscriptions whose period has
	// rolled over. Returns the number renewed. Called by the scheduler.
	RenewDue() (int, error)
}

type SubscriptionServiceImpl struct {
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	gateway          payments.Gateway
	emailProvider    emailSender
}

// emailSender is the slice of the email provider this service uses.
type emailSender interface {
	SendSubscriptionRenewed(to string, planName string, credits int) error
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	gateway payments.Gateway,
	emailProvider emailSender,
) SubscriptionService {
	return &SubscriptionServiceImpl{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		gateway:          gateway,
		emailProvider:    emailProvider,
	}
}

func (s *SubscriptionServiceImpl) ListPlans() []dto.PlanResponse {
	plans := payments.AllPlans()
	responses := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		responses = append(responses, dto.PlanResponse{
			PlanType:   p.Type,
			Name:       p.Name,
			Credits:    p.Credits,
			PriceCents: p.PriceCents,
		})
	}
	return responses
}

func (s *SubscriptionServiceImpl) Subscribe(ctx context.Context, userID string, planType models.PlanType) (*dto.SubscriptionResponse, error) {
	plan, ok := payments.GetPlan(planType)
	if !ok {
		return nil, apperrors.ErrUnknownPlan
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.subscriptionRepo.FindActiveByUserID(userID); err == nil {
		return nil, apperrors.ErrSubscriptionExists
	} else if !errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, apperrors.InternalError(err)
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		customer, err := s.gateway.CreateCustomer(ctx, user.Email, user.FullName)
		if err != nil {
			return nil, mapSubscriptionGatewayError(err)
		}
		customerID = customer.ID
		if err := s.userRepo.SetStripeCustomerID(userID, customerID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	remote, err := s.gateway.CreateSubscription(ctx, customerID, plan.StripePriceID, map[string]string{
		"user_id":   userID,
		"plan_type": string(planType),
	})
	if err != nil {
		return nil, mapSubscriptionGatewayError(err)
	}

	periodStart := time.Unix(remote.CurrentPeriodStart, 0)
	periodEnd := time.Unix(remote.CurrentPeriodEnd, 0)
	if remote.CurrentPeriodStart == 0 {
		periodStart = time.Now()
		periodEnd = periodStart.AddDate(0, 1, 0)
	}

	subscription := &models.Subscription{
		UserID:               userID,
		PlanType:             planType,
		Status:               models.SubscriptionStatusActive,
		CreditsPerMonth:      plan.Credits,
		CurrentPeriodStart:   &periodStart,
		CurrentPeriodEnd:     &periodEnd,
		StripeSubscriptionID: remote.ID,
		StripeCustomerID:     customerID,
	}

	if err := s.subscriptionRepo.Create(subscription); err != nil {
		// The processor-side subscription exists without a local row;
		// cancel it rather than bill an untracked customer.
		if cancelErr := s.gateway.CancelSubscription(ctx, remote.ID); cancelErr != nil {
			logger.WithError(cancelErr).Error("failed to cancel orphaned subscription",
				"stripe_subscription_id", remote.ID)
		}
		return nil, apperrors.InternalError(err)
	}

	// First month's credits are granted immediately.
	if err := s.userRepo.AddCredits(userID, plan.Credits); err != nil {
		logger.WithError(err).Error("failed to grant initial credits",
			"user_id", userID, "subscription_id", subscription.ID)
	}

	resp := dto.NewSubscriptionResponse(subscription)
	return &resp, nil
}

func (s *SubscriptionServiceImpl) GetSubscription(userID string) (*dto.SubscriptionResponse, error) {
	subscription, err := s.subscriptionRepo.FindActiveByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewSubscriptionResponse(subscription)
	return &resp, nil
}

func (s *SubscriptionServiceImpl) CancelSubscription(ctx context.Context, userID string) error {
	subscription, err := s.subscriptionRepo.FindActiveByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if subscription.Status == models.SubscriptionStatusCancelled {
		return apperrors.ErrSubscriptionCancelled
	}

	if subscription.StripeSubscriptionID != "" {
		if err := s.gateway.CancelSubscription(ctx, subscription.StripeSubscriptionID); err != nil {
			return mapSubscriptionGatewayError(err)
		}
	}

	if err := s.subscriptionRepo.UpdateStatus(subscription.ID, models.SubscriptionStatusCancelled); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *SubscriptionServiceImpl) RenewDue() (int, error) {
	due, err := s.subscriptionRepo.FindDueForRenewal(time.Now())
	if err != nil {
		return 0, err
	}

	renewed := 0
	for i := range due {
		sub := &due[i]
		if err := s.renewOne(sub); err != nil {
			logger.WithError(err).Error("failed to renew subscription", "subscription_id", sub.ID)
			continue
		}
		renewed++
	}
	return renewed, nil
}

func (s *SubscriptionServiceImpl) renewOne(sub *models.Subscription) error {
	if err := s.userRepo.AddCredits(sub.UserID, sub.CreditsPerMonth); err != nil {
		return err
	}

	start := time.Now()
	end := start.AddDate(0, 1, 0)
	sub.CurrentPeriodStart = &start
	sub.CurrentPeriodEnd = &end
	if err := s.subscriptionRepo.Update(sub); err != nil {
		return err
	}

	if user, err := s.userRepo.FindByID(sub.UserID); err == nil {
		plan, _ := payments.GetPlan(sub.PlanType)
		if err := s.emailProvider.SendSubscriptionRenewed(user.Email, plan.Name, sub.CreditsPerMonth); err != nil {
			logger.WithError(err).Warn("failed to send renewal email", "user_id", sub.UserID)
		}
	}
	return nil
}

func mapSubscriptionGatewayError(err error) error {
	switch {
	case errors.Is(err, payments.ErrCardDeclined):
		return apperrors.ErrPaymentDeclined.WithError(err)
	case errors.Is(err, payments.ErrUnavailable):
		return apperrors.ErrServiceUnavailable(err, "subscriptions")
	default:
		return apperrors.InternalError(err)
	}
}
