package repositories

import (
	"errors"
	"time"

	"becreative_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionRepository interface {
	Create(subscription *models.Subscription) error
	FindByID(id string) (*models.Subscription, error)
	FindActiveByUserID(userID string) (*models.Subscription, error)
	FindByStripeID(stripeSubscriptionID string) (*models.Subscription, error)
	Update(subscription *models.Subscription) error
	UpdateStatus(id string, status models.SubscriptionStatus) error

	// FindDueForRenewal returns active subscriptions whose billing period
	// ended before the cutoff. Used by the credit-grant worker.
	FindDueForRenewal(cutoff time.Time) ([]models.Subscription, error)
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

func (r *SubscriptionRepositoryImpl) Create(subscription *models.Subscription) error {
	return r.db.Create(subscription).Error
}

func (r *SubscriptionRepositoryImpl) FindByID(id string) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.First(&subscription, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &subscription, nil
}

func (r *SubscriptionRepositoryImpl) FindActiveByUserID(userID string) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &subscription, nil
}

func (r *SubscriptionRepositoryImpl) FindByStripeID(stripeSubscriptionID string) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.Where("stripe_subscription_id = ?", stripeSubscriptionID).
		First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &subscription, nil
}

func (r *SubscriptionRepositoryImpl) Update(subscription *models.Subscription) error {
	result := r.db.Model(subscription).Updates(map[string]interface{}{
		"status":                 subscription.Status,
		"current_period_start":   subscription.CurrentPeriodStart,
		"current_period_end":     subscription.CurrentPeriodEnd,
		"stripe_subscription_id": subscription.StripeSubscriptionID,
		"stripe_customer_id":     subscription.StripeCustomerID,
		"cancelled_at":           subscription.CancelledAt,
		"updated_at":             time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdateStatus(id string, status models.SubscriptionStatus) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == models.SubscriptionStatusCancelled {
		now := time.Now()
		updates["cancelled_at"] = &now
	}

	result := r.db.Model(&models.Subscription{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) FindDueForRenewal(cutoff time.Time) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := r.db.Where("status = ? AND current_period_end IS NOT NULL AND current_period_end < ?",
		models.SubscriptionStatusActive, cutoff).
		Find(&subscriptions).Error
	return subscriptions, err
}
