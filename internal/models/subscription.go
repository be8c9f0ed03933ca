package models

import "time"

// Subscription is a recurring plan granting a monthly credit allotment.
// Billing period boundaries mirror the payment processor's.
type Subscription struct {
	BaseModel
	UserID               string             `gorm:"not null;index"`
	PlanType             PlanType           `gorm:"type:varchar(20);not null"`
	Status               SubscriptionStatus `gorm:"type:varchar(20);default:'active'"`
	CreditsPerMonth      int                `gorm:"not null"`
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	StripeSubscriptionID string `gorm:"uniqueIndex"`
	StripeCustomerID     string
	CancelledAt          *time.Time

	// Relations
	User *User `gorm:"foreignKey:UserID"`
}
