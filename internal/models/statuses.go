package models

type UserStatus string
type UserRole string
type BookingStatus string
type PaymentMethod string
type SubscriptionStatus string
type PlanType string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleStudent    UserRole = "student"
	UserRoleInstructor UserRole = "instructor"
	UserRoleAdmin      UserRole = "admin"

	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"

	PaymentMethodCredits PaymentMethod = "credits"
	PaymentMethodStripe  PaymentMethod = "stripe"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"

	PlanTypeBasic     PlanType = "basic"
	PlanTypePremium   PlanType = "premium"
	PlanTypeUnlimited PlanType = "unlimited"
)

// IsTerminal reports whether a booking status admits no further transitions.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}
