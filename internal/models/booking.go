package models

import (
	"errors"

	"gorm.io/gorm"
)

var ErrBookingPaymentMismatch = errors.New("booking payment fields do not match payment method")

// Booking reserves one seat in one class for one user. Exactly one of
// CreditsUsed / AmountPaid is set, matching PaymentMethod.
type Booking struct {
	BaseModel
	UserID                string        `gorm:"not null;index"`
	ClassID               string        `gorm:"not null;index"`
	PaymentMethod         PaymentMethod `gorm:"type:varchar(20);not null"`
	CreditsUsed           *int
	AmountPaid            *float64
	Status                BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	StripePaymentIntentID string

	// Relations
	User  *User  `gorm:"foreignKey:UserID"`
	Class *Class `gorm:"foreignKey:ClassID"`
}

// BeforeSave rejects rows that violate the settlement invariant: CreditsUsed
// is set iff the booking was paid with credits, AmountPaid iff with stripe.
func (b *Booking) BeforeSave(tx *gorm.DB) error {
	switch b.PaymentMethod {
	case PaymentMethodCredits:
		if b.CreditsUsed == nil || b.AmountPaid != nil {
			return ErrBookingPaymentMismatch
		}
	case PaymentMethodStripe:
		if b.AmountPaid == nil || b.CreditsUsed != nil {
			return ErrBookingPaymentMismatch
		}
	default:
		return ErrBookingPaymentMismatch
	}
	return nil
}

// CanTransitionTo reports whether the status machine allows the move.
// pending -> confirmed -> completed, cancelled from pending or confirmed.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	default:
		return false
	}
}
