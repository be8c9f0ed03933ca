package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestBookingBeforeSavePaymentInvariant(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		booking Booking
		wantErr bool
	}{
		{
			name:    "credits with credits_used",
			booking: Booking{PaymentMethod: PaymentMethodCredits, CreditsUsed: intPtr(3)},
		},
		{
			name:    "stripe with amount_paid",
			booking: Booking{PaymentMethod: PaymentMethodStripe, AmountPaid: floatPtr(29.99)},
		},
		{
			name:    "credits missing credits_used",
			booking: Booking{PaymentMethod: PaymentMethodCredits},
			wantErr: true,
		},
		{
			name:    "credits with amount_paid set",
			booking: Booking{PaymentMethod: PaymentMethodCredits, CreditsUsed: intPtr(3), AmountPaid: floatPtr(1)},
			wantErr: true,
		},
		{
			name:    "stripe missing amount_paid",
			booking: Booking{PaymentMethod: PaymentMethodStripe},
			wantErr: true,
		},
		{
			name:    "stripe with credits_used set",
			booking: Booking{PaymentMethod: PaymentMethodStripe, AmountPaid: floatPtr(1), CreditsUsed: intPtr(3)},
			wantErr: true,
		},
		{
			name:    "unknown payment method",
			booking: Booking{PaymentMethod: "barter", CreditsUsed: intPtr(3)},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.booking.BeforeSave(nil)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBookingPaymentMismatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingStatusMachine(t *testing.T) {
	t.Parallel()

	allowed := map[BookingStatus][]BookingStatus{
		BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
		BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
		BookingStatusCancelled: {},
		BookingStatusCompleted: {},
	}
	all := []BookingStatus{
		BookingStatusPending, BookingStatusConfirmed,
		BookingStatusCancelled, BookingStatusCompleted,
	}

	for from, nexts := range allowed {
		ok := make(map[BookingStatus]bool, len(nexts))
		for _, n := range nexts {
			ok[n] = true
		}
		b := Booking{Status: from}
		for _, to := range all {
			assert.Equal(t, ok[to], b.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBookingStatusIsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
}

func TestClassEndsAt(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	c := Class{ScheduledAt: start, DurationMinutes: 90}
	assert.Equal(t, start.Add(90*time.Minute), c.EndsAt())
}
