package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"becreative_backend/internal/email"
	"becreative_backend/internal/models"
	"becreative_backend/internal/services/dto"
	"becreative_backend/pkg/apperrors"
)

type bookingFixture struct {
	store   *fakeStore
	gateway *fakeGateway
	svc     BookingService
}

func newBookingFixture() *bookingFixture {
	store := newFakeStore()
	gateway := &fakeGateway{}
	svc := NewBookingService(
		&fakeBookingRepo{store: store},
		&fakeClassRepo{store: store},
		&fakeUserRepo{store: store},
		&fakeInstructorRepo{store: store},
		gateway,
		email.NoopProvider{},
	)
	return &bookingFixture{store: store, gateway: gateway, svc: svc}
}

func (f *bookingFixture) seedStudent(credits int) *models.User {
	return f.store.addUser(&models.User{
		Email:   "student-" + time.Now().Format("150405.000000000") + "@example.com",
		Role:    models.UserRoleStudent,
		Status:  models.UserStatusActive,
		Credits: credits,
	})
}

func (f *bookingFixture) seedClass(maxStudents, priceCredits int, priceDollars float64) *models.Class {
	return f.store.addClass(&models.Class{
		InstructorID:    "ins-1",
		Title:           "Watercolor Basics",
		MaxStudents:     maxStudents,
		PriceCredits:    priceCredits,
		PriceDollars:    priceDollars,
		DurationMinutes: 60,
		ScheduledAt:     time.Now().Add(48 * time.Hour),
		IsActive:        true,
	})
}

func TestCreateBookingWithCreditsDebitsBalance(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	user := f.seedStudent(10)
	class := f.seedClass(5, 3, 30)

	resp, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusConfirmed, resp.Status)
	require.NotNil(t, resp.CreditsUsed)
	assert.Equal(t, 3, *resp.CreditsUsed)
	assert.Nil(t, resp.AmountPaid)

	updated := f.store.users[user.ID]
	assert.Equal(t, 7, updated.Credits)
	assert.Empty(t, f.gateway.createdIntents, "credit bookings must not touch the processor")
}

func TestCreateBookingWithCashChargesProcessorOnly(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	user := f.seedStudent(10)
	class := f.seedClass(5, 3, 30)

	resp, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:         class.ID,
		PaymentMethod:   string(models.PaymentMethodStripe),
		PaymentMethodID: "pm_card_visa",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.AmountPaid)
	assert.InDelta(t, 30.0, *resp.AmountPaid, 0.001)
	assert.Nil(t, resp.CreditsUsed)
	assert.Len(t, f.gateway.createdIntents, 1)

	updated := f.store.users[user.ID]
	assert.Equal(t, 10, updated.Credits, "cash bookings must not touch the balance")
	assert.NotEmpty(t, updated.StripeCustomerID, "first charge creates a processor customer")
}

func TestCreateBookingInsufficientCredits(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	user := f.seedStudent(2)
	class := f.seedClass(5, 3, 30)

	_, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientCredits)

	assert.Equal(t, 2, f.store.users[user.ID].Credits, "balance unchanged after refusal")
	assert.Empty(t, f.store.bookings, "no booking row on refusal")
}

func TestCreateBookingInactiveClass(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	user := f.seedStudent(10)
	class := f.seedClass(5, 3, 30)
	class.IsActive = false

	_, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	assert.ErrorIs(t, err, apperrors.ErrClassNotActive)
}

func TestCreateBookingPastClass(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	user := f.seedStudent(10)
	class := f.seedClass(5, 3, 30)
	class.ScheduledAt = time.Now().Add(-time.Hour)

	_, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	assert.ErrorIs(t, err, apperrors.ErrClassNotActive)
}

func TestCreateBookingDeclinedCardLeavesNoBooking(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.gateway.declineCharges = true
	user := f.seedStudent(0)
	class := f.seedClass(5, 3, 30)

	_, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:         class.ID,
		PaymentMethod:   string(models.PaymentMethodStripe),
		PaymentMethodID: "pm_card_declined",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPaymentDeclined)
	assert.Empty(t, f.store.bookings)
}

func TestCreateBookingFullClassRefundsCharge(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	class := f.seedClass(1, 3, 30)

	first := f.seedStudent(10)
	_, err := f.svc.CreateBooking(context.Background(), first.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	require.NoError(t, err)

	// Second booking pays cash, charges, then loses the seat. The charge
	// must be refunded.
	second := f.seedStudent(0)
	_, err = f.svc.CreateBooking(context.Background(), second.ID, &dto.CreateBookingRequest{
		ClassID:         class.ID,
		PaymentMethod:   string(models.PaymentMethodStripe),
		PaymentMethodID: "pm_card_visa",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrClassFull)

	require.Len(t, f.gateway.createdIntents, 1)
	assert.Equal(t, f.gateway.createdIntents, f.gateway.refundedIntents)
}

func TestCreateBookingCapacityUnderContention(t *testing.T) {
	t.Parallel()

	const maxStudents = 8

	f := newBookingFixture()
	class := f.seedClass(maxStudents, 1, 10)

	users := make([]*models.User, maxStudents+1)
	for i := range users {
		users[i] = f.seedStudent(5)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateBooking(context.Background(), userID, &dto.CreateBookingRequest{
				ClassID:       class.ID,
				PaymentMethod: string(models.PaymentMethodCredits),
			})
		}(i, u.ID)
	}
	wg.Wait()

	var succeeded, full int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperrors.Is(err, apperrors.ErrClassFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, maxStudents, succeeded, "exactly max_students bookings succeed")
	assert.Equal(t, 1, full, "the overflow request fails with class full")

	seats, err := (&fakeClassRepo{store: f.store}).CountSeatsTaken(class.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(maxStudents), seats)
}

func TestCreateBookingOneSeatTwoRequests(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	class := f.seedClass(1, 2, 20)
	a := f.seedStudent(5)
	b := f.seedStudent(5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []string{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateBooking(context.Background(), userID, &dto.CreateBookingRequest{
				ClassID:       class.ID,
				PaymentMethod: string(models.PaymentMethodCredits),
			})
		}(i, userID)
	}
	wg.Wait()

	winner, loser := errs[0], errs[1]
	if winner != nil {
		winner, loser = loser, winner
	}
	require.NoError(t, winner)
	assert.ErrorIs(t, loser, apperrors.ErrClassFull)

	// One debit, one untouched balance.
	total := f.store.users[a.ID].Credits + f.store.users[b.ID].Credits
	assert.Equal(t, 8, total)
}

func TestCreateBookingRetriesWriteConflicts(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	user := f.seedStudent(5)
	class := f.seedClass(3, 2, 20)

	f.store.bookingConflicts = maxBookingRetries - 1

	resp, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	require.NoError(t, err, "conflicts within the retry budget succeed")
	assert.Equal(t, models.BookingStatusConfirmed, resp.Status)
}

func TestCreateBookingExhaustedRetries(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	user := f.seedStudent(5)
	class := f.seedClass(3, 2, 20)

	f.store.bookingConflicts = maxBookingRetries

	_, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
	assert.Equal(t, 5, f.store.users[user.ID].Credits)
}

func TestCancelBookingRefundsCreditsAndFreesSeat(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	user := f.seedStudent(5)
	class := f.seedClass(1, 3, 30)

	resp, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.users[user.ID].Credits)

	err = f.svc.CancelBooking(context.Background(), user.ID, resp.ID, false)
	require.NoError(t, err)

	assert.Equal(t, 5, f.store.users[user.ID].Credits, "refund restores the full balance")
	assert.Equal(t, models.BookingStatusCancelled, f.store.bookings[resp.ID].Status)

	// The seat is bookable again.
	other := f.seedStudent(5)
	_, err = f.svc.CreateBooking(context.Background(), other.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	assert.NoError(t, err)
}

func TestCancelBookingCashRefundsThroughProcessor(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	user := f.seedStudent(0)
	class := f.seedClass(3, 3, 30)

	resp, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:         class.ID,
		PaymentMethod:   string(models.PaymentMethodStripe),
		PaymentMethodID: "pm_card_visa",
	})
	require.NoError(t, err)

	err = f.svc.CancelBooking(context.Background(), user.ID, resp.ID, false)
	require.NoError(t, err)

	assert.Equal(t, f.gateway.createdIntents, f.gateway.refundedIntents)
	assert.Equal(t, 0, f.store.users[user.ID].Credits, "cash refund grants no credits")
}

func TestCancelBookingFailedRefundKeepsBookingCancellable(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	user := f.seedStudent(0)
	class := f.seedClass(3, 3, 30)

	resp, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:         class.ID,
		PaymentMethod:   string(models.PaymentMethodStripe),
		PaymentMethodID: "pm_card_visa",
	})
	require.NoError(t, err)

	f.gateway.unavailable = true
	err = f.svc.CancelBooking(context.Background(), user.ID, resp.ID, false)
	require.Error(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, f.store.bookings[resp.ID].Status)

	// Processor recovers, the retry succeeds.
	f.gateway.unavailable = false
	err = f.svc.CancelBooking(context.Background(), user.ID, resp.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, f.store.bookings[resp.ID].Status)
}

func TestCancelBookingOwnership(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	owner := f.seedStudent(5)
	stranger := f.seedStudent(5)
	class := f.seedClass(3, 3, 30)

	resp, err := f.svc.CreateBooking(context.Background(), owner.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	require.NoError(t, err)

	err = f.svc.CancelBooking(context.Background(), stranger.ID, resp.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	// An admin may cancel anyone's booking.
	err = f.svc.CancelBooking(context.Background(), stranger.ID, resp.ID, true)
	assert.NoError(t, err)
}

func TestCancelBookingTwiceFails(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	user := f.seedStudent(5)
	class := f.seedClass(3, 3, 30)

	resp, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelBooking(context.Background(), user.ID, resp.ID, false))

	err = f.svc.CancelBooking(context.Background(), user.ID, resp.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrBookingNotCancellable)
	assert.Equal(t, 5, f.store.users[user.ID].Credits, "no double refund")
}

func TestGetBookingOwnership(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	owner := f.seedStudent(5)
	stranger := f.seedStudent(5)
	class := f.seedClass(3, 3, 30)

	resp, err := f.svc.CreateBooking(context.Background(), owner.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	require.NoError(t, err)

	got, err := f.svc.GetBooking(owner.ID, resp.ID, false)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)

	_, err = f.svc.GetBooking(stranger.ID, resp.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	_, err = f.svc.GetBooking(stranger.ID, resp.ID, true)
	assert.NoError(t, err)
}

func TestListUserBookingsFiltersByStatus(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	user := f.seedStudent(10)
	classA := f.seedClass(3, 2, 20)
	classB := f.seedClass(3, 2, 20)

	a, err := f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:       classA.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(context.Background(), user.ID, &dto.CreateBookingRequest{
		ClassID:       classB.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelBooking(context.Background(), user.ID, a.ID, false))

	cancelled, cancelledTotal, err := f.svc.ListUserBookings(user.ID, &dto.BookingListQuery{
		Status: string(models.BookingStatusCancelled),
	})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, a.ID, cancelled[0].ID)
	assert.Equal(t, int64(1), cancelledTotal, "total counts only the filtered status")

	confirmed, confirmedTotal, err := f.svc.ListUserBookings(user.ID, &dto.BookingListQuery{
		Status: string(models.BookingStatusConfirmed),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(confirmed)), confirmedTotal)

	all, total, err := f.svc.ListUserBookings(user.ID, &dto.BookingListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), total)
}

func TestListClassBookingsRosterAccess(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	instructorUser := f.seedStudent(0)
	instructor := f.store.addInstructor(&models.Instructor{
		UserID:   instructorUser.ID,
		IsActive: true,
	})
	class := f.seedClass(3, 2, 20)
	class.InstructorID = instructor.ID

	student := f.seedStudent(5)
	_, err := f.svc.CreateBooking(context.Background(), student.ID, &dto.CreateBookingRequest{
		ClassID:       class.ID,
		PaymentMethod: string(models.PaymentMethodCredits),
	})
	require.NoError(t, err)

	roster, err := f.svc.ListClassBookings(instructorUser.ID, class.ID, false)
	require.NoError(t, err)
	assert.Len(t, roster, 1)

	_, err = f.svc.ListClassBookings(student.ID, class.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}
