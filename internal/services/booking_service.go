package services

import (
	"context"
	"errors"
	"math"
	"time"

	"becreative_backend/internal/email"
	"becreative_backend/internal/logger"
	"becreative_backend/internal/models"
	"becreative_backend/internal/payments"
	"becreative_backend/internal/repositories"
	"becreative_backend/internal/services/dto"
	"becreative_backend/pkg/apperrors"
)

// maxBookingRetries bounds the retry loop for lost write races. Each loss
// means another booking for the same class committed first; three attempts
// is enough to ride out a burst without hiding a livelock.
const maxBookingRetries = 3

type BookingService interface {
	// CreateBooking reserves a seat, settling in credits or cash per the
	// request. The seat reservation and the settlement commit atomically.
	CreateBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)

	// CancelBooking cancels the caller's booking (admins may cancel any)
	// and refunds the settlement to where it came from.
	CancelBooking(ctx context.Context, userID, bookingID string, isAdmin bool) error

	GetBooking(userID, bookingID string, isAdmin bool) (*dto.BookingResponse, error)
	ListUserBookings(userID string, query *dto.BookingListQuery) ([]dto.BookingResponse, int64, error)
	ListClassBookings(userID, classID string, isAdmin bool) ([]dto.BookingResponse, error)
}

type BookingServiceImpl struct {
	bookingRepo    repositories.BookingRepository
	classRepo      repositories.ClassRepository
	userRepo       repositories.UserRepository
	instructorRepo repositories.InstructorRepository
	gateway        payments.Gateway
	emailProvider  email.Provider
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	classRepo repositories.ClassRepository,
	userRepo repositories.UserRepository,
	instructorRepo repositories.InstructorRepository,
	gateway payments.Gateway,
	emailProvider email.Provider,
) BookingService {
	return &BookingServiceImpl{
		bookingRepo:    bookingRepo,
		classRepo:      classRepo,
		userRepo:       userRepo,
		instructorRepo: instructorRepo,
		gateway:        gateway,
		emailProvider:  emailProvider,
	}
}

func (s *BookingServiceImpl) CreateBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	class, err := s.classRepo.FindByID(req.ClassID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrClassNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !class.IsActive || class.ScheduledAt.Before(time.Now()) {
		return nil, apperrors.ErrClassNotActive
	}

	booking := &models.Booking{
		UserID:  userID,
		ClassID: class.ID,
	}

	switch models.PaymentMethod(req.PaymentMethod) {
	case models.PaymentMethodCredits:
		credits := class.PriceCredits
		booking.PaymentMethod = models.PaymentMethodCredits
		booking.CreditsUsed = &credits

		// Fast precheck for a friendlier error. The transaction re-checks
		// the balance at write time, so this is not the enforcement point.
		if user.Credits < credits {
			return nil, apperrors.ErrInsufficientCredits
		}

		if err := s.reserveSeat(booking); err != nil {
			return nil, err
		}

	case models.PaymentMethodStripe:
		amount := class.PriceDollars
		booking.PaymentMethod = models.PaymentMethodStripe
		booking.AmountPaid = &amount

		// Charge first. A failed charge leaves no booking; a failed
		// reservation refunds the charge.
		intent, err := s.chargeCash(ctx, user, class, req.PaymentMethodID)
		if err != nil {
			return nil, err
		}
		booking.StripePaymentIntentID = intent.ID

		if err := s.reserveSeat(booking); err != nil {
			if _, refundErr := s.gateway.CreateRefund(ctx, intent.ID); refundErr != nil {
				logger.WithError(refundErr).Error("failed to refund after lost reservation",
					"payment_intent_id", intent.ID, "class_id", class.ID)
			}
			return nil, err
		}

	default:
		return nil, apperrors.NewBadRequestError("unknown payment method")
	}

	if err := s.emailProvider.SendBookingConfirmation(user.Email, class.Title, class.ScheduledAt); err != nil {
		logger.WithError(err).Warn("failed to send booking confirmation", "booking_id", booking.ID)
	}

	booking.Class = class
	resp := dto.NewBookingResponse(booking)
	return &resp, nil
}

// reserveSeat runs the atomic reservation, retrying bounded times when the
// transaction loses a write race.
func (s *BookingServiceImpl) reserveSeat(booking *models.Booking) error {
	var err error
	for attempt := 0; attempt < maxBookingRetries; attempt++ {
		err = s.bookingRepo.CreateConfirmed(booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrWriteConflict) {
			return s.mapReservationError(err)
		}
	}
	return apperrors.ErrConcurrentModification
}

func (s *BookingServiceImpl) mapReservationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrClassNotFound):
		return apperrors.ErrNotFound(err)
	case errors.Is(err, repositories.ErrClassNotBookable):
		return apperrors.ErrClassNotActive
	case errors.Is(err, repositories.ErrClassCapacityExceeded):
		return apperrors.ErrClassFull
	case errors.Is(err, repositories.ErrInsufficientCredits):
		return apperrors.ErrInsufficientCredits
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrNotFound(err)
	default:
		return apperrors.InternalError(err)
	}
}

func (s *BookingServiceImpl) chargeCash(ctx context.Context, user *models.User, class *models.Class, paymentMethodID string) (*payments.PaymentIntent, error) {
	customerID := user.StripeCustomerID
	if customerID == "" {
		customer, err := s.gateway.CreateCustomer(ctx, user.Email, user.FullName)
		if err != nil {
			return nil, s.mapGatewayError(err)
		}
		customerID = customer.ID
		if err := s.userRepo.SetStripeCustomerID(user.ID, customerID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, payments.PaymentIntentRequest{
		AmountCents:     int64(math.Round(class.PriceDollars * 100)),
		CustomerID:      customerID,
		PaymentMethodID: paymentMethodID,
		Metadata: map[string]string{
			"class_id": class.ID,
			"user_id":  user.ID,
		},
	})
	if err != nil {
		return nil, s.mapGatewayError(err)
	}
	return intent, nil
}

func (s *BookingServiceImpl) mapGatewayError(err error) error {
	switch {
	case errors.Is(err, payments.ErrCardDeclined):
		return apperrors.ErrPaymentDeclined.WithError(err)
	case errors.Is(err, payments.ErrUnavailable):
		return apperrors.ErrServiceUnavailable(err, "payments")
	default:
		return apperrors.InternalError(err)
	}
}

func (s *BookingServiceImpl) CancelBooking(ctx context.Context, userID, bookingID string, isAdmin bool) error {
	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBookingNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if booking.UserID != userID && !isAdmin {
		return apperrors.ErrInsufficientPermissions
	}

	if !booking.CanTransitionTo(models.BookingStatusCancelled) {
		return apperrors.ErrBookingNotCancellable
	}

	if booking.Class != nil && booking.Class.ScheduledAt.Before(time.Now()) {
		return apperrors.ErrBookingNotCancellable
	}

	refundCredits := 0
	if booking.PaymentMethod == models.PaymentMethodCredits && booking.CreditsUsed != nil {
		refundCredits = *booking.CreditsUsed
	}

	// Cash refunds go through the processor before the row flips: if the
	// refund fails the booking stays cancellable and the caller retries.
	if booking.PaymentMethod == models.PaymentMethodStripe && booking.StripePaymentIntentID != "" {
		if _, err := s.gateway.CreateRefund(ctx, booking.StripePaymentIntentID); err != nil {
			return s.mapGatewayError(err)
		}
	}

	if err := s.bookingRepo.Cancel(bookingID, refundCredits); err != nil {
		switch {
		case errors.Is(err, repositories.ErrBookingNotCancellable):
			return apperrors.ErrBookingNotCancellable
		case errors.Is(err, repositories.ErrBookingNotFound):
			return apperrors.ErrNotFound(err)
		default:
			return apperrors.InternalError(err)
		}
	}

	if booking.User != nil && booking.Class != nil {
		if err := s.emailProvider.SendBookingCancellation(booking.User.Email, booking.Class.Title, refundCredits); err != nil {
			logger.WithError(err).Warn("failed to send cancellation email", "booking_id", bookingID)
		}
	}
	return nil
}

func (s *BookingServiceImpl) GetBooking(userID, bookingID string, isAdmin bool) (*dto.BookingResponse, error) {
	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if booking.UserID != userID && !isAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	resp := dto.NewBookingResponse(booking)
	return &resp, nil
}

func (s *BookingServiceImpl) ListUserBookings(userID string, query *dto.BookingListQuery) ([]dto.BookingResponse, int64, error) {
	query.Normalize()

	bookings, total, err := s.bookingRepo.FindByUser(userID, models.BookingStatus(query.Status), query.Page, query.PageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	responses := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, dto.NewBookingResponse(&bookings[i]))
	}
	return responses, total, nil
}

func (s *BookingServiceImpl) ListClassBookings(userID, classID string, isAdmin bool) ([]dto.BookingResponse, error) {
	class, err := s.classRepo.FindByID(classID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrClassNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	// Only the owning instructor or an admin may see the roster.
	if !isAdmin {
		instructor, err := s.instructorRepo.FindByUserID(userID)
		if err != nil || class.InstructorID != instructor.ID {
			return nil, apperrors.ErrInsufficientPermissions
		}
	}

	bookings, err := s.bookingRepo.FindByClass(classID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, dto.NewBookingResponse(&bookings[i]))
	}
	return responses, nil
}
