package services

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"becreative_backend/internal/config"
	"becreative_backend/internal/models"
	"becreative_backend/internal/payments"
	"becreative_backend/internal/repositories"
)

func TestMain(m *testing.M) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.Stripe.RefreshURL = "http://localhost:8080/connect/refresh"
	cfg.Stripe.ReturnURL = "http://localhost:8080/connect/return"
	cfg.Upload.MaxSize = 5 * 1024 * 1024
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png"}
	config.AppConfig = cfg
	os.Exit(m.Run())
}

// In-memory repository fakes. The booking fake reproduces the transactional
// guarantees of the real implementation under a mutex, so concurrency tests
// exercise the same invariants the database enforces.

type fakeStore struct {
	mu            sync.Mutex
	users         map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	instructors   map[string]*models.Instructor
	classes       map[string]*models.Class
	bookings      map[string]*models.Booking
	subscriptions map[string]*models.Subscription
	reviews       map[string]*models.Review

	// bookingConflicts injects write-conflict failures into the next N
	// reservation attempts.
	bookingConflicts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[string]*models.User),
		refreshTokens: make(map[string]*models.RefreshToken),
		instructors:   make(map[string]*models.Instructor),
		classes:       make(map[string]*models.Class),
		bookings:      make(map[string]*models.Booking),
		subscriptions: make(map[string]*models.Subscription),
		reviews:       make(map[string]*models.Review),
	}
}

func (s *fakeStore) addUser(u *models.User) *models.User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	s.users[u.ID] = u
	return u
}

func (s *fakeStore) addClass(c *models.Class) *models.Class {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	s.classes[c.ID] = c
	return c
}

func (s *fakeStore) addInstructor(i *models.Instructor) *models.Instructor {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	i.CreatedAt = time.Now()
	s.instructors[i.ID] = i
	return i
}

// --- user repository ---

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	clone := *user
	r.store.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	clone := *user
	r.store.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) UpdateStatus(userID string, status models.UserStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (r *fakeUserRepo) UpdateRole(userID string, role models.UserRole) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(userID, avatarURL string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.AvatarURL = avatarURL
	return nil
}

func (r *fakeUserRepo) SetStripeCustomerID(userID, customerID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.StripeCustomerID = customerID
	return nil
}

func (r *fakeUserRepo) VerifyUser(userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.IsVerified = true
	u.Status = models.UserStatusActive
	u.VerificationToken = ""
	return nil
}

func (r *fakeUserRepo) Delete(userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.users, userID)
	return nil
}

func (r *fakeUserRepo) AddCredits(userID string, delta int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if delta < 0 && u.Credits < -delta {
		return repositories.ErrInsufficientCredits
	}
	u.Credits += delta
	return nil
}

func (r *fakeUserRepo) FindByVerificationToken(token string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if token != "" && u.VerificationToken == token {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByResetToken(token string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if token != "" && u.ResetToken == token {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindWithFilter(criteria repositories.UserFilter) ([]models.User, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.User
	for _, u := range r.store.users {
		if criteria.Role != "" && u.Role != criteria.Role {
			continue
		}
		if criteria.Status != "" && u.Status != criteria.Status {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

// --- refresh token repository ---

type fakeRefreshTokenRepo struct{ store *fakeStore }

func (r *fakeRefreshTokenRepo) Create(token *models.RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	clone := *token
	r.store.refreshTokens[token.Token] = &clone
	return nil
}

func (r *fakeRefreshTokenRepo) FindByToken(token string) (*models.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.refreshTokens[token]
	if !ok {
		return nil, repositories.ErrRefreshTokenNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeRefreshTokenRepo) DeleteByToken(token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.refreshTokens[token]; !ok {
		return repositories.ErrRefreshTokenNotFound
	}
	delete(r.store.refreshTokens, token)
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteByUserID(userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for k, t := range r.store.refreshTokens {
		if t.UserID == userID {
			delete(r.store.refreshTokens, k)
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired() (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for k, t := range r.store.refreshTokens {
		if time.Now().After(t.ExpiresAt) {
			delete(r.store.refreshTokens, k)
			n++
		}
	}
	return n, nil
}

// --- instructor repository ---

type fakeInstructorRepo struct{ store *fakeStore }

func (r *fakeInstructorRepo) Create(instructor *models.Instructor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, i := range r.store.instructors {
		if i.UserID == instructor.UserID {
			return repositories.ErrInstructorAlreadyExists
		}
	}
	if instructor.ID == "" {
		instructor.ID = uuid.NewString()
	}
	clone := *instructor
	r.store.instructors[instructor.ID] = &clone
	return nil
}

func (r *fakeInstructorRepo) FindByID(id string) (*models.Instructor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	i, ok := r.store.instructors[id]
	if !ok {
		return nil, repositories.ErrInstructorNotFound
	}
	clone := *i
	return &clone, nil
}

func (r *fakeInstructorRepo) FindByUserID(userID string) (*models.Instructor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, i := range r.store.instructors {
		if i.UserID == userID {
			clone := *i
			return &clone, nil
		}
	}
	return nil, repositories.ErrInstructorNotFound
}

func (r *fakeInstructorRepo) Update(instructor *models.Instructor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.instructors[instructor.ID]; !ok {
		return repositories.ErrInstructorNotFound
	}
	clone := *instructor
	r.store.instructors[instructor.ID] = &clone
	return nil
}

func (r *fakeInstructorRepo) SetVerified(id string, verified bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	i, ok := r.store.instructors[id]
	if !ok {
		return repositories.ErrInstructorNotFound
	}
	i.IsVerified = verified
	return nil
}

func (r *fakeInstructorRepo) SetStripeAccountID(id, accountID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	i, ok := r.store.instructors[id]
	if !ok {
		return repositories.ErrInstructorNotFound
	}
	i.StripeAccountID = accountID
	return nil
}

func (r *fakeInstructorRepo) FindWithFilter(criteria repositories.InstructorFilter) ([]models.Instructor, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Instructor
	for _, i := range r.store.instructors {
		if criteria.VerifiedOnly && !i.IsVerified {
			continue
		}
		out = append(out, *i)
	}
	return out, int64(len(out)), nil
}

func (r *fakeInstructorRepo) CountActiveClasses(instructorID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, c := range r.store.classes {
		if c.InstructorID == instructorID && c.IsActive && c.ScheduledAt.After(time.Now()) {
			n++
		}
	}
	return n, nil
}

// --- class repository ---

type fakeClassRepo struct{ store *fakeStore }

func (r *fakeClassRepo) Create(class *models.Class) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	clone := *class
	r.store.classes[class.ID] = &clone
	return nil
}

func (r *fakeClassRepo) FindByID(id string) (*models.Class, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.classes[id]
	if !ok {
		return nil, repositories.ErrClassNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeClassRepo) Update(class *models.Class) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.classes[class.ID]; !ok {
		return repositories.ErrClassNotFound
	}
	clone := *class
	r.store.classes[class.ID] = &clone
	return nil
}

func (r *fakeClassRepo) SetActive(id string, active bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.classes[id]
	if !ok {
		return repositories.ErrClassNotFound
	}
	c.IsActive = active
	return nil
}

func (r *fakeClassRepo) FindWithFilter(criteria repositories.ClassFilter) ([]models.Class, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Class
	for _, c := range r.store.classes {
		if criteria.ActiveOnly && !c.IsActive {
			continue
		}
		if criteria.InstructorID != "" && c.InstructorID != criteria.InstructorID {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeClassRepo) CountSeatsTaken(classID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.countSeatsLocked(classID), nil
}

func (s *fakeStore) countSeatsLocked(classID string) int64 {
	var n int64
	for _, b := range s.bookings {
		if b.ClassID == classID &&
			(b.Status == models.BookingStatusPending || b.Status == models.BookingStatusConfirmed) {
			n++
		}
	}
	return n
}

// --- booking repository ---

type fakeBookingRepo struct{ store *fakeStore }

func (r *fakeBookingRepo) CreateConfirmed(booking *models.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.bookingConflicts > 0 {
		r.store.bookingConflicts--
		return repositories.ErrWriteConflict
	}

	class, ok := r.store.classes[booking.ClassID]
	if !ok {
		return repositories.ErrClassNotFound
	}
	if !class.IsActive || !class.ScheduledAt.After(time.Now()) {
		return repositories.ErrClassNotBookable
	}
	if r.store.countSeatsLocked(class.ID) >= int64(class.MaxStudents) {
		return repositories.ErrClassCapacityExceeded
	}

	if booking.PaymentMethod == models.PaymentMethodCredits {
		user, ok := r.store.users[booking.UserID]
		if !ok {
			return repositories.ErrUserNotFound
		}
		if user.Credits < *booking.CreditsUsed {
			return repositories.ErrInsufficientCredits
		}
		user.Credits -= *booking.CreditsUsed
	}

	booking.ID = uuid.NewString()
	booking.Status = models.BookingStatusConfirmed
	booking.CreatedAt = time.Now()
	clone := *booking
	r.store.bookings[booking.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) Cancel(bookingID string, refundCredits int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[bookingID]
	if !ok {
		return repositories.ErrBookingNotFound
	}
	if b.Status != models.BookingStatusPending && b.Status != models.BookingStatusConfirmed {
		return repositories.ErrBookingNotCancellable
	}
	b.Status = models.BookingStatusCancelled
	if refundCredits > 0 {
		if u, ok := r.store.users[b.UserID]; ok {
			u.Credits += refundCredits
		}
	}
	return nil
}

func (r *fakeBookingRepo) FindByID(id string) (*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, repositories.ErrBookingNotFound
	}
	clone := *b
	if c, ok := r.store.classes[b.ClassID]; ok {
		cc := *c
		clone.Class = &cc
	}
	if u, ok := r.store.users[b.UserID]; ok {
		uu := *u
		clone.User = &uu
	}
	return &clone, nil
}

func (r *fakeBookingRepo) FindByUser(userID string, status models.BookingStatus, page, pageSize int) ([]models.Booking, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Booking
	for _, b := range r.store.bookings {
		if b.UserID != userID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		clone := *b
		if c, ok := r.store.classes[b.ClassID]; ok {
			cc := *c
			clone.Class = &cc
		}
		out = append(out, clone)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindByClass(classID string) ([]models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Booking
	for _, b := range r.store.bookings {
		if b.ClassID == classID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CompletePast() (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, b := range r.store.bookings {
		if b.Status != models.BookingStatusConfirmed {
			continue
		}
		c, ok := r.store.classes[b.ClassID]
		if ok && c.EndsAt().Before(time.Now()) {
			b.Status = models.BookingStatusCompleted
			n++
		}
	}
	return n, nil
}

// --- subscription repository ---

type fakeSubscriptionRepo struct{ store *fakeStore }

func (r *fakeSubscriptionRepo) Create(subscription *models.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if subscription.ID == "" {
		subscription.ID = uuid.NewString()
	}
	subscription.CreatedAt = time.Now()
	clone := *subscription
	r.store.subscriptions[subscription.ID] = &clone
	return nil
}

func (r *fakeSubscriptionRepo) FindByID(id string) (*models.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.subscriptions[id]
	if !ok {
		return nil, repositories.ErrSubscriptionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *fakeSubscriptionRepo) FindActiveByUserID(userID string) (*models.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.subscriptions {
		if s.UserID == userID && s.Status == models.SubscriptionStatusActive {
			clone := *s
			return &clone, nil
		}
	}
	return nil, repositories.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) FindByStripeID(stripeSubscriptionID string) (*models.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.subscriptions {
		if s.StripeSubscriptionID == stripeSubscriptionID {
			clone := *s
			return &clone, nil
		}
	}
	return nil, repositories.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) Update(subscription *models.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.subscriptions[subscription.ID]; !ok {
		return repositories.ErrSubscriptionNotFound
	}
	clone := *subscription
	r.store.subscriptions[subscription.ID] = &clone
	return nil
}

func (r *fakeSubscriptionRepo) UpdateStatus(id string, status models.SubscriptionStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.subscriptions[id]
	if !ok {
		return repositories.ErrSubscriptionNotFound
	}
	s.Status = status
	if status == models.SubscriptionStatusCancelled {
		now := time.Now()
		s.CancelledAt = &now
	}
	return nil
}

func (r *fakeSubscriptionRepo) FindDueForRenewal(cutoff time.Time) ([]models.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Subscription
	for _, s := range r.store.subscriptions {
		if s.Status == models.SubscriptionStatusActive &&
			s.CurrentPeriodEnd != nil && s.CurrentPeriodEnd.Before(cutoff) {
			out = append(out, *s)
		}
	}
	return out, nil
}

// --- review repository ---

type fakeReviewRepo struct{ store *fakeStore }

func (r *fakeReviewRepo) Create(review *models.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	review.CreatedAt = time.Now()
	clone := *review
	r.store.reviews[review.ID] = &clone
	return nil
}

func (r *fakeReviewRepo) FindByID(id string) (*models.Review, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rv, ok := r.store.reviews[id]
	if !ok {
		return nil, repositories.ErrReviewNotFound
	}
	clone := *rv
	return &clone, nil
}

func (r *fakeReviewRepo) FindByInstructor(instructorID string, page, pageSize int) ([]models.Review, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Review
	for _, rv := range r.store.reviews {
		if rv.InstructorID == instructorID {
			out = append(out, *rv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) AverageRating(instructorID string) (float64, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sum, n int64
	for _, rv := range r.store.reviews {
		if rv.InstructorID == instructorID {
			sum += int64(rv.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

func (r *fakeReviewRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.reviews[id]; !ok {
		return repositories.ErrReviewNotFound
	}
	delete(r.store.reviews, id)
	return nil
}

// --- payment gateway fake ---

type fakeGateway struct {
	mu sync.Mutex

	declineCharges    bool
	unavailable       bool
	createdIntents    []string
	refundedIntents   []string
	cancelledSubs     []string
	createdCustomers  int
	createdSubs       int
	subscriptionError error
}

func (g *fakeGateway) CreateCustomer(ctx context.Context, email, name string) (*payments.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unavailable {
		return nil, payments.ErrUnavailable
	}
	g.createdCustomers++
	return &payments.Customer{ID: "cus_" + uuid.NewString()[:8], Email: email}, nil
}

func (g *fakeGateway) CreatePaymentIntent(ctx context.Context, req payments.PaymentIntentRequest) (*payments.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unavailable {
		return nil, payments.ErrUnavailable
	}
	if g.declineCharges {
		return nil, payments.ErrCardDeclined
	}
	id := "pi_" + uuid.NewString()[:8]
	g.createdIntents = append(g.createdIntents, id)
	return &payments.PaymentIntent{ID: id, Status: "succeeded", Amount: req.AmountCents}, nil
}

func (g *fakeGateway) CreateRefund(ctx context.Context, paymentIntentID string) (*payments.Refund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unavailable {
		return nil, payments.ErrUnavailable
	}
	g.refundedIntents = append(g.refundedIntents, paymentIntentID)
	return &payments.Refund{ID: "re_" + uuid.NewString()[:8], Status: "succeeded"}, nil
}

func (g *fakeGateway) CreateSubscription(ctx context.Context, customerID, priceID string, metadata map[string]string) (*payments.SubscriptionInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.subscriptionError != nil {
		return nil, g.subscriptionError
	}
	g.createdSubs++
	now := time.Now()
	return &payments.SubscriptionInfo{
		ID:                 "sub_" + uuid.NewString()[:8],
		Status:             "active",
		CurrentPeriodStart: now.Unix(),
		CurrentPeriodEnd:   now.AddDate(0, 1, 0).Unix(),
	}, nil
}

func (g *fakeGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unavailable {
		return payments.ErrUnavailable
	}
	g.cancelledSubs = append(g.cancelledSubs, subscriptionID)
	return nil
}

func (g *fakeGateway) CreateConnectAccount(ctx context.Context, email, country string) (*payments.Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unavailable {
		return nil, payments.ErrUnavailable
	}
	return &payments.Account{ID: "acct_" + uuid.NewString()[:8]}, nil
}

func (g *fakeGateway) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*payments.AccountLink, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unavailable {
		return nil, payments.ErrUnavailable
	}
	return &payments.AccountLink{URL: "https://connect.stripe.test/onboard/" + accountID}, nil
}

func (g *fakeGateway) CreateTransfer(ctx context.Context, amountCents int64, destinationAccountID, description string) (*payments.Transfer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unavailable {
		return nil, payments.ErrUnavailable
	}
	return &payments.Transfer{ID: "tr_" + uuid.NewString()[:8]}, nil
}
