package handlers

import (
	"becreative_backend/internal/services"
	"becreative_backend/internal/validator"
)

// AppHandlers holds every HTTP handler.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	InstructorHandler   *InstructorHandler
	ClassHandler        *ClassHandler
	BookingHandler      *BookingHandler
	SubscriptionHandler *SubscriptionHandler
	ReviewHandler       *ReviewHandler
	FavoriteHandler     *FavoriteHandler
}

// NewAppHandlers builds the handler set over the service container.
func NewAppHandlers(v *validator.Validator, container *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, container.AuthService),
		UserHandler:         NewUserHandler(base, container.UserService),
		InstructorHandler:   NewInstructorHandler(base, container.InstructorService, container.ReviewService),
		ClassHandler:        NewClassHandler(base, container.ClassService, container.BookingService),
		BookingHandler:      NewBookingHandler(base, container.BookingService),
		SubscriptionHandler: NewSubscriptionHandler(base, container.SubscriptionService),
		ReviewHandler:       NewReviewHandler(base, container.ReviewService),
		FavoriteHandler:     NewFavoriteHandler(base, container.FavoriteService),
	}
}
