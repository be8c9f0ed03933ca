package services

import (
	"becreative_backend/internal/email"
	"becreative_backend/internal/payments"
	"becreative_backend/internal/repositories"
	"becreative_backend/internal/storage"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	InstructorService   InstructorService
	ClassService        ClassService
	BookingService      BookingService
	SubscriptionService SubscriptionService
	ReviewService       ReviewService
	FavoriteService     FavoriteService
}

// Repositories groups the persistence layer for wiring.
type Repositories struct {
	Users         repositories.UserRepository
	RefreshTokens repositories.RefreshTokenRepository
	Instructors   repositories.InstructorRepository
	Classes       repositories.ClassRepository
	Bookings      repositories.BookingRepository
	Subscriptions repositories.SubscriptionRepository
	Reviews       repositories.ReviewRepository
	Favorites     repositories.FavoriteRepository
}

// NewServiceContainer wires services over the shared infrastructure.
func NewServiceContainer(
	repos Repositories,
	gateway payments.Gateway,
	emailProvider email.Provider,
	store storage.Storage,
) *ServiceContainer {
	instructorService := NewInstructorService(repos.Instructors, repos.Users, repos.Reviews, gateway)

	return &ServiceContainer{
		AuthService:         NewAuthService(repos.Users, repos.RefreshTokens, emailProvider),
		UserService:         NewUserService(repos.Users, store),
		InstructorService:   instructorService,
		ClassService:        NewClassService(repos.Classes, repos.Instructors),
		BookingService:      NewBookingService(repos.Bookings, repos.Classes, repos.Users, repos.Instructors, gateway, emailProvider),
		SubscriptionService: NewSubscriptionService(repos.Subscriptions, repos.Users, gateway, emailProvider),
		ReviewService:       NewReviewService(repos.Reviews, repos.Instructors, repos.Bookings),
		FavoriteService:     NewFavoriteService(repos.Favorites, repos.Instructors, instructorService),
	}
}
