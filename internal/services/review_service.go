package services

import (
	"errors"

	"becreative_backend/internal/models"
	"becreative_backend/internal/repositories"
	"becreative_backend/internal/services/dto"
	"becreative_backend/pkg/apperrors"
)

type ReviewService interface {
	CreateReview(userID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ListByInstructor(instructorID string, page, pageSize int) ([]dto.ReviewResponse, int64, error)
	GetRatingSummary(instructorID string) (*dto.RatingSummary, error)
	DeleteReview(userID, reviewID string, isAdmin bool) error
}

type ReviewServiceImpl struct {
	reviewRepo     repositories.ReviewRepository
	instructorRepo repositories.InstructorRepository
	bookingRepo    repositories.BookingRepository
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	instructorRepo repositories.InstructorRepository,
	bookingRepo repositories.BookingRepository,
) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo:     reviewRepo,
		instructorRepo: instructorRepo,
		bookingRepo:    bookingRepo,
	}
}

func (s *ReviewServiceImpl) CreateReview(userID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	instructor, err := s.instructorRepo.FindByID(req.InstructorID)
	if err != nil {
		if errors.Is(err, repositories.ErrInstructorNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if instructor.UserID == userID {
		return nil, apperrors.ErrInvalidOperation("review", "instructors cannot review themselves")
	}

	// Only students who attended one of the instructor's classes may review.
	attended, err := s.hasCompletedBooking(userID, instructor.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !attended {
		return nil, apperrors.ErrInvalidOperation("review", "only students who attended a class can leave a review")
	}

	review := &models.Review{
		UserID:       userID,
		InstructorID: req.InstructorID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if req.ClassID != "" {
		classID := req.ClassID
		review.ClassID = &classID
	}

	if err := s.reviewRepo.Create(review); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewReviewResponse(review)
	return &resp, nil
}

func (s *ReviewServiceImpl) hasCompletedBooking(userID, instructorID string) (bool, error) {
	bookings, _, err := s.bookingRepo.FindByUser(userID, models.BookingStatusCompleted, 1, 100)
	if err != nil {
		return false, err
	}
	for i := range bookings {
		b := &bookings[i]
		if b.Class != nil && b.Class.InstructorID == instructorID {
			return true, nil
		}
	}
	return false, nil
}

func (s *ReviewServiceImpl) ListByInstructor(instructorID string, page, pageSize int) ([]dto.ReviewResponse, int64, error) {
	reviews, total, err := s.reviewRepo.FindByInstructor(instructorID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, dto.NewReviewResponse(&reviews[i]))
	}
	return responses, total, nil
}

func (s *ReviewServiceImpl) GetRatingSummary(instructorID string) (*dto.RatingSummary, error) {
	avg, count, err := s.reviewRepo.AverageRating(instructorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.RatingSummary{Average: avg, Count: count}, nil
}

func (s *ReviewServiceImpl) DeleteReview(userID, reviewID string, isAdmin bool) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if review.UserID != userID && !isAdmin {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
