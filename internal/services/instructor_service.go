package services

import (
	"context"
	"encoding/json"

	"becreative_backend/internal/config"
	"becreative_backend/internal/logger"
	"becreative_backend/internal/models"
	"becreative_backend/internal/payments"
	"becreative_backend/internal/repositories"
	"becreative_backend/internal/services/dto"
	"becreative_backend/pkg/apperrors"
)

type InstructorService interface {
	// BecomeInstructor creates the teaching profile, promotes the user's
	// role, and starts payout onboarding with the payment processor.
	BecomeInstructor(ctx context.Context, userID string, req *dto.CreateInstructorRequest) (*dto.OnboardingResponse, error)

	GetInstructor(id string) (*dto.InstructorResponse, error)
	GetByUserID(userID string) (*dto.InstructorResponse, error)
	UpdateInstructor(userID, instructorID string, isAdmin bool, req *dto.UpdateInstructorRequest) (*dto.InstructorResponse, error)
	ListInstructors(query *dto.InstructorListQuery) ([]dto.InstructorResponse, int64, error)

	// VerifyInstructor is an admin action.
	VerifyInstructor(instructorID string, verified bool) error

	// DemoteInstructor returns the user to the student role. Fails while
	// the instructor still has upcoming active classes.
	DemoteInstructor(instructorID string) error
}

type InstructorServiceImpl struct {
	instructorRepo repositories.InstructorRepository
	userRepo       repositories.UserRepository
	reviewRepo     repositories.ReviewRepository
	gateway        payments.Gateway
}

func NewInstructorService(
	instructorRepo repositories.InstructorRepository,
	userRepo repositories.UserRepository,
	reviewRepo repositories.ReviewRepository,
	gateway payments.Gateway,
) InstructorService {
	return &InstructorServiceImpl{
		instructorRepo: instructorRepo,
		userRepo:       userRepo,
		reviewRepo:     reviewRepo,
		gateway:        gateway,
	}
}

func (s *InstructorServiceImpl) BecomeInstructor(ctx context.Context, userID string, req *dto.CreateInstructorRequest) (*dto.OnboardingResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	specialties, err := json.Marshal(req.Specialties)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	instructor := &models.Instructor{
		UserID:          userID,
		Bio:             req.Bio,
		Specialties:     specialties,
		ExperienceYears: req.ExperienceYears,
		HourlyRate:      req.HourlyRate,
		Location:        req.Location,
		IsActive:        true,
	}

	if err := s.instructorRepo.Create(instructor); err != nil {
		if apperrors.Is(err, repositories.ErrInstructorAlreadyExists) {
			return nil, apperrors.ErrInstructorExists
		}
		return nil, apperrors.InternalError(err)
	}

	if user.Role == models.UserRoleStudent {
		if err := s.userRepo.UpdateRole(userID, models.UserRoleInstructor); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	resp := &dto.OnboardingResponse{
		Instructor: dto.NewInstructorResponse(instructor, req.Specialties),
	}

	// Payout onboarding is best effort: the profile exists either way and
	// onboarding can be retried from the dashboard.
	onboardURL, err := s.startPayoutOnboarding(ctx, instructor, user.Email)
	if err != nil {
		logger.WithError(err).Warn("payout onboarding deferred", "instructor_id", instructor.ID)
	} else {
		resp.OnboardURL = onboardURL
	}

	return resp, nil
}

func (s *InstructorServiceImpl) startPayoutOnboarding(ctx context.Context, instructor *models.Instructor, email string) (string, error) {
	account, err := s.gateway.CreateConnectAccount(ctx, email, "")
	if err != nil {
		return "", err
	}

	if err := s.instructorRepo.SetStripeAccountID(instructor.ID, account.ID); err != nil {
		return "", err
	}

	cfg := config.GetConfig()
	link, err := s.gateway.CreateAccountLink(ctx, account.ID, cfg.Stripe.RefreshURL, cfg.Stripe.ReturnURL)
	if err != nil {
		return "", err
	}
	return link.URL, nil
}

func (s *InstructorServiceImpl) GetInstructor(id string) (*dto.InstructorResponse, error) {
	instructor, err := s.instructorRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInstructorNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return s.toResponse(instructor)
}

func (s *InstructorServiceImpl) GetByUserID(userID string) (*dto.InstructorResponse, error) {
	instructor, err := s.instructorRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInstructorNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return s.toResponse(instructor)
}

func (s *InstructorServiceImpl) UpdateInstructor(userID, instructorID string, isAdmin bool, req *dto.UpdateInstructorRequest) (*dto.InstructorResponse, error) {
	instructor, err := s.instructorRepo.FindByID(instructorID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInstructorNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if instructor.UserID != userID && !isAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.Bio != nil {
		instructor.Bio = *req.Bio
	}
	if req.Specialties != nil {
		specialties, err := json.Marshal(*req.Specialties)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		instructor.Specialties = specialties
	}
	if req.ExperienceYears != nil {
		instructor.ExperienceYears = *req.ExperienceYears
	}
	if req.HourlyRate != nil {
		instructor.HourlyRate = *req.HourlyRate
	}
	if req.Location != nil {
		instructor.Location = *req.Location
	}
	if req.IsActive != nil {
		instructor.IsActive = *req.IsActive
	}

	if err := s.instructorRepo.Update(instructor); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.toResponse(instructor)
}

func (s *InstructorServiceImpl) ListInstructors(query *dto.InstructorListQuery) ([]dto.InstructorResponse, int64, error) {
	query.Normalize()

	instructors, total, err := s.instructorRepo.FindWithFilter(repositories.InstructorFilter{
		Specialty:    query.Specialty,
		Location:     query.Location,
		VerifiedOnly: query.VerifiedOnly,
		Page:         query.Page,
		PageSize:     query.PageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	responses := make([]dto.InstructorResponse, 0, len(instructors))
	for i := range instructors {
		resp, err := s.toResponse(&instructors[i])
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, *resp)
	}
	return responses, total, nil
}

func (s *InstructorServiceImpl) VerifyInstructor(instructorID string, verified bool) error {
	if err := s.instructorRepo.SetVerified(instructorID, verified); err != nil {
		if apperrors.Is(err, repositories.ErrInstructorNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *InstructorServiceImpl) DemoteInstructor(instructorID string) error {
	instructor, err := s.instructorRepo.FindByID(instructorID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInstructorNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	// Upcoming classes would be orphaned by the demotion.
	activeClasses, err := s.instructorRepo.CountActiveClasses(instructorID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if activeClasses > 0 {
		return apperrors.ErrInstructorHasClasses
	}

	instructor.IsActive = false
	if err := s.instructorRepo.Update(instructor); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateRole(instructor.UserID, models.UserRoleStudent); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *InstructorServiceImpl) toResponse(instructor *models.Instructor) (*dto.InstructorResponse, error) {
	var specialties []string
	if len(instructor.Specialties) > 0 {
		if err := json.Unmarshal(instructor.Specialties, &specialties); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	resp := dto.NewInstructorResponse(instructor, specialties)

	avg, count, err := s.reviewRepo.AverageRating(instructor.ID)
	if err == nil {
		resp.Rating = avg
		resp.ReviewCount = count
	}
	return &resp, nil
}
