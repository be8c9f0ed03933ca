package services

import (
	"time"

	"becreative_backend/internal/models"
	"becreative_backend/internal/repositories"
	"becreative_backend/internal/services/dto"
	"becreative_backend/pkg/apperrors"
)

type ClassService interface {
	CreateClass(userID string, req *dto.CreateClassRequest) (*dto.ClassResponse, error)
	GetClass(id string) (*dto.ClassResponse, error)
	UpdateClass(userID, classID string, isAdmin bool, req *dto.UpdateClassRequest) (*dto.ClassResponse, error)
	DeactivateClass(userID, classID string, isAdmin bool) error
	ListClasses(query *dto.ClassListQuery) ([]dto.ClassResponse, int64, error)
}

type ClassServiceImpl struct {
	classRepo      repositories.ClassRepository
	instructorRepo repositories.InstructorRepository
}

func NewClassService(
	classRepo repositories.ClassRepository,
	instructorRepo repositories.InstructorRepository,
) ClassService {
	return &ClassServiceImpl{
		classRepo:      classRepo,
		instructorRepo: instructorRepo,
	}
}

func (s *ClassServiceImpl) CreateClass(userID string, req *dto.CreateClassRequest) (*dto.ClassResponse, error) {
	instructor, err := s.instructorRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInstructorNotFound) {
			return nil, apperrors.ErrInsufficientPermissions
		}
		return nil, apperrors.InternalError(err)
	}

	if !instructor.IsActive {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.ScheduledAt.Before(time.Now()) {
		return nil, apperrors.ErrInvalidOperation("class", "scheduled_at must be in the future")
	}
	if req.PriceCredits == 0 && req.PriceDollars == 0 {
		return nil, apperrors.ErrInvalidOperation("class", "class must have a credit price, a dollar price, or both")
	}

	class := &models.Class{
		InstructorID:      instructor.ID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Subcategory:       req.Subcategory,
		DurationMinutes:   req.DurationMinutes,
		MaxStudents:       req.MaxStudents,
		PriceCredits:      req.PriceCredits,
		PriceDollars:      req.PriceDollars,
		Location:          req.Location,
		IsVirtual:         req.IsVirtual,
		VirtualMeetingURL: req.VirtualMeetingURL,
		ScheduledAt:       req.ScheduledAt,
		IsActive:          true,
	}

	if err := s.classRepo.Create(class); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewClassResponse(class, 0)
	return &resp, nil
}

func (s *ClassServiceImpl) GetClass(id string) (*dto.ClassResponse, error) {
	class, err := s.classRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrClassNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	seatsTaken, err := s.classRepo.CountSeatsTaken(id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewClassResponse(class, seatsTaken)
	return &resp, nil
}

func (s *ClassServiceImpl) UpdateClass(userID, classID string, isAdmin bool, req *dto.UpdateClassRequest) (*dto.ClassResponse, error) {
	class, err := s.authorizeClassOwner(userID, classID, isAdmin)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		class.Title = *req.Title
	}
	if req.Description != nil {
		class.Description = *req.Description
	}
	if req.Category != nil {
		class.Category = *req.Category
	}
	if req.Subcategory != nil {
		class.Subcategory = *req.Subcategory
	}
	if req.DurationMinutes != nil {
		class.DurationMinutes = *req.DurationMinutes
	}
	if req.MaxStudents != nil {
		// Shrinking capacity below current occupancy would break existing
		// bookings.
		seatsTaken, err := s.classRepo.CountSeatsTaken(classID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if int64(*req.MaxStudents) < seatsTaken {
			return nil, apperrors.ErrInvalidOperation("class", "max_students cannot be lower than current bookings")
		}
		class.MaxStudents = *req.MaxStudents
	}
	if req.PriceCredits != nil {
		class.PriceCredits = *req.PriceCredits
	}
	if req.PriceDollars != nil {
		class.PriceDollars = *req.PriceDollars
	}
	if req.Location != nil {
		class.Location = *req.Location
	}
	if req.IsVirtual != nil {
		class.IsVirtual = *req.IsVirtual
	}
	if req.VirtualMeetingURL != nil {
		class.VirtualMeetingURL = *req.VirtualMeetingURL
	}
	if req.ScheduledAt != nil {
		if req.ScheduledAt.Before(time.Now()) {
			return nil, apperrors.ErrInvalidOperation("class", "scheduled_at must be in the future")
		}
		class.ScheduledAt = *req.ScheduledAt
	}
	if req.IsActive != nil {
		class.IsActive = *req.IsActive
	}

	if err := s.classRepo.Update(class); err != nil {
		return nil, apperrors.InternalError(err)
	}

	seatsTaken, err := s.classRepo.CountSeatsTaken(classID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewClassResponse(class, seatsTaken)
	return &resp, nil
}

func (s *ClassServiceImpl) DeactivateClass(userID, classID string, isAdmin bool) error {
	if _, err := s.authorizeClassOwner(userID, classID, isAdmin); err != nil {
		return err
	}

	if err := s.classRepo.SetActive(classID, false); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *ClassServiceImpl) ListClasses(query *dto.ClassListQuery) ([]dto.ClassResponse, int64, error) {
	query.Normalize()

	classes, total, err := s.classRepo.FindWithFilter(repositories.ClassFilter{
		InstructorID: query.InstructorID,
		Category:     query.Category,
		VirtualOnly:  query.VirtualOnly,
		UpcomingOnly: query.UpcomingOnly,
		ActiveOnly:   true,
		Page:         query.Page,
		PageSize:     query.PageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	responses := make([]dto.ClassResponse, 0, len(classes))
	for i := range classes {
		seatsTaken, err := s.classRepo.CountSeatsTaken(classes[i].ID)
		if err != nil {
			return nil, 0, apperrors.InternalError(err)
		}
		responses = append(responses, dto.NewClassResponse(&classes[i], seatsTaken))
	}
	return responses, total, nil
}

func (s *ClassServiceImpl) authorizeClassOwner(userID, classID string, isAdmin bool) (*models.Class, error) {
	class, err := s.classRepo.FindByID(classID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrClassNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if isAdmin {
		return class, nil
	}

	instructor, err := s.instructorRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInstructorNotFound) {
			return nil, apperrors.ErrNotClassOwner
		}
		return nil, apperrors.InternalError(err)
	}
	if class.InstructorID != instructor.ID {
		return nil, apperrors.ErrNotClassOwner
	}
	return class, nil
}
