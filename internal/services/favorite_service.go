package services

import (
	"errors"

	"becreative_backend/internal/models"
	"becreative_backend/internal/repositories"
	"becreative_backend/internal/services/dto"
	"becreative_backend/pkg/apperrors"
)

type FavoriteService interface {
	AddFavorite(userID, instructorID string) error
	RemoveFavorite(userID, instructorID string) error
	ListFavorites(userID string) ([]dto.InstructorResponse, error)
}

type FavoriteServiceImpl struct {
	favoriteRepo      repositories.FavoriteRepository
	instructorService InstructorService
	instructorRepo    repositories.InstructorRepository
}

func NewFavoriteService(
	favoriteRepo repositories.FavoriteRepository,
	instructorRepo repositories.InstructorRepository,
	instructorService InstructorService,
) FavoriteService {
	return &FavoriteServiceImpl{
		favoriteRepo:      favoriteRepo,
		instructorRepo:    instructorRepo,
		instructorService: instructorService,
	}
}

func (s *FavoriteServiceImpl) AddFavorite(userID, instructorID string) error {
	if _, err := s.instructorRepo.FindByID(instructorID); err != nil {
		if errors.Is(err, repositories.ErrInstructorNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	err := s.favoriteRepo.Add(&models.FavoriteInstructor{
		UserID:       userID,
		InstructorID: instructorID,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrFavoriteAlreadyExists) {
			// Favoriting twice is a no-op, not an error.
			return nil
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *FavoriteServiceImpl) RemoveFavorite(userID, instructorID string) error {
	if err := s.favoriteRepo.Remove(userID, instructorID); err != nil {
		if errors.Is(err, repositories.ErrFavoriteNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *FavoriteServiceImpl) ListFavorites(userID string) ([]dto.InstructorResponse, error) {
	favorites, err := s.favoriteRepo.FindByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.InstructorResponse, 0, len(favorites))
	for i := range favorites {
		resp, err := s.instructorService.GetInstructor(favorites[i].InstructorID)
		if err != nil {
			// The instructor may have been removed since favoriting.
			continue
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}
