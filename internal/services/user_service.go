package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"becreative_backend/internal/config"
	"becreative_backend/internal/logger"
	"becreative_backend/internal/models"
	"becreative_backend/internal/repositories"
	"becreative_backend/internal/services/dto"
	"becreative_backend/internal/storage"
	"becreative_backend/pkg/apperrors"
)

type UserService interface {
	GetProfile(userID string) (*dto.UserResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UploadAvatar(ctx context.Context, userID, filename, contentType string, size int64, file io.Reader) (*dto.AvatarResponse, error)
	GetCredits(userID string) (*dto.CreditsResponse, error)

	// Admin operations.
	ListUsers(query *dto.UserListQuery) ([]dto.UserResponse, int64, error)
	UpdateUserStatus(userID string, status models.UserStatus) error
	AdjustCredits(userID string, delta int) error
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
	storage  storage.Storage
}

func NewUserService(userRepo repositories.UserRepository, store storage.Storage) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		storage:  store,
	}
}

func (s *UserServiceImpl) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *UserServiceImpl) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *UserServiceImpl) UploadAvatar(ctx context.Context, userID, filename, contentType string, size int64, file io.Reader) (*dto.AvatarResponse, error) {
	cfg := config.GetConfig()

	if size > cfg.Upload.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if !isAllowedType(contentType, cfg.Upload.AllowedTypes) {
		return nil, apperrors.ErrInvalidFileType
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	oldPath := avatarObjectPath(user.AvatarURL)

	ext := filepath.Ext(filename)
	path := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), ext)

	if err := s.storage.Save(ctx, path, file, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url, err := s.storage.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateAvatar(userID, url); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// The replaced object is removed only after the new URL is recorded, so
	// the profile never points at a deleted file. A failed delete leaks one
	// object and is not worth failing the upload.
	if oldPath != "" && oldPath != path {
		if err := s.storage.Delete(ctx, oldPath); err != nil {
			logger.WithError(err).Warn("failed to delete replaced avatar",
				"user_id", userID, "path", oldPath)
		}
	}

	return &dto.AvatarResponse{AvatarURL: url}, nil
}

// avatarObjectPath recovers the storage key from a stored avatar URL. Keys
// always start at the "avatars/" segment regardless of the URL base.
func avatarObjectPath(avatarURL string) string {
	if idx := strings.Index(avatarURL, "avatars/"); idx >= 0 {
		return avatarURL[idx:]
	}
	return ""
}

func (s *UserServiceImpl) GetCredits(userID string) (*dto.CreditsResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return &dto.CreditsResponse{Credits: user.Credits}, nil
}

func (s *UserServiceImpl) ListUsers(query *dto.UserListQuery) ([]dto.UserResponse, int64, error) {
	query.Normalize()

	users, total, err := s.userRepo.FindWithFilter(repositories.UserFilter{
		Role:     models.UserRole(query.Role),
		Status:   models.UserStatus(query.Status),
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.NewUserResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *UserServiceImpl) UpdateUserStatus(userID string, status models.UserStatus) error {
	if err := s.userRepo.UpdateStatus(userID, status); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *UserServiceImpl) AdjustCredits(userID string, delta int) error {
	if err := s.userRepo.AddCredits(userID, delta); err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrUserNotFound):
			return apperrors.ErrNotFound(err)
		case apperrors.Is(err, repositories.ErrInsufficientCredits):
			return apperrors.ErrInsufficientCredits
		default:
			return apperrors.InternalError(err)
		}
	}
	return nil
}

func isAllowedType(contentType string, allowed []string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, t := range allowed {
		if contentType == t {
			return true
		}
	}
	return false
}
