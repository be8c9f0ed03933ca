package repositories

import (
	"errors"

	"becreative_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrFavoriteNotFound      = errors.New("favorite not found")
	ErrFavoriteAlreadyExists = errors.New("instructor already favorited")
)

type FavoriteRepository interface {
	Add(favorite *models.FavoriteInstructor) error
	Remove(userID, instructorID string) error
	FindByUser(userID string) ([]models.FavoriteInstructor, error)
	Exists(userID, instructorID string) (bool, error)
}

type FavoriteRepositoryImpl struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &FavoriteRepositoryImpl{db: db}
}

func (r *FavoriteRepositoryImpl) Add(favorite *models.FavoriteInstructor) error {
	var existing models.FavoriteInstructor
	err := r.db.Where("user_id = ? AND instructor_id = ?", favorite.UserID, favorite.InstructorID).
		First(&existing).Error
	if err == nil {
		return ErrFavoriteAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return r.db.Create(favorite).Error
}

func (r *FavoriteRepositoryImpl) Remove(userID, instructorID string) error {
	result := r.db.Where("user_id = ? AND instructor_id = ?", userID, instructorID).
		Delete(&models.FavoriteInstructor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepositoryImpl) FindByUser(userID string) ([]models.FavoriteInstructor, error) {
	var favorites []models.FavoriteInstructor
	err := r.db.Preload("Instructor").Preload("Instructor.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}

func (r *FavoriteRepositoryImpl) Exists(userID, instructorID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.FavoriteInstructor{}).
		Where("user_id = ? AND instructor_id = ?", userID, instructorID).
		Count(&count).Error
	return count > 0, err
}
