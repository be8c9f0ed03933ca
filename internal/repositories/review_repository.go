package repositories

import (
	"errors"

	"becreative_backend/internal/models"

	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewRepository interface {
	Create(review *models.Review) error
	FindByID(id string) (*models.Review, error)
	FindByInstructor(instructorID string, page, pageSize int) ([]models.Review, int64, error)
	AverageRating(instructorID string) (float64, int64, error)
	Delete(id string) error
}

type ReviewRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &ReviewRepositoryImpl{db: db}
}

func (r *ReviewRepositoryImpl) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindByID(id string) (*models.Review, error) {
	var review models.Review
	err := r.db.Preload("User").First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByInstructor(instructorID string, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	query := r.db.Model(&models.Review{}).Where("instructor_id = ?", instructorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&reviews).Error

	return reviews, total, err
}

func (r *ReviewRepositoryImpl) AverageRating(instructorID string) (float64, int64, error) {
	type aggregate struct {
		Avg   float64
		Count int64
	}

	var agg aggregate
	err := r.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("instructor_id = ?", instructorID).
		Scan(&agg).Error

	return agg.Avg, agg.Count, err
}

func (r *ReviewRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
