package repositories

import (
	"errors"
	"time"

	"becreative_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInstructorNotFound      = errors.New("instructor not found")
	ErrInstructorAlreadyExists = errors.New("instructor already exists")
)

type InstructorRepository interface {
	Create(instructor *models.Instructor) error
	FindByID(id string) (*models.Instructor, error)
	FindByUserID(userID string) (*models.Instructor, error)
	Update(instructor *models.Instructor) error
	SetVerified(id string, verified bool) error
	SetStripeAccountID(id, accountID string) error
	FindWithFilter(criteria InstructorFilter) ([]models.Instructor, int64, error)
	CountActiveClasses(instructorID string) (int64, error)
}

type InstructorFilter struct {
	Specialty    string
	Location     string
	VerifiedOnly bool
	Page         int
	PageSize     int
}

type InstructorRepositoryImpl struct {
	db *gorm.DB
}

func NewInstructorRepository(db *gorm.DB) InstructorRepository {
	return &InstructorRepositoryImpl{db: db}
}

func (r *InstructorRepositoryImpl) Create(instructor *models.Instructor) error {
	var existing models.Instructor
	if err := r.db.Where("user_id = ?", instructor.UserID).First(&existing).Error; err == nil {
		return ErrInstructorAlreadyExists
	}

	return r.db.Create(instructor).Error
}

func (r *InstructorRepositoryImpl) FindByID(id string) (*models.Instructor, error) {
	var instructor models.Instructor
	err := r.db.Preload("User").First(&instructor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, err
	}
	return &instructor, nil
}

func (r *InstructorRepositoryImpl) FindByUserID(userID string) (*models.Instructor, error) {
	var instructor models.Instructor
	err := r.db.Preload("User").First(&instructor, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, err
	}
	return &instructor, nil
}

func (r *InstructorRepositoryImpl) Update(instructor *models.Instructor) error {
	result := r.db.Model(instructor).Updates(map[string]interface{}{
		"bio":              instructor.Bio,
		"specialties":      instructor.Specialties,
		"experience_years": instructor.ExperienceYears,
		"hourly_rate":      instructor.HourlyRate,
		"location":         instructor.Location,
		"is_active":        instructor.IsActive,
		"updated_at":       time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInstructorNotFound
	}
	return nil
}

func (r *InstructorRepositoryImpl) SetVerified(id string, verified bool) error {
	result := r.db.Model(&models.Instructor{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_verified": verified,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInstructorNotFound
	}
	return nil
}

func (r *InstructorRepositoryImpl) SetStripeAccountID(id, accountID string) error {
	result := r.db.Model(&models.Instructor{}).Where("id = ?", id).Updates(map[string]interface{}{
		"stripe_account_id": accountID,
		"updated_at":        time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInstructorNotFound
	}
	return nil
}

func (r *InstructorRepositoryImpl) FindWithFilter(criteria InstructorFilter) ([]models.Instructor, int64, error) {
	var instructors []models.Instructor
	query := r.db.Model(&models.Instructor{}).Where("is_active = ?", true)

	if criteria.Specialty != "" {
		query = query.Where("specialties::text ILIKE ?", "%"+criteria.Specialty+"%")
	}
	if criteria.Location != "" {
		query = query.Where("location ILIKE ?", "%"+criteria.Location+"%")
	}
	if criteria.VerifiedOnly {
		query = query.Where("is_verified = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Preload("User").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&instructors).Error

	return instructors, total, err
}

// CountActiveClasses counts upcoming active classes owned by the instructor.
// Used for orphan prevention before a role change or deactivation.
func (r *InstructorRepositoryImpl) CountActiveClasses(instructorID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Class{}).
		Where("instructor_id = ? AND is_active = ? AND scheduled_at > ?", instructorID, true, time.Now()).
		Count(&count).Error
	return count, err
}
