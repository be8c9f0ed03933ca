package repositories

import (
	"errors"
	"time"

	"becreative_backend/internal/models"

	"gorm.io/gorm"
)

var ErrClassNotFound = errors.New("class not found")

type ClassRepository interface {
	Create(class *models.Class) error
	FindByID(id string) (*models.Class, error)
	Update(class *models.Class) error
	SetActive(id string, active bool) error
	FindWithFilter(criteria ClassFilter) ([]models.Class, int64, error)
	CountSeatsTaken(classID string) (int64, error)
}

type ClassFilter struct {
	InstructorID string
	Category     string
	VirtualOnly  bool
	UpcomingOnly bool
	ActiveOnly   bool
	Page         int
	PageSize     int
}

type ClassRepositoryImpl struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) ClassRepository {
	return &ClassRepositoryImpl{db: db}
}

func (r *ClassRepositoryImpl) Create(class *models.Class) error {
	return r.db.Create(class).Error
}

func (r *ClassRepositoryImpl) FindByID(id string) (*models.Class, error) {
	var class models.Class
	err := r.db.Preload("Instructor").Preload("Instructor.User").
		First(&class, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepositoryImpl) Update(class *models.Class) error {
	result := r.db.Model(class).Updates(map[string]interface{}{
		"title":               class.Title,
		"description":         class.Description,
		"category":            class.Category,
		"subcategory":         class.Subcategory,
		"duration_minutes":    class.DurationMinutes,
		"max_students":        class.MaxStudents,
		"price_credits":       class.PriceCredits,
		"price_dollars":       class.PriceDollars,
		"location":            class.Location,
		"is_virtual":          class.IsVirtual,
		"virtual_meeting_url": class.VirtualMeetingURL,
		"scheduled_at":        class.ScheduledAt,
		"is_active":           class.IsActive,
		"updated_at":          time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClassNotFound
	}
	return nil
}

func (r *ClassRepositoryImpl) SetActive(id string, active bool) error {
	result := r.db.Model(&models.Class{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  active,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClassNotFound
	}
	return nil
}

func (r *ClassRepositoryImpl) FindWithFilter(criteria ClassFilter) ([]models.Class, int64, error) {
	var classes []models.Class
	query := r.db.Model(&models.Class{})

	if criteria.InstructorID != "" {
		query = query.Where("instructor_id = ?", criteria.InstructorID)
	}
	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}
	if criteria.VirtualOnly {
		query = query.Where("is_virtual = ?", true)
	}
	if criteria.UpcomingOnly {
		query = query.Where("scheduled_at > ?", time.Now())
	}
	if criteria.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Preload("Instructor").Preload("Instructor.User").
		Order("scheduled_at ASC").Limit(limit).Offset(offset).Find(&classes).Error

	return classes, total, err
}

// CountSeatsTaken counts bookings that hold a seat (pending or confirmed).
func (r *ClassRepositoryImpl) CountSeatsTaken(classID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("class_id = ? AND status IN ?", classID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Count(&count).Error
	return count, err
}
