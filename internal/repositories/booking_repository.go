package repositories

import (
	"errors"
	"time"

	"becreative_backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBookingNotFound       = errors.New("booking not found")
	ErrClassNotBookable      = errors.New("class is not open for booking")
	ErrClassCapacityExceeded = errors.New("class has no remaining seats")
	ErrBookingNotCancellable = errors.New("booking is not cancellable")

	// ErrWriteConflict signals an optimistic-concurrency loss (serialization
	// failure or deadlock). Callers retry a bounded number of times.
	ErrWriteConflict = errors.New("concurrent write conflict")
)

type BookingRepository interface {
	// CreateConfirmed inserts a confirmed booking while atomically enforcing
	// the capacity invariant and, for credit payments, the balance invariant.
	// On any failure no row is inserted and no balance is changed.
	CreateConfirmed(booking *models.Booking) error

	// Cancel flips a pending or confirmed booking to cancelled and, when
	// refundCredits > 0, restores the user's balance in the same transaction.
	Cancel(bookingID string, refundCredits int) error

	FindByID(id string) (*models.Booking, error)

	// FindByUser pages through a user's bookings, newest first. An empty
	// status matches all; otherwise both the page and the total are filtered.
	FindByUser(userID string, status models.BookingStatus, page, pageSize int) ([]models.Booking, int64, error)

	FindByClass(classID string) ([]models.Booking, error)

	// CompletePast marks confirmed bookings of classes that already ended
	// as completed. Returns the number of rows moved.
	CompletePast() (int64, error)
}

type BookingRepositoryImpl struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &BookingRepositoryImpl{db: db}
}

func (r *BookingRepositoryImpl) CreateConfirmed(booking *models.Booking) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Lock the class row before counting. Competing bookings for the
		// same class queue on this lock, and once it is granted every later
		// statement runs on a fresh snapshot (READ COMMITTED snapshots per
		// statement), so the count below sees the winner's committed insert.
		// A single guarded UPDATE with a seat subquery would not: the
		// re-evaluated WHERE only re-reads the locked row, not other tables.
		var class models.Class
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&class, "id = ?", booking.ClassID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClassNotFound
			}
			return err
		}
		if !class.IsActive || !class.ScheduledAt.After(time.Now()) {
			return ErrClassNotBookable
		}

		var seatsTaken int64
		err = tx.Model(&models.Booking{}).
			Where("class_id = ? AND status IN ?", class.ID,
				[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
			Count(&seatsTaken).Error
		if err != nil {
			return err
		}
		if seatsTaken >= int64(class.MaxStudents) {
			return ErrClassCapacityExceeded
		}

		if booking.PaymentMethod == models.PaymentMethodCredits {
			debit := *booking.CreditsUsed
			result := tx.Exec(`
				UPDATE users SET credits = credits - ?, updated_at = NOW()
				WHERE id = ? AND credits >= ?`,
				debit, booking.UserID, debit)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var user models.User
				if err := tx.Select("id").First(&user, "id = ?", booking.UserID).Error; err != nil {
					return ErrUserNotFound
				}
				return ErrInsufficientCredits
			}
		}

		booking.Status = models.BookingStatusConfirmed
		return tx.Create(booking).Error
	})

	return mapConflict(err)
}

func (r *BookingRepositoryImpl) Cancel(bookingID string, refundCredits int) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Status predicate guards against a concurrent cancel or completion.
		result := tx.Model(&models.Booking{}).
			Where("id = ? AND status IN ?", bookingID,
				[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
			Updates(map[string]interface{}{
				"status":     models.BookingStatusCancelled,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var booking models.Booking
			if err := tx.Select("id").First(&booking, "id = ?", bookingID).Error; err != nil {
				return ErrBookingNotFound
			}
			return ErrBookingNotCancellable
		}

		if refundCredits > 0 {
			var booking models.Booking
			if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
				return err
			}
			return tx.Exec(`
				UPDATE users SET credits = credits + ?, updated_at = NOW()
				WHERE id = ?`, refundCredits, booking.UserID).Error
		}
		return nil
	})

	return mapConflict(err)
}

func (r *BookingRepositoryImpl) FindByID(id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Preload("Class").Preload("User").
		First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) FindByUser(userID string, status models.BookingStatus, page, pageSize int) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	query := r.db.Model(&models.Booking{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Class").Preload("Class.Instructor").
		Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&bookings).Error

	return bookings, total, err
}

func (r *BookingRepositoryImpl) FindByClass(classID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Preload("User").
		Where("class_id = ?", classID).
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepositoryImpl) CompletePast() (int64, error) {
	result := r.db.Exec(`
		UPDATE bookings SET status = 'completed', updated_at = NOW()
		WHERE status = 'confirmed'
		  AND class_id IN (
		      SELECT id FROM classes
		      WHERE scheduled_at + (duration_minutes * INTERVAL '1 minute') < NOW()
		  )`)
	return result.RowsAffected, result.Error
}

// mapConflict translates Postgres serialization failures and deadlocks into
// ErrWriteConflict so services can retry.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return ErrWriteConflict
		}
	}
	return err
}
