package workers

import (
	"context"
	"time"

	"becreative_backend/internal/logger"
	"becreative_backend/internal/repositories"
)

// BookingWorker sweeps confirmed bookings of classes that have ended into
// the completed state.
type BookingWorker struct {
	bookingRepo repositories.BookingRepository
	interval    time.Duration
}

func NewBookingWorker(bookingRepo repositories.BookingRepository) *BookingWorker {
	return &BookingWorker{
		bookingRepo: bookingRepo,
		interval:    10 * time.Minute,
	}
}

func (w *BookingWorker) Start(ctx context.Context) {
	go w.completePastBookings(ctx)
}

func (w *BookingWorker) completePastBookings(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Booking worker stopped")
			return
		case <-ticker.C:
			moved, err := w.bookingRepo.CompletePast()
			if err != nil {
				logger.WorkerLog("booking", "complete_past", err)
				continue
			}
			if moved > 0 {
				logger.Info("Completed past bookings", "count", moved)
			}
		}
	}
}
