package workers

import (
	"github.com/robfig/cron/v3"

	"becreative_backend/internal/logger"
	"becreative_backend/internal/repositories"
	"becreative_backend/internal/services"
)

// SubscriptionWorker grants monthly credits on a cron schedule and prunes
// expired refresh tokens while it's at it.
type SubscriptionWorker struct {
	subscriptionService services.SubscriptionService
	refreshTokenRepo    repositories.RefreshTokenRepository
	cron                *cron.Cron
}

func NewSubscriptionWorker(
	subscriptionService services.SubscriptionService,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *SubscriptionWorker {
	return &SubscriptionWorker{
		subscriptionService: subscriptionService,
		refreshTokenRepo:    refreshTokenRepo,
		cron:                cron.New(),
	}
}

func (w *SubscriptionWorker) Start() error {
	// Hourly: catch period rollovers shortly after they happen.
	if _, err := w.cron.AddFunc("0 * * * *", w.renewSubscriptions); err != nil {
		return err
	}

	// Daily at 03:00: token table cleanup.
	if _, err := w.cron.AddFunc("0 3 * * *", w.cleanupRefreshTokens); err != nil {
		return err
	}

	w.cron.Start()
	logger.Info("Subscription worker started")
	return nil
}

func (w *SubscriptionWorker) Stop() {
	w.cron.Stop()
}

func (w *SubscriptionWorker) renewSubscriptions() {
	renewed, err := w.subscriptionService.RenewDue()
	if err != nil {
		logger.WorkerLog("subscription", "renew_due", err)
		return
	}
	if renewed > 0 {
		logger.Info("Renewed subscriptions", "count", renewed)
	}
}

func (w *SubscriptionWorker) cleanupRefreshTokens() {
	deleted, err := w.refreshTokenRepo.DeleteExpired()
	if err != nil {
		logger.WorkerLog("subscription", "cleanup_refresh_tokens", err)
		return
	}
	if deleted > 0 {
		logger.Info("Deleted expired refresh tokens", "count", deleted)
	}
}
