package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"becreative_backend/database"
	"becreative_backend/internal/auth"
	"becreative_backend/internal/config"
	"becreative_backend/internal/email"
	"becreative_backend/internal/handlers"
	"becreative_backend/internal/logger"
	"becreative_backend/internal/middleware"
	"becreative_backend/internal/models"
	"becreative_backend/internal/payments"
	"becreative_backend/internal/repositories"
	"becreative_backend/internal/routes"
	"becreative_backend/internal/services"
	"becreative_backend/internal/storage"
	"becreative_backend/internal/validator"
	"becreative_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, repos, serviceContainer := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startWorkers(ctx, repos, serviceContainer)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires the whole application and returns the router plus the
// wired layers, so tests and workers can reuse them.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, services.Repositories, *services.ServiceContainer) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	repos := services.Repositories{
		Users:         repositories.NewUserRepository(gormDB),
		RefreshTokens: repositories.NewRefreshTokenRepository(gormDB),
		Instructors:   repositories.NewInstructorRepository(gormDB),
		Classes:       repositories.NewClassRepository(gormDB),
		Bookings:      repositories.NewBookingRepository(gormDB),
		Subscriptions: repositories.NewSubscriptionRepository(gormDB),
		Reviews:       repositories.NewReviewRepository(gormDB),
		Favorites:     repositories.NewFavoriteRepository(gormDB),
	}

	gateway := payments.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.BaseURL)
	emailProvider := buildEmailProvider(cfg)

	serviceContainer := services.NewServiceContainer(repos, gateway, emailProvider, storageInstance)

	customValidator := validator.New()
	appHandlers := handlers.NewAppHandlers(customValidator, serviceContainer)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, repos, serviceContainer
}

func buildEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP is not configured, outgoing email is disabled")
		return email.NoopProvider{}
	}

	renderer, err := email.NewRenderer()
	if err != nil {
		logger.Fatal("Failed to build email templates", "error", err)
	}

	return email.NewSMTPProvider(&email.SMTPConfig{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUsername,
		Password: cfg.Email.SMTPPassword,
		From:     cfg.Email.FromEmail,
	}, renderer, cfg.Server.AppURL)
}

func startWorkers(ctx context.Context, repos services.Repositories, container *services.ServiceContainer) {
	bookingWorker := workers.NewBookingWorker(repos.Bookings)
	bookingWorker.Start(ctx)

	subscriptionWorker := workers.NewSubscriptionWorker(container.SubscriptionService, repos.RefreshTokens)
	if err := subscriptionWorker.Start(); err != nil {
		logger.Fatal("Failed to start subscription worker", "error", err)
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("First admin credentials are not configured, skipping admin seeding")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        adminEmail,
		PasswordHash: hashed,
		FullName:     "Administrator",
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.Info("Seeded first admin user", "email", adminEmail)
	return nil
}
