package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pinkcollar_backend/database"
	"pinkcollar_backend/internal/auth"
	"pinkcollar_backend/internal/cache"
	"pinkcollar_backend/internal/config"
	"pinkcollar_backend/internal/email"
	"pinkcollar_backend/internal/geocoder"
	"pinkcollar_backend/internal/handlers"
	"pinkcollar_backend/internal/logger"
	"pinkcollar_backend/internal/middleware"
	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/repositories"
	"pinkcollar_backend/internal/routes"
	"pinkcollar_backend/internal/services"
	"pinkcollar_backend/internal/storage"
	"pinkcollar_backend/internal/validator"
	"pinkcollar_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Infrastructure - внешние зависимости, общие для сервисов
type Infrastructure struct {
	DB       *gorm.DB
	Storage  storage.Storage
	Cache    *cache.Redis
	Mailer   *email.Mailer
	Geocoder geocoder.Geocoder
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Если не удалось создать админа - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	infra := initializeInfrastructure(cfg, gormDB)
	defer infra.Cache.Close()

	serviceContainer := initializeServices(cfg, infra)
	appHandlers := initializeHandlers(infra, serviceContainer)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, routeOptions(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := workers.NewInvitationWorker(
		gormDB,
		serviceContainer.InvitationService,
		repositories.NewDenylistRepository(),
		time.Duration(cfg.Invitation.SweepIntervalMinutes)*time.Minute,
	)
	worker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server stopped")
}

func initializeInfrastructure(cfg *config.Config, gormDB *gorm.DB) *Infrastructure {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", storageInstance.Provider())

	redisCache := cache.NewRedis(cache.Options{
		Enabled:  cfg.Redis.Enabled,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	templates, err := email.NewDefaultTemplateManager(cfg.Email.TemplatesDir)
	if err != nil {
		logger.Fatal("Failed to load email templates", "error", err)
	}

	var emailProvider email.Provider
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP is not configured, emails will only be logged")
		emailProvider = NewLogEmailProvider(templates)
	} else {
		smtpCfg := email.DefaultConfig()
		smtpCfg.Host = cfg.Email.SMTPHost
		smtpCfg.Port = cfg.Email.SMTPPort
		smtpCfg.Username = cfg.Email.SMTPUsername
		smtpCfg.Password = cfg.Email.SMTPPassword
		smtpCfg.FromEmail = cfg.Email.FromEmail
		smtpCfg.FromName = cfg.Email.FromName
		smtpCfg.UseTLS = cfg.Email.UseTLS
		emailProvider = email.NewGomailProvider(smtpCfg, templates)
		if err := emailProvider.Validate(); err != nil {
			logger.Fatal("Invalid SMTP configuration", "error", err)
		}
	}

	var geo geocoder.Geocoder = geocoder.Noop{}
	if cfg.Geocoder.Enabled {
		geo = geocoder.NewNominatim(geocoder.Options{
			BaseURL:   cfg.Geocoder.BaseURL,
			UserAgent: cfg.Geocoder.UserAgent,
			Timeout:   time.Duration(cfg.Geocoder.TimeoutSeconds) * time.Second,
			CacheTTL:  time.Duration(cfg.Geocoder.CacheTTLHours) * time.Hour,
		}, redisCache)
		logger.Info("Geocoder enabled", "base_url", cfg.Geocoder.BaseURL)
	}

	return &Infrastructure{
		DB:       gormDB,
		Storage:  storageInstance,
		Cache:    redisCache,
		Mailer:   email.NewMailer(emailProvider, cfg.Server.PublicURL, cfg.Server.FrontendURL),
		Geocoder: geo,
	}
}

func initializeServices(cfg *config.Config, infra *Infrastructure) *services.ServiceContainer {
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is not configured")
	}

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository()
	invitationRepo := repositories.NewInvitationRepository()
	denylistRepo := repositories.NewDenylistRepository()
	candidateRepo := repositories.NewCandidateRepository()
	attachmentRepo := repositories.NewAttachmentRepository()

	// --- Инициализация сервисов ---
	customValidator := validator.New()
	tokens := auth.NewHMACService(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.TTL)*time.Minute)

	dashboardService := services.NewDashboardService(
		candidateRepo,
		attachmentRepo,
		infra.Cache,
		time.Duration(cfg.Dashboard.CacheTTLSeconds)*time.Second,
	)

	candidateService := services.NewCandidateService(
		candidateRepo,
		attachmentRepo,
		infra.Storage,
		customValidator,
		validator.NewEmailChecker(customValidator, nil),
		services.UploadConfig{
			MaxSize:      cfg.Upload.MaxSize,
			MaxVideoSize: cfg.Upload.MaxVideoSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
		},
		dashboardService,
		services.NewGeocodeHook(infra.Geocoder, candidateRepo),
		services.NewConfirmationMailHook(infra.Mailer),
		services.NewDashboardCacheHook(dashboardService),
	)

	invitationService := services.NewInvitationService(userRepo, invitationRepo, infra.Mailer, services.InvitationConfig{
		TTL:               time.Duration(cfg.Invitation.TTLHours) * time.Hour,
		AcceptRedirectURL: cfg.Invitation.AcceptRedirectURL,
	})

	return &services.ServiceContainer{
		CandidateService:  candidateService,
		DashboardService:  dashboardService,
		AdminService:      services.NewAdminService(userRepo, invitationRepo),
		InvitationService: invitationService,
		SessionService:    services.NewSessionService(userRepo, denylistRepo, tokens, infra.Cache),
		PasswordService:   services.NewPasswordService(userRepo, infra.Mailer),
		Storage:           infra.Storage,
	}
}

func initializeHandlers(infra *Infrastructure, svc *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New(), middleware.AuthMiddleware(svc.SessionService))

	return &handlers.AppHandlers{
		HealthHandler:     handlers.NewHealthHandler(),
		CandidateHandler:  handlers.NewCandidateHandler(baseHandler, svc.CandidateService),
		DashboardHandler:  handlers.NewDashboardHandler(baseHandler, svc.DashboardService, svc.AdminService),
		InvitationHandler: handlers.NewInvitationHandler(baseHandler, svc.InvitationService),
		SessionHandler:    handlers.NewSessionHandler(baseHandler, svc.SessionService, svc.PasswordService),
		FileHandler:       handlers.NewFileHandler(baseHandler, infra.Storage, repositories.NewAttachmentRepository()),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 32 << 20
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// routeOptions: локальное хранилище раздается по пути из base_url
func routeOptions(cfg *config.Config) routes.Options {
	opts := routes.Options{EnableSwagger: cfg.Server.Env != "production"}
	if cfg.Storage.Type != storage.ProviderLocal {
		return opts
	}
	path := cfg.Storage.BaseURL
	if u, err := url.Parse(cfg.Storage.BaseURL); err == nil && u.Path != "" {
		path = u.Path
	}
	if strings.HasPrefix(path, "/") {
		opts.LocalFilesDir = cfg.Storage.BasePath
		opts.LocalFilesPath = strings.TrimRight(path, "/")
	}
	return opts
}

// seedFirstAdmin создает первого админа из конфига, если такого email еще нет
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.FirstAdminEmail))
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	userRepo := repositories.NewUserRepository()
	exists, err := userRepo.ExistsByEmail(tx, adminEmail)
	if err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if exists {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	acceptedAt := time.Now()
	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		FirstName:    "Admin",
		Role:         models.UserRoleAdmin,
		InviteStatus: models.InviteStatusAccepted,
		IsActive:     true,
		AcceptedAt:   &acceptedAt,
	}
	if err := userRepo.Create(tx, newAdmin); err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit first admin: %w", err)
	}
	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
