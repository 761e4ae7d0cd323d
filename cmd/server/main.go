package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gramatike/gramatike-api/internal/apps"
	"github.com/gramatike/gramatike-api/internal/apps/dynamics"
	"github.com/gramatike/gramatike-api/internal/apps/exercises"
	"github.com/gramatike/gramatike-api/internal/apps/palavra"
	"github.com/gramatike/gramatike-api/internal/config"
	"github.com/gramatike/gramatike-api/internal/database"
	"github.com/gramatike/gramatike-api/internal/handlers"
	"github.com/gramatike/gramatike-api/internal/logging"
	"github.com/gramatike/gramatike-api/internal/mailer"
	"github.com/gramatike/gramatike-api/internal/middleware"
	"github.com/gramatike/gramatike-api/internal/routes"
	"github.com/gramatike/gramatike-api/internal/services"
	"github.com/gramatike/gramatike-api/internal/storage"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.SecretKey == "" {
		slog.Error("SECRET_KEY environment variable is required")
		os.Exit(1)
	}
	if cfg.DSN() == "" {
		slog.Error("database configuration is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Migrate shared models
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// Plugins
	plugins := []apps.Plugin{
		dynamics.New(),
		palavra.New(),
		exercises.New(),
	}
	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(models); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
		}
	}

	// Schema self-healing runs after migrations and never aborts startup.
	database.SelfHeal(database.DB)

	// PostgreSQL log handler (WARN+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Object storage: Supabase first, local disk as fallback.
	var uploader storage.Uploader = storage.Chain{
		storage.NewSupabase(cfg),
		storage.NewLocalFallback(cfg.UploadsDir),
	}

	var mail mailer.Sender = mailer.Noop{}
	if cfg.MailUsername != "" && cfg.MailPassword != "" {
		mail = mailer.NewSMTPMailer(cfg)
	} else {
		slog.Warn("mail credentials missing, e-mail sending disabled")
	}

	// Services
	moderationService := services.NewModerationService(database.DB)
	tokenService := services.NewTokenService(cfg.SecretKey)
	authService := services.NewAuthService(database.DB, moderationService, tokenService, mail, cfg)
	postService := services.NewPostService(database.DB, moderationService, uploader)
	userService := services.NewUserService(database.DB, moderationService, uploader)
	followService := services.NewFollowService(database.DB)
	reportService := services.NewReportService(database.DB)
	curationService := services.NewCurationService(database.DB, uploader)
	feedService := services.NewFeedService(database.DB)
	adminService := services.NewAdminService(database.DB, moderationService)
	eduService := services.NewEduService(database.DB)
	supportService := services.NewSupportService(database.DB, moderationService, mail)

	rateLimiter := middleware.NewRateLimiter()

	deps := &apps.Deps{
		DB:         database.DB,
		Cfg:        cfg,
		Moderation: moderationService,
		Limiter:    rateLimiter,
	}

	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, moderationService, cfg),
		Post:     handlers.NewPostHandler(postService, reportService, moderationService),
		Profile:  handlers.NewProfileHandler(userService, followService, moderationService),
		Feed:     handlers.NewFeedHandler(feedService),
		Curation: handlers.NewCurationHandler(curationService),
		Admin:    handlers.NewAdminHandler(adminService, reportService),
		Support:  handlers.NewSupportHandler(supportService, moderationService),
		Edu:      handlers.NewEduHandler(eduService),
		Health:   handlers.NewHealthHandler(),
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.MaxContentLength,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, database.DB, h, rateLimiter, plugins, deps)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Erro interno"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Erro interno"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
