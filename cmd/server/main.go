package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/outbox"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/realtime"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/storage"
)

const (
	bodyLimit       = 10 * 1024 * 1024
	memoryQueueSize = 256
	socketBuffer    = 16
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.AppEnv)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records are also batched into system_logs.
	errorSink := logging.NewErrorSink(logging.NewGormLogWriter(db))
	slog.SetDefault(slog.New(logging.NewFanout(
		logging.NewJSONHandler(os.Stdout, cfg.AppEnv),
		errorSink,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Realtime fan-out and the email outbox go through Redis when it is
	// configured so several instances share them.
	hub := realtime.NewHub(socketBuffer, collector)
	var (
		emitter services.Emitter = hub
		queue   outbox.Queue
		rdb     *redis.Client
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}

		relay, err := realtime.NewRelay(hub, rdb)
		if err != nil {
			slog.Error("realtime relay setup failed", "error", err)
			os.Exit(1)
		}
		if err := relay.Start(ctx); err != nil {
			slog.Error("realtime relay failed to start", "error", err)
			os.Exit(1)
		}
		emitter = relay

		if queue, err = outbox.NewRedisQueue(rdb); err != nil {
			slog.Error("outbox queue setup failed", "error", err)
			os.Exit(1)
		}
		slog.Info("redis connected", "addr", opts.Addr)
	} else {
		queue = outbox.NewMemoryQueue(memoryQueueSize)
		slog.Info("REDIS_URL not set, using in-process queue and realtime hub")
	}

	worker := outbox.NewWorker(queue, mailer.New(cfg), collector, cfg.OutboxWorkers)
	worker.Start(ctx)

	var files services.FileStore = storage.Unavailable{}
	if s3Store, err := storage.NewS3Store(ctx, cfg); err == nil {
		files = s3Store
	} else if errors.Is(err, storage.ErrNotConfigured) {
		slog.Warn("AWS_BUCKET_NAME not set, resume uploads are disabled")
	} else {
		slog.Error("object storage setup failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewGormUserRepo(db)
	jobRepo := repository.NewGormJobRepo(db)
	applicationRepo := repository.NewGormApplicationRepo(db)
	savedRepo := repository.NewGormSavedJobRepo(db)
	notificationRepo := repository.NewGormNotificationRepo(db)
	messageRepo := repository.NewGormMessageRepo(db)

	// Services
	notificationService := services.NewNotificationService(notificationRepo, emitter, queue, collector)
	authService := services.NewAuthService(userRepo, queue, cfg)
	oauthService := services.NewOAuthService(cfg, userRepo, authService)
	jobService := services.NewJobService(jobRepo, userRepo, savedRepo, notificationService)
	applicationService := services.NewApplicationService(applicationRepo, jobRepo, userRepo, files, notificationService, cfg.FrontendURL)
	adminService := services.NewAdminService(userRepo, jobRepo, applicationRepo)
	profileService := services.NewProfileService(userRepo, files)
	dashboardService := services.NewDashboardService(jobRepo, applicationRepo, savedRepo)
	chatService := services.NewChatService(messageRepo, emitter)

	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.Metrics(collector))

	routes.Setup(app, middleware.NewGate(cfg, userRepo), routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, oauthService, cfg),
		Job:          handlers.NewJobHandler(jobService),
		Application:  handlers.NewApplicationHandler(applicationService),
		Admin:        handlers.NewAdminHandler(adminService),
		Profile:      handlers.NewProfileHandler(profileService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Notification: handlers.NewNotificationHandler(notificationService),
		Chat:         handlers.NewChatHandler(chatService),
		Health:       handlers.NewHealthHandler(func() error { return database.Ping(db) }),
		Metrics:      adaptor.HTTPHandler(metrics.Handler(reg)),
		Socket:       []fiber.Handler{realtime.Upgrade, realtime.Serve(hub)},
	})

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

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Let in-flight sends finish before Redis and the DB close.
	worker.Stop()
	cancel()

	close(cleanupDone)
	errorSink.Stop()
	sentry.Flush(2 * time.Second)

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// errorHandler answers errors that escape a handler, such as fiber's own 404
// and 413, with the API's error body.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Server error"
	}

	return c.Status(code).JSON(dto.Error(message))
}
