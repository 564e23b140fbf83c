package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/orbita-consulting/platform/internal/api/http"
	"github.com/orbita-consulting/platform/internal/api/http/handlers"
	"github.com/orbita-consulting/platform/internal/auth"
	"github.com/orbita-consulting/platform/internal/config"
	"github.com/orbita-consulting/platform/internal/events"
	"github.com/orbita-consulting/platform/internal/observability"
	"github.com/orbita-consulting/platform/internal/persistence"
	"github.com/orbita-consulting/platform/internal/ratelimit"
	"github.com/orbita-consulting/platform/internal/repository"
	"github.com/orbita-consulting/platform/internal/service"
	"github.com/orbita-consulting/platform/internal/storage"
	"github.com/orbita-consulting/platform/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	files, err := storage.NewLocalStore(cfg.Storage.Root)
	if err != nil {
		logger.Fatal("failed to init file storage", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	assessmentRepo := repository.NewAssessmentRepository(pool)
	landingRepo := repository.NewLandingRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	limiter := ratelimit.NewRedisLimiter(redis.Client)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	authService := service.NewAuthService(cfg.Auth, userRepo, resetRepo, tokens, logger)
	accountService := service.NewAccountService(userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		MessageRepo:    messageRepo,
		AttachmentRepo: attachmentRepo,
		CategoryRepo:   categoryRepo,
		UserRepo:       userRepo,
		Files:          files,
		Dispatcher:     dispatcher,
		Limiter:        limiter,
		OpsPerMinute:   cfg.RateLimit.TicketOpsPerMinute,
	})
	categoryService := service.NewCategoryService(categoryRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, logger)
	assessmentService := service.NewAssessmentService(assessmentRepo, dispatcher)
	landingService := service.NewLandingService(landingRepo)
	reportService := service.NewReportService(reportRepo)

	worker.StartNotificationWorker(dispatcher, notificationService)

	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Uploads:        handlers.NewUploadsHandler(files),
		Assessments:    handlers.NewAssessmentsHandler(assessmentService),
		Landing:        handlers.NewLandingHandler(landingService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
