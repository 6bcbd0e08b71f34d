package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/snackparty/catering-api/internal/api/http"
	"github.com/snackparty/catering-api/internal/api/http/handlers"
	"github.com/snackparty/catering-api/internal/auth"
	"github.com/snackparty/catering-api/internal/config"
	"github.com/snackparty/catering-api/internal/events"
	"github.com/snackparty/catering-api/internal/mailer"
	"github.com/snackparty/catering-api/internal/observability"
	"github.com/snackparty/catering-api/internal/persistence"
	"github.com/snackparty/catering-api/internal/repository"
	"github.com/snackparty/catering-api/internal/service"
	"github.com/snackparty/catering-api/internal/storage"
	"github.com/snackparty/catering-api/internal/worker"
	"github.com/snackparty/catering-api/pkg/util/validation"
)

const (
	version             = "1.0.0"
	eventHandlerTimeout = 60 * time.Second
	shutdownTimeout     = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer rdb.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger, eventHandlerTimeout)

	sender, err := mailer.NewSender(cfg.Email, logger)
	if err != nil {
		logger.Fatal("failed to init mail sender", zap.Error(err))
	}

	var images storage.ImageStore
	if cfg.Storage.Enabled() {
		store, err := storage.NewMinIOImageStore(cfg.Storage)
		if err != nil {
			logger.Fatal("failed to init image storage", zap.Error(err))
		}
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn("image bucket not ready", zap.Error(err))
		}
		images = store
	} else {
		logger.Warn("STORAGE_ENDPOINT not provided; image uploads disabled")
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	quotationRepo := repository.NewQuotationRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	inventoryRepo := repository.NewInventoryRepository(pool)
	galleryRepo := repository.NewGalleryRepository(pool)

	guard := auth.NewLoginGuard(rdb.Handle(), cfg.Auth.MaxFailedLogins, time.Duration(cfg.Auth.LockoutMinutes)*time.Minute)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		Guard:    guard,
		Logger:   logger,
	})
	quotationService := service.NewQuotationService(service.QuotationDependencies{
		Store:      repository.NewTxRunner(pool),
		Quotations: quotationRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		Store:     repository.NewTxRunner(pool),
		Catalog:   catalogRepo,
		Inventory: inventoryRepo,
		Logger:    logger,
	})
	inventoryService := service.NewInventoryService(inventoryRepo, logger)
	galleryService := service.NewGalleryService(galleryRepo, logger)
	uploadService := service.NewUploadService(images, logger)
	contactService := service.NewContactService(sender, metrics, logger)

	worker.StartNotificationWorker(service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		Users:      userRepo,
		Sender:     sender,
		Metrics:    metrics,
		Logger:     logger,
	}))

	verbose := cfg.App.IsDevelopment()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitMB << 20,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics, verbose),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
		Verbose:     verbose,
	})

	var redisPinger handlers.Pinger
	if rdb != nil {
		redisPinger = rdb
	}
	validator := validation.New()

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, version, pg, redisPinger, metrics),
		Users:          handlers.NewUsersHandler(authService, validator),
		Quotations:     handlers.NewQuotationsHandler(quotationService),
		Catalog:        handlers.NewCatalogHandler(catalogService, validator),
		Inventory:      handlers.NewInventoryHandler(inventoryService),
		Gallery:        handlers.NewGalleryHandler(galleryService),
		Upload:         handlers.NewUploadHandler(uploadService),
		Contact:        handlers.NewContactHandler(contactService, validator),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
		AuthLimiter:    httptransport.NewIPRateLimiter(cfg.Auth.RateLimitPerMinute),
		ContactLimiter: httptransport.NewIPRateLimiter(cfg.Auth.RateLimitPerMinute),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	worker.Drain(dispatcher)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
