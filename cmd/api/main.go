package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fleetdesk/fleetdesk/internal/api/http"
	"github.com/fleetdesk/fleetdesk/internal/api/http/handlers"
	"github.com/fleetdesk/fleetdesk/internal/auth"
	"github.com/fleetdesk/fleetdesk/internal/cache"
	"github.com/fleetdesk/fleetdesk/internal/config"
	"github.com/fleetdesk/fleetdesk/internal/events"
	"github.com/fleetdesk/fleetdesk/internal/observability"
	"github.com/fleetdesk/fleetdesk/internal/persistence"
	"github.com/fleetdesk/fleetdesk/internal/repository"
	"github.com/fleetdesk/fleetdesk/internal/service"
	"github.com/fleetdesk/fleetdesk/internal/storage"
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

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	ownerRepo := repository.NewOwnerRepository(pool)
	vanRepo := repository.NewVanRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	viewCache := cache.NewPublicTicketCache(redis, cfg.Cache.PublicTicketTTL(), logger)
	viewCache.RegisterInvalidation(dispatcher)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		CommentRepo:    commentRepo,
		AttachmentRepo: attachmentRepo,
		OwnerRepo:      ownerRepo,
		VanRepo:        vanRepo,
		CategoryRepo:   categoryRepo,
		Dispatcher:     dispatcher,
	})
	ownerService := service.NewOwnerService(ownerRepo)
	vanService := service.NewVanService(vanRepo, ownerRepo)
	userService := service.NewUserAdminService(userRepo, cfg.Auth.BcryptCost)
	authService := service.NewAuthService(cfg.Auth, userRepo)

	uploader, err := storage.NewUploader(cfg.Upload)
	if err != nil {
		logger.Fatal("failed to init upload storage", zap.Error(err))
	}

	sessionMiddleware := auth.NewSessionMiddleware(authService.TokenManager(), userRepo, cfg.Auth.CookieName)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	uploadsDir := ""
	if cfg.Upload.Provider == "local" {
		uploadsDir = cfg.Upload.LocalDir
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:          handlers.NewAuthHandler(authService, cfg.Auth),
		PublicTickets: handlers.NewPublicTicketsHandler(ticketService, viewCache, uploader, cfg.Upload, cfg.App.PublicBaseURL),
		Tickets:       handlers.NewTicketsHandler(ticketService),
		Owners:        handlers.NewOwnersHandler(ownerService),
		Vans:          handlers.NewVansHandler(vanService),
		Categories:    handlers.NewCategoriesHandler(categoryRepo),
		AdminUsers:    handlers.NewAdminUsersHandler(userService),
		Session:       sessionMiddleware,
		UploadsDir:    uploadsDir,
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
