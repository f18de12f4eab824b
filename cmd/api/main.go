package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/agrimech/crm-service/internal/api/http"
	"github.com/agrimech/crm-service/internal/api/http/handlers"
	"github.com/agrimech/crm-service/internal/auth"
	"github.com/agrimech/crm-service/internal/config"
	"github.com/agrimech/crm-service/internal/events"
	"github.com/agrimech/crm-service/internal/observability"
	"github.com/agrimech/crm-service/internal/persistence"
	"github.com/agrimech/crm-service/internal/repository"
	"github.com/agrimech/crm-service/internal/service"
	"github.com/agrimech/crm-service/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	regionRepo := repository.NewRegionRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	crmStore := repository.NewCRMStore(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		Tokens:   tokens,
	})
	userService := service.NewUserService(*cfg, service.UserDependencies{UserRepo: userRepo})
	ticketService := service.NewTicketService(*cfg, service.TicketDependencies{
		TicketRepo:  ticketRepo,
		HistoryRepo: historyRepo,
		UserRepo:    userRepo,
		Dispatcher:  dispatcher,
	})
	targetService := service.NewTargetService(*cfg, service.TargetDependencies{
		RegionRepo: regionRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	leadService := service.NewLeadService(*cfg, service.LeadDependencies{
		Store:       crmStore,
		ProductRepo: productRepo,
		Dispatcher:  dispatcher,
	})
	territoryService := service.NewTerritoryService(service.TerritoryDependencies{RegionRepo: regionRepo})
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		ProductRepo:  productRepo,
		CustomerRepo: customerRepo,
	})
	dashboardService := service.NewDashboardService(*cfg, logger, service.DashboardDependencies{
		TicketRepo:   ticketRepo,
		RegionRepo:   regionRepo,
		CustomerRepo: customerRepo,
		ProductRepo:  productRepo,
		Store:        crmStore,
		Cache:        redis.Client,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.Tokens(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Users:          handlers.NewUsersHandler(authService, userService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Targets:        handlers.NewTargetsHandler(targetService),
		Territory:      handlers.NewTerritoryHandler(territoryService),
		Leads:          handlers.NewLeadsHandler(leadService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
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
