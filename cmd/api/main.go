package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/product-catalog/internal/api/http"
	"github.com/spec-kit/product-catalog/internal/api/http/handlers"
	"github.com/spec-kit/product-catalog/internal/cache"
	"github.com/spec-kit/product-catalog/internal/config"
	"github.com/spec-kit/product-catalog/internal/events"
	"github.com/spec-kit/product-catalog/internal/observability"
	"github.com/spec-kit/product-catalog/internal/persistence"
	"github.com/spec-kit/product-catalog/internal/repository"
	"github.com/spec-kit/product-catalog/internal/service"
	"github.com/spec-kit/product-catalog/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	baseLogger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	logger := observability.WithService(baseLogger, cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("service stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run starts the service and blocks until ctx is done. Every resource opened
// here is released before it returns, on failure as well as on shutdown.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if cfg.Postgres.ApplySchema {
		if err := persistence.ApplySchema(ctx, pool, logger); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if cfg.Postgres.SeedSampleData {
		if err := persistence.SeedSampleData(ctx, pool, logger); err != nil {
			return fmt.Errorf("seed sample data: %w", err)
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	catalogCache := cache.NewCatalogCache(redis.Client, cfg.Redis.CacheTTL(), logger)
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	catalog := service.NewCatalogService(service.CatalogDependencies{
		ProductRepo:    repository.NewProductRepository(pool),
		DepartmentRepo: repository.NewDepartmentRepository(pool),
		Cache:          catalogCache,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	metrics := observability.NewMetrics()
	exposeDetail := !cfg.App.IsProduction()

	app := httptransport.NewApp(cfg.App.Name, httptransport.AppDependencies{
		Logger:  logger,
		Metrics: metrics,
		Middleware: httptransport.MiddlewareConfig{
			Timeout:           cfg.App.RequestTimeout(),
			CORSOrigins:       cfg.HTTP.CORSOrigins,
			ExposeErrorDetail: exposeDetail,
		},
		Routes: httptransport.RouteConfig{
			Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, catalog, redis, exposeDetail),
			Products:    handlers.NewProductsHandler(catalog),
			Departments: handlers.NewDepartmentsHandler(catalog),
			Docs:        handlers.NewDocsHandler(cfg.App.Name, cfg.App.Version, metrics),
			StaticDir:   cfg.HTTP.StaticDir,
		},
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("fiber listen: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
	return nil
}
