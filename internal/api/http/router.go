package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/product-catalog/internal/api/http/handlers"
	"github.com/spec-kit/product-catalog/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Products    *handlers.ProductsHandler
	Departments *handlers.DepartmentsHandler
	Docs        *handlers.DocsHandler
	// StaticDir is served on / after every API route; empty disables it.
	StaticDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Health)
	app.Get("/health/live", cfg.Health.Live)

	api := app.Group("/api")
	api.Get("/", cfg.Docs.Index)
	api.Get("/metrics", cfg.Docs.Metrics)

	// Literal product routes must precede /products/:id.
	api.Get("/products/search", cfg.Products.Search)
	api.Get("/products/department/:dept", cfg.Products.ListByDepartment)
	api.Get("/products", cfg.Products.List)
	api.Post("/products", cfg.Products.Create)
	api.Get("/products/:id", cfg.Products.Get)
	api.Get("/departments", cfg.Departments.List)
	api.All("/*", cfg.Docs.NotFound)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir, fiber.Static{Index: "index.html"})
	}
}

// AppDependencies bundles everything NewApp needs.
type AppDependencies struct {
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Middleware MiddlewareConfig
	Routes     RouteConfig
}

// NewApp builds a Fiber app with the catalog's middleware and routes.
func NewApp(appName string, deps AppDependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, deps.Logger, deps.Metrics, deps.Middleware)
	RegisterRoutes(app, deps.Routes)
	return app
}
