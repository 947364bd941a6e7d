package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/product-catalog/pkg/util/errorutil"
)

// ProductCounter reports the catalog size.
type ProductCounter interface {
	CountProducts(ctx context.Context) (int64, error)
}

// CacheProbe reports cache availability.
type CacheProbe interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and health probes.
type HealthHandler struct {
	serviceName string
	version     string
	products    ProductCounter
	cache       CacheProbe
	exposeError bool
}

// NewHealthHandler returns a new handler instance. cache may be nil.
func NewHealthHandler(serviceName, version string, products ProductCounter, cache CacheProbe, exposeError bool) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		products:    products,
		cache:       cache,
		exposeError: exposeError,
	}
}

// Live reports service liveness without touching the store.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Health reports store connectivity and catalog size. The cache is reported
// but never makes the service unhealthy.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	timestamp := time.Now().UTC().Format(time.RFC3339)
	count, err := h.products.CountProducts(ctx)
	if err != nil {
		body := fiber.Map{
			"success":   false,
			"error":     apperrors.CodeDatabaseUnavailable,
			"message":   "database is not reachable",
			"status":    "unhealthy",
			"database":  "error",
			"timestamp": timestamp,
		}
		if h.exposeError {
			body["detail"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}

	return c.JSON(fiber.Map{
		"status":         "healthy",
		"database":       "connected",
		"products_count": count,
		"cache":          h.cacheStatus(ctx),
		"timestamp":      timestamp,
	})
}

func (h *HealthHandler) cacheStatus(ctx context.Context) string {
	if h.cache == nil || !h.cache.Enabled() {
		return "disabled"
	}
	if err := h.cache.Ping(ctx); err != nil {
		return "unavailable"
	}
	return "connected"
}
