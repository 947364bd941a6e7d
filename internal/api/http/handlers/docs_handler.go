package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/product-catalog/internal/observability"
	apperrors "github.com/spec-kit/product-catalog/pkg/util/errorutil"
)

// Endpoint documents one public route.
type Endpoint struct {
	Method      string
	Path        string
	Description string
	Example     string
}

// Endpoints lists the public catalog routes in documentation order.
var Endpoints = []Endpoint{
	{Method: "GET", Path: "/api/products", Description: "List all products (with pagination)", Example: "/api/products"},
	{Method: "GET", Path: "/api/products/:id", Description: "Get specific product by ID", Example: "/api/products/1"},
	{Method: "GET", Path: "/api/products/search?q=term", Description: "Search products", Example: "/api/products/search?q=laptop"},
	{Method: "GET", Path: "/api/departments", Description: "List all departments", Example: "/api/departments"},
	{Method: "GET", Path: "/api/products/department/:dept", Description: "Filter products by department", Example: "/api/products/department/Electronics"},
	{Method: "POST", Path: "/api/products", Description: "Create a product"},
}

// DocsHandler serves API self-description and the API 404 fallback.
type DocsHandler struct {
	name    string
	version string
	metrics *observability.Metrics
}

// NewDocsHandler constructs handler.
func NewDocsHandler(name, version string, metrics *observability.Metrics) *DocsHandler {
	return &DocsHandler{name: name, version: version, metrics: metrics}
}

// Index GET /api.
func (h *DocsHandler) Index(c *fiber.Ctx) error {
	endpoints := make(fiber.Map, len(Endpoints))
	examples := make([]string, 0, len(Endpoints))
	for _, e := range Endpoints {
		endpoints[e.Method+" "+e.Path] = e.Description
		if e.Example != "" {
			examples = append(examples, c.BaseURL()+e.Example)
		}
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"message":      fmt.Sprintf("%s REST API", h.name),
		"version":      h.version,
		"endpoints":    endpoints,
		"example_urls": examples,
	})
}

// Metrics GET /api/metrics.
func (h *DocsHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.metrics.Snapshot(),
		"message": "Request metrics",
	})
}

// NotFound answers any unmatched /api route.
func (h *DocsHandler) NotFound(c *fiber.Ctx) error {
	available := make([]string, 0, len(Endpoints))
	for _, e := range Endpoints {
		available = append(available, e.Method+" "+e.Path)
	}
	h.metrics.RecordError(c.Route().Path, c.Method(), apperrors.CodeEndpointNotFound)
	return c.Status(http.StatusNotFound).JSON(fiber.Map{
		"success":             false,
		"error":               apperrors.CodeEndpointNotFound,
		"message":             fmt.Sprintf("The endpoint %s does not exist", c.OriginalURL()),
		"available_endpoints": available,
	})
}
