package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/product-catalog/internal/api/http/handlers"
	"github.com/spec-kit/product-catalog/internal/domain"
	"github.com/spec-kit/product-catalog/internal/events"
	"github.com/spec-kit/product-catalog/internal/observability"
	"github.com/spec-kit/product-catalog/internal/repository/repositorytest"
	"github.com/spec-kit/product-catalog/internal/service"
)

type testServer struct {
	app   *fiber.App
	store *repositorytest.Store
}

func newTestServer(t *testing.T, exposeDetail bool) *testServer {
	t.Helper()

	store := repositorytest.NewStore()
	electronics := store.AddDepartment("Electronics")
	clothing := store.AddDepartment("Clothing")
	store.AddDepartment("Home Goods")
	store.AddProduct(domain.Product{Name: "Laptop", RetailPrice: decimal.NewFromInt(1200), Category: "Computers", DepartmentID: &electronics})
	store.AddProduct(domain.Product{Name: "T-Shirt", RetailPrice: decimal.NewFromInt(25), Category: "Tops", DepartmentID: &clothing})

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>catalog</h1>"), 0o644))

	metrics := observability.NewMetrics()
	catalog := service.NewCatalogService(service.CatalogDependencies{
		ProductRepo:    store.Products(),
		DepartmentRepo: store.Departments(),
		Dispatcher:     events.NewInMemoryDispatcher(),
	})

	app := NewApp("catalog-test", AppDependencies{
		Logger:     zap.NewNop(),
		Metrics:    metrics,
		Middleware: MiddlewareConfig{ExposeErrorDetail: exposeDetail},
		Routes: RouteConfig{
			Health:      handlers.NewHealthHandler("catalog-test", "test", catalog, nil, exposeDetail),
			Products:    handlers.NewProductsHandler(catalog),
			Departments: handlers.NewDepartmentsHandler(catalog),
			Docs:        handlers.NewDocsHandler("catalog-test", "test", metrics),
			StaticDir:   staticDir,
		},
	})
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	return resp.StatusCode, decoded
}

func TestListProductsPagination(t *testing.T) {
	srv := newTestServer(t, true)

	status, body := srv.do(t, fiber.MethodGet, "/api/products?page=1&limit=1", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])

	data := body["data"].([]any)
	require.Len(t, data, 1)
	first := data[0].(map[string]any)
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "Laptop", first["name"])
	assert.Equal(t, float64(1200), first["retail_price"])
	assert.Equal(t, "Electronics", first["department"])

	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(1), pagination["page"])
	assert.Equal(t, float64(1), pagination["limit"])
	assert.Equal(t, float64(2), pagination["total"])
	assert.Equal(t, float64(2), pagination["totalPages"])
}

func TestListProductsDefaultsForBadQuery(t *testing.T) {
	srv := newTestServer(t, true)

	status, body := srv.do(t, fiber.MethodGet, "/api/products?page=abc&limit=-3", "")
	require.Equal(t, fiber.StatusOK, status)
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(1), pagination["page"])
	assert.Equal(t, float64(20), pagination["limit"])
	assert.Len(t, body["data"], 2)
}

func TestListProductsPageFarPastTheEnd(t *testing.T) {
	srv := newTestServer(t, true)

	status, body := srv.do(t, fiber.MethodGet, "/api/products?page=4611686018427387904&limit=4", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, float64(2), body["pagination"].(map[string]any)["total"])
}

func TestGetProductErrors(t *testing.T) {
	srv := newTestServer(t, true)

	status, body := srv.do(t, fiber.MethodGet, "/api/products/abc", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "INVALID_PRODUCT_ID", body["error"])

	status, body = srv.do(t, fiber.MethodGet, "/api/products/999", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "PRODUCT_NOT_FOUND", body["error"])
	assert.Equal(t, "Product with ID 999 does not exist", body["message"])
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, true)

	status, body := srv.do(t, fiber.MethodGet, "/api/products/search", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "MISSING_SEARCH_QUERY", body["error"])

	status, body = srv.do(t, fiber.MethodGet, "/api/products/search?q=%20%20", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "MISSING_SEARCH_QUERY", body["error"])

	status, body = srv.do(t, fiber.MethodGet, "/api/products/search?q=zzzz", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, "zzzz", body["searchTerm"])

	status, body = srv.do(t, fiber.MethodGet, "/api/products/search?q=%20shirt%20", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "shirt", body["searchTerm"])
	assert.Equal(t, `Found 1 products matching "shirt"`, body["message"])
}

func TestDepartments(t *testing.T) {
	srv := newTestServer(t, true)

	status, body := srv.do(t, fiber.MethodGet, "/api/departments", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(3), body["count"])

	var names []string
	for _, d := range body["data"].([]any) {
		names = append(names, d.(map[string]any)["name"].(string))
	}
	assert.Equal(t, []string{"Clothing", "Electronics", "Home Goods"}, names)
}

func TestProductsByDepartment(t *testing.T) {
	srv := newTestServer(t, true)

	status, body := srv.do(t, fiber.MethodGet, "/api/products/department/Electronics", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Electronics", body["department"])
	assert.Len(t, body["data"], 1)

	status, body = srv.do(t, fiber.MethodGet, "/api/products/department/Home%20Goods", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Home Goods", body["department"])
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, float64(0), body["pagination"].(map[string]any)["total"])
}

func TestCreateThenGet(t *testing.T) {
	srv := newTestServer(t, true)

	status, body := srv.do(t, fiber.MethodPost, "/api/products",
		`{"name":"Desk Lamp","price":19.99,"department_id":1,"description":"LED"}`)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	id := body["data"].(map[string]any)["id"].(float64)
	assert.Equal(t, float64(3), id)

	status, body = srv.do(t, fiber.MethodGet, "/api/products/3", "")
	require.Equal(t, fiber.StatusOK, status)
	product := body["data"].(map[string]any)
	assert.Equal(t, "Desk Lamp", product["name"])
	assert.Equal(t, 19.99, product["retail_price"])
	assert.Equal(t, "Electronics", product["department"])
}

func TestCreateValidation(t *testing.T) {
	srv := newTestServer(t, true)

	cases := []struct {
		name string
		body string
		code string
	}{
		{name: "malformed json", body: `{"name":`, code: "INVALID_PAYLOAD"},
		{name: "missing price", body: `{"name":"Lamp"}`, code: "VALIDATION_FAILED"},
		{name: "blank name", body: `{"name":"  ","price":3}`, code: "VALIDATION_FAILED"},
		{name: "unknown department", body: `{"name":"Lamp","price":3,"department_id":99}`, code: "INVALID_DEPARTMENT"},
		{name: "sub-cent price", body: `{"name":"Pen","price":12.345}`, code: "VALIDATION_FAILED"},
		{name: "price too large", body: `{"name":"Yacht","price":1e15}`, code: "VALIDATION_FAILED"},
		{name: "sub-cent cost", body: `{"name":"Pen","price":2,"cost":0.001}`, code: "VALIDATION_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := srv.do(t, fiber.MethodPost, "/api/products", tc.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.code, body["error"])
		})
	}
}

func TestStoreFailureRendersInternalError(t *testing.T) {
	srv := newTestServer(t, true)
	srv.store.Err = errors.New("connection reset")

	status, body := srv.do(t, fiber.MethodGet, "/api/products", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body["error"])
	assert.Contains(t, body["detail"], "connection reset")

	hidden := newTestServer(t, false)
	hidden.store.Err = errors.New("connection reset")
	status, body = hidden.do(t, fiber.MethodGet, "/api/products", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.NotContains(t, body, "detail")
}

func TestUnknownAPIEndpoint(t *testing.T) {
	srv := newTestServer(t, true)

	status, body := srv.do(t, fiber.MethodGet, "/api/widgets", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "ENDPOINT_NOT_FOUND", body["error"])
	assert.Contains(t, body["available_endpoints"], "GET /api/products")
}

func TestDocsAndMetrics(t *testing.T) {
	srv := newTestServer(t, true)

	status, body := srv.do(t, fiber.MethodGet, "/api", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body["endpoints"], "GET /api/products/search?q=term")
	assert.NotEmpty(t, body["example_urls"])

	srv.do(t, fiber.MethodGet, "/api/products/999", "")
	status, body = srv.do(t, fiber.MethodGet, "/api/metrics", "")
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.GreaterOrEqual(t, data["total_requests"], float64(2))
	assert.NotEmpty(t, data["errors"])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, true)

	status, body := srv.do(t, fiber.MethodGet, "/health", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.Equal(t, float64(2), body["products_count"])
	assert.Equal(t, "disabled", body["cache"])

	status, body = srv.do(t, fiber.MethodGet, "/health/live", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	srv.store.Err = errors.New("db down")
	status, body = srv.do(t, fiber.MethodGet, "/health", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "DATABASE_UNAVAILABLE", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestStaticIndex(t *testing.T) {
	srv := newTestServer(t, true)

	resp, err := srv.app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "catalog")
}

func TestPanicRecovered(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, MiddlewareConfig{})
	app.Get("/boom", func(*fiber.Ctx) error { panic("kaboom") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INTERNAL_ERROR", body["error"])
	assert.NotContains(t, body, "detail")
}
