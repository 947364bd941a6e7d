package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/product-catalog/internal/api/dto"
	"github.com/spec-kit/product-catalog/internal/domain"
	"github.com/spec-kit/product-catalog/internal/service"
	apperrors "github.com/spec-kit/product-catalog/pkg/util/errorutil"
)

// ProductsHandler serves the product endpoints.
type ProductsHandler struct {
	service *service.CatalogService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalog *service.CatalogService) *ProductsHandler {
	return &ProductsHandler{service: catalog}
}

// List GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	page := domain.ParsePageRequest(c.Query("page"), c.Query("limit"))
	result, err := h.service.ListProducts(c.UserContext(), page)
	if err != nil {
		return err
	}
	return c.JSON(dto.ProductListResponse{
		Success:    true,
		Data:       result.Items,
		Message:    fmt.Sprintf("Retrieved %d products", len(result.Items)),
		Pagination: result.Pagination,
	})
}

// Get GET /api/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(product, fmt.Sprintf("Product %d retrieved successfully", product.ID)))
}

// Search GET /api/products/search?q=term.
func (h *ProductsHandler) Search(c *fiber.Ctx) error {
	result, err := h.service.SearchProducts(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ProductSearchResponse{
		Success:    true,
		Data:       result.Items,
		Message:    fmt.Sprintf("Found %d products matching %q", len(result.Items), result.Term),
		SearchTerm: result.Term,
		Count:      len(result.Items),
	})
}

// ListByDepartment GET /api/products/department/:dept.
func (h *ProductsHandler) ListByDepartment(c *fiber.Ctx) error {
	department := c.Params("dept")
	if unescaped, err := url.PathUnescape(department); err == nil {
		department = unescaped
	}

	page := domain.ParsePageRequest(c.Query("page"), c.Query("limit"))
	result, err := h.service.ListProductsByDepartment(c.UserContext(), department, page)
	if err != nil {
		return err
	}
	return c.JSON(dto.ProductListResponse{
		Success:    true,
		Data:       result.Items,
		Message:    fmt.Sprintf("Retrieved %d products from %s department", len(result.Items), department),
		Department: department,
		Pagination: result.Pagination,
	})
}

// Create POST /api/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest(apperrors.CodeInvalidPayload, "request body must be a JSON object")
	}

	id, err := h.service.CreateProduct(c.UserContext(), service.CreateProductInput{
		Name:                 req.Name,
		Price:                req.Price,
		DepartmentID:         req.DepartmentID,
		Description:          req.Description,
		Cost:                 req.Cost,
		Category:             req.Category,
		Brand:                req.Brand,
		SKU:                  req.SKU,
		DistributionCenterID: req.DistributionCenterID,
		ImageURL:             req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK(dto.CreatedProduct{ID: id}, "Product created successfully"))
}
