package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/product-catalog/internal/api/dto"
	"github.com/spec-kit/product-catalog/internal/service"
)

// DepartmentsHandler serves the department listing.
type DepartmentsHandler struct {
	service *service.CatalogService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(catalog *service.CatalogService) *DepartmentsHandler {
	return &DepartmentsHandler{service: catalog}
}

// List GET /api/departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	departments, err := h.service.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.DepartmentListResponse{
		Success: true,
		Data:    departments,
		Message: fmt.Sprintf("Retrieved %d departments", len(departments)),
		Count:   len(departments),
	})
}
