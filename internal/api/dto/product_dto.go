package dto

import (
	"github.com/shopspring/decimal"

	"github.com/spec-kit/product-catalog/internal/domain"
)

// CreateProductRequest payload.
type CreateProductRequest struct {
	Name                 string           `json:"name"`
	Price                *decimal.Decimal `json:"price"`
	DepartmentID         *int64           `json:"department_id"`
	Description          string           `json:"description"`
	Cost                 *decimal.Decimal `json:"cost"`
	Category             string           `json:"category"`
	Brand                string           `json:"brand"`
	SKU                  string           `json:"sku"`
	DistributionCenterID int64            `json:"distribution_center_id"`
	ImageURL             string           `json:"image_url"`
}

// CreatedProduct is the data of a successful create.
type CreatedProduct struct {
	ID int64 `json:"id"`
}

// ProductListResponse is a paged product listing.
type ProductListResponse struct {
	Success    bool              `json:"success"`
	Data       []domain.Product  `json:"data"`
	Message    string            `json:"message"`
	Department string            `json:"department,omitempty"`
	Pagination domain.Pagination `json:"pagination"`
}

// ProductSearchResponse lists search hits.
type ProductSearchResponse struct {
	Success    bool             `json:"success"`
	Data       []domain.Product `json:"data"`
	Message    string           `json:"message"`
	SearchTerm string           `json:"searchTerm"`
	Count      int              `json:"count"`
}

// DepartmentListResponse lists departments.
type DepartmentListResponse struct {
	Success bool                `json:"success"`
	Data    []domain.Department `json:"data"`
	Message string              `json:"message"`
	Count   int                 `json:"count"`
}
