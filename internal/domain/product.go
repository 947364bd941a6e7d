package domain

import "github.com/shopspring/decimal"

func init() {
	// Decimals marshal as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog entry. DepartmentName is resolved through an outer join
// and stays nil when the department reference is missing or dangling.
type Product struct {
	ID                   int64           `json:"id"`
	Cost                 decimal.Decimal `json:"cost"`
	Category             string          `json:"category"`
	Name                 string          `json:"name"`
	Brand                string          `json:"brand"`
	RetailPrice          decimal.Decimal `json:"retail_price"`
	DepartmentID         *int64          `json:"department_id"`
	DepartmentName       *string         `json:"department"`
	SKU                  string          `json:"sku"`
	DistributionCenterID int64           `json:"distribution_center_id"`
	ImageURL             string          `json:"image_url"`
	Description          string          `json:"description"`
}

// NewProduct carries the writable fields of a product.
type NewProduct struct {
	Name                 string
	RetailPrice          decimal.Decimal
	Cost                 decimal.Decimal
	DepartmentID         *int64
	Description          string
	Category             string
	Brand                string
	SKU                  string
	DistributionCenterID int64
	ImageURL             string
}
