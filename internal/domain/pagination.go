package domain

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 500
)

// PageRequest is a validated page/limit pair.
type PageRequest struct {
	Page  int
	Limit int
}

// ParsePageRequest coerces raw query values into a PageRequest. Missing,
// non-numeric or non-positive values fall back to the defaults; limit is
// capped at MaxLimit.
func ParsePageRequest(rawPage, rawLimit string) PageRequest {
	req := PageRequest{
		Page:  parsePositive(rawPage, DefaultPage),
		Limit: parsePositive(rawLimit, DefaultLimit),
	}
	if req.Limit > MaxLimit {
		req.Limit = MaxLimit
	}
	return req
}

// Offset returns the number of rows to skip. It saturates at math.MaxInt, so a
// page far past the end reads as empty instead of wrapping around.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Pagination describes a page within a result set.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// NewPagination computes totalPages as ceil(total/limit).
func NewPagination(req PageRequest, total int64) Pagination {
	var pages int64
	if req.Limit > 0 && total > 0 {
		limit := int64(req.Limit)
		pages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: pages,
	}
}

// ProductPage is one page of products with its pagination metadata.
type ProductPage struct {
	Items      []Product
	Pagination Pagination
}

func parsePositive(val string, def int) int {
	val = strings.TrimSpace(val)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
