package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/product-catalog/internal/cache"
	"github.com/spec-kit/product-catalog/internal/domain"
	"github.com/spec-kit/product-catalog/internal/events"
	"github.com/spec-kit/product-catalog/internal/repository"
	apperrors "github.com/spec-kit/product-catalog/pkg/util/errorutil"
)

// SearchLimit bounds the number of search results.
const SearchLimit = 50

// Prices and costs are stored as NUMERIC(12,2).
const amountScale = 2

var amountUpperBound = decimal.New(1, 10)

// CatalogService coordinates catalog reads and product creation.
type CatalogService struct {
	products    repository.ProductRepository
	departments repository.DepartmentRepository
	cache       cache.CatalogCache
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// CatalogDependencies bundles collaborators for the catalog service.
type CatalogDependencies struct {
	ProductRepo    repository.ProductRepository
	DepartmentRepo repository.DepartmentRepository
	Cache          cache.CatalogCache
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// CreateProductInput describes product creation payload.
type CreateProductInput struct {
	Name                 string
	Price                *decimal.Decimal
	DepartmentID         *int64
	Description          string
	Cost                 *decimal.Decimal
	Category             string
	Brand                string
	SKU                  string
	DistributionCenterID int64
	ImageURL             string
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	svc := &CatalogService{
		products:    deps.ProductRepo,
		departments: deps.DepartmentRepo,
		cache:       deps.Cache,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
	if svc.cache == nil {
		svc.cache = cache.NewCatalogCache(nil, 0, nil)
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// ListProducts returns one page of products ordered by id.
func (s *CatalogService) ListProducts(ctx context.Context, page domain.PageRequest) (*domain.ProductPage, error) {
	return s.listPage(ctx, repository.ProductFilter{}, repository.OrderByID, page)
}

// ListProductsByDepartment returns one page of a department's products ordered
// by name. An unknown department yields an empty page.
func (s *CatalogService) ListProductsByDepartment(ctx context.Context, department string, page domain.PageRequest) (*domain.ProductPage, error) {
	filter := repository.ProductFilter{DepartmentName: &department}
	return s.listPage(ctx, filter, repository.OrderByName, page)
}

func (s *CatalogService) listPage(ctx context.Context, filter repository.ProductFilter, order repository.ProductOrder, page domain.PageRequest) (*domain.ProductPage, error) {
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	items, err := s.products.List(ctx, repository.ProductQuery{
		Filter: filter,
		Order:  order,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &domain.ProductPage{
		Items:      items,
		Pagination: domain.NewPagination(page, total),
	}, nil
}

// ParseProductID validates a raw path segment as a product id.
func ParseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, apperrors.NewBadRequest(apperrors.CodeInvalidProductID, "Product ID must be a number")
	}
	return id, nil
}

// GetProduct loads a product by its raw id, validating the id first.
func (s *CatalogService) GetProduct(ctx context.Context, rawID string) (*domain.Product, error) {
	id, err := ParseProductID(rawID)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.GetProduct(ctx, id); ok {
		return cached, nil
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewProductNotFound(id)
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}

	s.cache.SetProduct(ctx, product)
	return product, nil
}

// SearchResult holds the normalized term that was searched and its matches.
type SearchResult struct {
	Term  string
	Items []domain.Product
}

// SearchProducts returns up to SearchLimit products matching term, ordered by
// name. The term is trimmed before matching.
func (s *CatalogService) SearchProducts(ctx context.Context, term string) (*SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.NewBadRequest(apperrors.CodeMissingSearchQuery, "Please provide a search term using ?q=searchterm")
	}

	items, err := s.products.List(ctx, repository.ProductQuery{
		Filter: repository.ProductFilter{SearchTerm: &term},
		Order:  repository.OrderByName,
		Limit:  SearchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return &SearchResult{Term: term, Items: items}, nil
}

// ListDepartments returns all departments ordered by name.
func (s *CatalogService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	if cached, ok := s.cache.GetDepartments(ctx); ok {
		return cached, nil
	}

	departments, err := s.departments.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	s.cache.SetDepartments(ctx, departments)
	return departments, nil
}

// CreateProduct validates and stores a product, returning its new id.
func (s *CatalogService) CreateProduct(ctx context.Context, input CreateProductInput) (int64, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price == nil {
		return 0, apperrors.NewValidationError("name and price are required", nil)
	}
	if err := validateAmount("price", *input.Price); err != nil {
		return 0, err
	}
	if input.Cost != nil {
		if err := validateAmount("cost", *input.Cost); err != nil {
			return 0, err
		}
	}

	if input.DepartmentID != nil {
		exists, err := s.departments.Exists(ctx, *input.DepartmentID)
		if err != nil {
			return 0, fmt.Errorf("check department %d: %w", *input.DepartmentID, err)
		}
		if !exists {
			return 0, apperrors.NewDomainError(apperrors.CodeInvalidDepartment,
				fmt.Sprintf("Department with ID %d does not exist", *input.DepartmentID),
				http.StatusBadRequest, map[string]any{"department_id": *input.DepartmentID})
		}
	}

	product := &domain.NewProduct{
		Name:                 name,
		RetailPrice:          *input.Price,
		DepartmentID:         input.DepartmentID,
		Description:          strings.TrimSpace(input.Description),
		Category:             strings.TrimSpace(input.Category),
		Brand:                strings.TrimSpace(input.Brand),
		SKU:                  strings.TrimSpace(input.SKU),
		DistributionCenterID: input.DistributionCenterID,
		ImageURL:             strings.TrimSpace(input.ImageURL),
	}
	if input.Cost != nil {
		product.Cost = *input.Cost
	}

	id, err := s.products.Create(ctx, product)
	if err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventProductCreated,
		ProductID: id,
		Payload: events.ProductCreatedPayload{
			Name:         product.Name,
			RetailPrice:  product.RetailPrice,
			DepartmentID: product.DepartmentID,
		},
	})
	return id, nil
}

// CountProducts reports the number of stored products; used for health checks.
func (s *CatalogService) CountProducts(ctx context.Context) (int64, error) {
	return s.products.Count(ctx, repository.ProductFilter{})
}

// validateAmount rejects values the store would round or refuse.
func validateAmount(field string, amount decimal.Decimal) error {
	details := map[string]any{field: amount.String()}
	switch {
	case amount.IsNegative():
		return apperrors.NewValidationError(field+" must not be negative", details)
	case !amount.Equal(amount.Round(amountScale)):
		return apperrors.NewValidationError(
			fmt.Sprintf("%s must have at most %d decimal places", field, amountScale), details)
	case amount.GreaterThanOrEqual(amountUpperBound):
		return apperrors.NewValidationError(
			fmt.Sprintf("%s must be less than %s", field, amountUpperBound.String()), details)
	}
	return nil
}

func (s *CatalogService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("product_id", event.ProductID),
			zap.Error(err))
	}
}
