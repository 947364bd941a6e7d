// Package repositorytest provides in-memory repositories for tests.
package repositorytest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/product-catalog/internal/domain"
	"github.com/spec-kit/product-catalog/internal/repository"
)

// Store holds departments and products and serves both repository interfaces.
type Store struct {
	mu          sync.Mutex
	departments []domain.Department
	products    []domain.Product
	nextDept    int64
	nextProduct int64

	// Err, when set, is returned by every operation.
	Err error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{nextDept: 1, nextProduct: 1}
}

// AddDepartment inserts a department and returns its id.
func (s *Store) AddDepartment(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextDept
	s.nextDept++
	s.departments = append(s.departments, domain.Department{ID: id, Name: name})
	return id
}

// AddProduct inserts a product as-is, assigning an id when it has none.
func (s *Store) AddProduct(p domain.Product) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextProduct
	}
	if p.ID >= s.nextProduct {
		s.nextProduct = p.ID + 1
	}
	s.products = append(s.products, p)
	return p.ID
}

// Products returns the product repository view.
func (s *Store) Products() repository.ProductRepository { return productRepo{s} }

// Departments returns the department repository view.
func (s *Store) Departments() repository.DepartmentRepository { return departmentRepo{s} }

func (s *Store) resolve(p domain.Product) domain.Product {
	p.DepartmentName = nil
	if p.DepartmentID == nil {
		return p
	}
	for _, d := range s.departments {
		if d.ID == *p.DepartmentID {
			name := d.Name
			p.DepartmentName = &name
		}
	}
	return p
}

func (s *Store) matching(filter repository.ProductFilter) []domain.Product {
	result := []domain.Product{}
	for _, raw := range s.products {
		p := s.resolve(raw)
		dept := ""
		if p.DepartmentName != nil {
			dept = *p.DepartmentName
		}
		if filter.DepartmentName != nil &&
			(p.DepartmentName == nil || !strings.EqualFold(dept, strings.TrimSpace(*filter.DepartmentName))) {
			continue
		}
		if filter.SearchTerm != nil && *filter.SearchTerm != "" {
			term := strings.ToLower(*filter.SearchTerm)
			hit := false
			for _, field := range []string{p.Name, p.Brand, p.Category, dept} {
				if strings.Contains(strings.ToLower(field), term) {
					hit = true
				}
			}
			if !hit {
				continue
			}
		}
		result = append(result, p)
	}
	return result
}

type productRepo struct{ s *Store }

func (r productRepo) List(_ context.Context, query repository.ProductQuery) ([]domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	items := r.s.matching(query.Filter)
	sort.SliceStable(items, func(i, j int) bool {
		if query.Order == repository.OrderByName && items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})

	limit := query.Limit
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	if query.Offset >= len(items) {
		return []domain.Product{}, nil
	}
	end := query.Offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[query.Offset:end], nil
}

func (r productRepo) Count(_ context.Context, filter repository.ProductFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.s.matching(filter))), nil
}

func (r productRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, p := range r.s.products {
		if p.ID == id {
			resolved := r.s.resolve(p)
			return &resolved, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r productRepo) Create(_ context.Context, np *domain.NewProduct) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	id := r.s.nextProduct
	r.s.nextProduct++
	r.s.products = append(r.s.products, domain.Product{
		ID:                   id,
		Cost:                 np.Cost,
		Category:             np.Category,
		Name:                 np.Name,
		Brand:                np.Brand,
		RetailPrice:          np.RetailPrice,
		DepartmentID:         np.DepartmentID,
		SKU:                  np.SKU,
		DistributionCenterID: np.DistributionCenterID,
		ImageURL:             np.ImageURL,
		Description:          np.Description,
	})
	return id, nil
}

type departmentRepo struct{ s *Store }

func (r departmentRepo) ListAll(_ context.Context) ([]domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	result := append([]domain.Department{}, r.s.departments...)
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r departmentRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	for _, d := range r.s.departments {
		if d.ID == id {
			return true, nil
		}
	}
	return false, nil
}
