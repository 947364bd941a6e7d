package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/product-catalog/internal/domain"
)

// ProductOrder selects one of the whitelisted orderings.
type ProductOrder int

const (
	// OrderByID keeps pagination deterministic across pages.
	OrderByID ProductOrder = iota
	// OrderByName sorts alphabetically, ties broken by id.
	OrderByName
)

func (o ProductOrder) clause() string {
	if o == OrderByName {
		return "p.name ASC, p.id ASC"
	}
	return "p.id ASC"
}

// ProductFilter narrows product queries. Nil fields are ignored.
type ProductFilter struct {
	// DepartmentName matches the department name case-insensitively.
	DepartmentName *string
	// SearchTerm is matched as a substring of name, brand, category or department.
	SearchTerm *string
}

// ProductQuery is a filtered, ordered, bounded product read.
type ProductQuery struct {
	Filter ProductFilter
	Order  ProductOrder
	Limit  int
	Offset int
}

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	List(ctx context.Context, query ProductQuery) ([]domain.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.NewProduct) (int64, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

// Outer join so products with a null or dangling department still appear.
const productSelect = `
        SELECT p.id, p.cost, p.category, p.name, p.brand, p.retail_price, p.department_id, d.name,
               p.sku, p.distribution_center_id, p.image_url, p.description
        FROM products p
        LEFT JOIN departments d ON d.id = p.department_id`

func (r *productRepository) List(ctx context.Context, query ProductQuery) ([]domain.Product, error) {
	where, args := buildProductWhere(query.Filter)

	limit := query.Limit
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	sql := fmt.Sprintf(`%s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productSelect, where, query.Order.clause(), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) Count(ctx context.Context, filter ProductFilter) (int64, error) {
	where, args := buildProductWhere(filter)
	sql := `SELECT COUNT(*) FROM products p LEFT JOIN departments d ON d.id = p.department_id WHERE ` + where

	var total int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.NewProduct) (int64, error) {
	const query = `
        INSERT INTO products (name, retail_price, cost, department_id, description, category, brand,
                              sku, distribution_center_id, image_url)
        VALUES ($1, $2::numeric, $3::numeric, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		product.Name,
		product.RetailPrice.String(),
		product.Cost.String(),
		product.DepartmentID,
		product.Description,
		product.Category,
		product.Brand,
		product.SKU,
		product.DistributionCenterID,
		product.ImageURL,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// buildProductWhere renders the shared predicate for paged and count queries.
// User input only ever reaches the query as bound arguments.
func buildProductWhere(filter ProductFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.DepartmentName != nil {
		args = append(args, strings.TrimSpace(*filter.DepartmentName))
		clauses = append(clauses, fmt.Sprintf("LOWER(d.name) = LOWER($%d)", len(args)))
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		args = append(args, ContainsPattern(*filter.SearchTerm))
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			`(p.name ILIKE %[1]s ESCAPE '\' OR p.brand ILIKE %[1]s ESCAPE '\' OR p.category ILIKE %[1]s ESCAPE '\' OR d.name ILIKE %[1]s ESCAPE '\')`, p))
	}

	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns a search term into an ILIKE pattern matching it as a
// literal substring. The term is used as given.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.Cost,
		&p.Category,
		&p.Name,
		&p.Brand,
		&p.RetailPrice,
		&p.DepartmentID,
		&p.DepartmentName,
		&p.SKU,
		&p.DistributionCenterID,
		&p.ImageURL,
		&p.Description,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}
