package repository

import (
	"context"
	"errors"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/product-catalog/internal/domain"
	"github.com/spec-kit/product-catalog/internal/persistence"
)

// newTestPool connects to POSTGRES_TEST_DSN inside a throwaway schema holding
// freshly bootstrapped catalog tables.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := "catalog_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		_ = admin.Close(context.Background())
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.ApplySchema(ctx, pool, zap.NewNop()))
	return pool
}

func insertDepartment(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO departments (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestPostgresProductRepository(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	products := NewProductRepository(pool)
	departments := NewDepartmentRepository(pool)

	electronics := insertDepartment(t, pool, "Electronics")
	clothing := insertDepartment(t, pool, "Clothing")

	laptopID, err := products.Create(ctx, &domain.NewProduct{
		Name:         "Laptop",
		RetailPrice:  decimal.RequireFromString("1199.99"),
		Cost:         decimal.RequireFromString("850.50"),
		DepartmentID: &electronics,
		Brand:        "Acme",
		Category:     "Computers",
	})
	require.NoError(t, err)
	_, err = products.Create(ctx, &domain.NewProduct{
		Name:         "Sale Tee 50% off",
		RetailPrice:  decimal.RequireFromString("12.5"),
		DepartmentID: &clothing,
	})
	require.NoError(t, err)
	_, err = products.Create(ctx, &domain.NewProduct{Name: "Tee 500", RetailPrice: decimal.NewFromInt(9), DepartmentID: &clothing})
	require.NoError(t, err)
	looseID, err := products.Create(ctx, &domain.NewProduct{Name: "Loose item", RetailPrice: decimal.NewFromInt(3)})
	require.NoError(t, err)

	t.Run("get by id scans decimals and department", func(t *testing.T) {
		p, err := products.GetByID(ctx, laptopID)
		require.NoError(t, err)
		assert.Equal(t, "Laptop", p.Name)
		assert.True(t, decimal.RequireFromString("1199.99").Equal(p.RetailPrice), p.RetailPrice.String())
		assert.True(t, decimal.RequireFromString("850.5").Equal(p.Cost), p.Cost.String())
		require.NotNil(t, p.DepartmentName)
		assert.Equal(t, "Electronics", *p.DepartmentName)
	})

	t.Run("missing id is ErrNoRows", func(t *testing.T) {
		_, err := products.GetByID(ctx, 999999)
		assert.True(t, errors.Is(err, pgx.ErrNoRows))
	})

	t.Run("outer join keeps products without a department", func(t *testing.T) {
		p, err := products.GetByID(ctx, looseID)
		require.NoError(t, err)
		assert.Nil(t, p.DepartmentID)
		assert.Nil(t, p.DepartmentName)

		total, err := products.Count(ctx, ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)

		all, err := products.List(ctx, ProductQuery{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, all, 4)
		assert.Equal(t, laptopID, all[0].ID)
	})

	t.Run("percent in the term matches literally", func(t *testing.T) {
		term := "50%"
		filter := ProductFilter{SearchTerm: &term}

		hits, err := products.List(ctx, ProductQuery{Filter: filter, Order: OrderByName, Limit: 50})
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "Sale Tee 50% off", hits[0].Name)

		count, err := products.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(len(hits)), count)
	})

	t.Run("search covers department name", func(t *testing.T) {
		term := "ELECTRON"
		hits, err := products.List(ctx, ProductQuery{Filter: ProductFilter{SearchTerm: &term}, Order: OrderByName, Limit: 50})
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, laptopID, hits[0].ID)
	})

	t.Run("department filter pages and counts agree", func(t *testing.T) {
		dept := "clothing"
		filter := ProductFilter{DepartmentName: &dept}

		count, err := products.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		page, err := products.List(ctx, ProductQuery{Filter: filter, Order: OrderByName, Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "Tee 500", page[0].Name)

		empty, err := products.List(ctx, ProductQuery{Filter: filter, Limit: 1, Offset: math.MaxInt})
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("departments sorted and checked", func(t *testing.T) {
		all, err := departments.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Clothing", all[0].Name)
		assert.Equal(t, "Electronics", all[1].Name)

		ok, err := departments.Exists(ctx, electronics)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = departments.Exists(ctx, electronics+100)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
