package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type sampleProduct struct {
	name        string
	price       string
	department  string
	category    string
	brand       string
	description string
}

var sampleDepartments = []string{"Electronics", "Clothing", "Home Appliances", "Books", "Sports"}

var sampleProducts = []sampleProduct{
	{"Laptop", "1200", "Electronics", "Computers", "Acme", "High-performance laptop for work and gaming"},
	{"Smartphone", "800", "Electronics", "Phones", "Acme", "Latest smartphone with advanced features"},
	{"T-Shirt", "25", "Clothing", "Tops", "Basics", "Comfortable cotton t-shirt"},
	{"Jeans", "60", "Clothing", "Bottoms", "Basics", "Stylish denim jeans"},
	{"Coffee Maker", "80", "Home Appliances", "Kitchen", "Brewster", "Automatic coffee maker"},
	{"Blender", "60", "Home Appliances", "Kitchen", "Brewster", "High-speed blender for smoothies"},
	{"Programming Book", "45", "Books", "Technology", "Press", "Learn programming fundamentals"},
	{"Basketball", "35", "Sports", "Balls", "Hoops", "Professional basketball"},
}

// SeedSampleData inserts the sample departments and, when the products table is
// empty, the sample products. Running it twice leaves the data unchanged.
func SeedSampleData(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		return nil
	}

	for _, name := range sampleDepartments {
		if _, err := pool.Exec(ctx,
			`INSERT INTO departments (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed department %s: %w", name, err)
		}
	}

	var existing int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&existing); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if existing > 0 {
		logger.Info("products already present; skipping product seed", zap.Int64("count", existing))
		return nil
	}

	const insert = `
        INSERT INTO products (name, retail_price, department_id, category, brand, description)
        SELECT $1, $2::numeric, d.id, $4, $5, $6 FROM departments d WHERE d.name = $3`
	for _, p := range sampleProducts {
		if _, err := pool.Exec(ctx, insert, p.name, p.price, p.department, p.category, p.brand, p.description); err != nil {
			return fmt.Errorf("seed product %s: %w", p.name, err)
		}
	}

	logger.Info("sample data seeded",
		zap.Int("departments", len(sampleDepartments)),
		zap.Int("products", len(sampleProducts)))
	return nil
}
