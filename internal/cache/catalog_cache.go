package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/product-catalog/internal/domain"
)

const departmentsKey = "catalog:departments"

// CatalogCache stores read-mostly catalog data. Misses and backend failures
// both report ok=false; callers then go to the database.
type CatalogCache interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, bool)
	SetProduct(ctx context.Context, product *domain.Product)
	GetDepartments(ctx context.Context) ([]domain.Department, bool)
	SetDepartments(ctx context.Context, departments []domain.Department)
}

// NewCatalogCache returns a Redis-backed cache, or a no-op cache when client is nil.
func NewCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) CatalogCache {
	if client == nil {
		return noopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisCache{client: client, ttl: ttl, logger: logger}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func productKey(id int64) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

func (c *redisCache) GetProduct(ctx context.Context, id int64) (*domain.Product, bool) {
	var product domain.Product
	if !c.get(ctx, productKey(id), &product) {
		return nil, false
	}
	return &product, true
}

func (c *redisCache) SetProduct(ctx context.Context, product *domain.Product) {
	if product == nil {
		return
	}
	c.set(ctx, productKey(product.ID), product)
}

func (c *redisCache) GetDepartments(ctx context.Context) ([]domain.Department, bool) {
	var departments []domain.Department
	if !c.get(ctx, departmentsKey, &departments) {
		return nil, false
	}
	return departments, true
}

func (c *redisCache) SetDepartments(ctx context.Context, departments []domain.Department) {
	c.set(ctx, departmentsKey, departments)
}

func (c *redisCache) get(ctx context.Context, key string, dest any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *redisCache) set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

type noopCache struct{}

func (noopCache) GetProduct(context.Context, int64) (*domain.Product, bool)  { return nil, false }
func (noopCache) SetProduct(context.Context, *domain.Product)                {}
func (noopCache) GetDepartments(context.Context) ([]domain.Department, bool) { return nil, false }
func (noopCache) SetDepartments(context.Context, []domain.Department)        {}
