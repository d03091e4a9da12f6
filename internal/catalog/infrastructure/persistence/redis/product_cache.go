// Package redis 提供商品读取的缓存装饰器，写路径（库存变更）绕过缓存直达数据库
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/lootea/commerce/internal/catalog/domain"
	"github.com/lootea/commerce/pkg/cache"
	"github.com/lootea/commerce/pkg/logger"
)

const productCacheTTL = 30 * time.Second

// CachedProductRepository 带 Redis 缓存的商品仓储
// 仅缓存单品读取；批量可用性查询用于下单校验，必须读主库
type CachedProductRepository struct {
	inner domain.ProductRepository
	cache *cache.RedisCache
}

func NewCachedProductRepository(inner domain.ProductRepository, c *cache.RedisCache) *CachedProductRepository {
	return &CachedProductRepository{inner: inner, cache: c}
}

func productKey(id uint) string { return fmt.Sprintf("catalog:product:%d", id) }

func (r *CachedProductRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var cached domain.Product
	hit, err := r.cache.GetJSON(ctx, productKey(id), &cached)
	if err != nil {
		// 缓存故障时降级读库
		logger.Warn(ctx, "Product cache read failed, falling back to DB", "product_id", id, "error", err)
	} else if hit {
		return &cached, nil
	}

	p, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetJSON(ctx, productKey(id), p, productCacheTTL); err != nil {
		logger.Warn(ctx, "Product cache write failed", "product_id", id, "error", err)
	}
	return p, nil
}

// ListAvailableByIDs 下单路径的可用性校验，绕过缓存
func (r *CachedProductRepository) ListAvailableByIDs(ctx context.Context, ids []uint) (map[uint]*domain.Product, error) {
	return r.inner.ListAvailableByIDs(ctx, ids)
}

func (r *CachedProductRepository) List(ctx context.Context, offset, limit int) ([]*domain.Product, int64, error) {
	return r.inner.List(ctx, offset, limit)
}

// Invalidate 库存或价格变更后的缓存失效
func (r *CachedProductRepository) Invalidate(ctx context.Context, ids ...uint) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		logger.Warn(ctx, "Product cache invalidation failed", "error", err)
	}
}
