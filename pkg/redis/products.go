package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swara2402/Trenzy/pkg/models"
)

const productTTL = 24 * time.Hour

// ProductCache is a read-through cache in front of the catalog. Misses return
// (nil, nil); callers fall back to the catalog store.
type ProductCache struct {
	client *redis.Client
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func (c *ProductCache) CacheProduct(ctx context.Context, product *models.Product) error {
	payload, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.ID, err)
	}

	if err := c.client.Set(ctx, productKey(product.ID), payload, productTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache product %s: %w", product.ID, err)
	}
	return nil
}

func (c *ProductCache) GetCachedProduct(ctx context.Context, id string) (*models.Product, error) {
	payload, err := c.client.Get(ctx, productKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached product %s: %w", id, err)
	}

	var product models.Product
	if err := json.Unmarshal([]byte(payload), &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product %s: %w", id, err)
	}
	return &product, nil
}

func (c *ProductCache) RemoveProduct(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to evict product %s: %w", id, err)
	}
	return nil
}
