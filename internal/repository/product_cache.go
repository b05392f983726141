package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	CategoriesCacheKey  = "product_categories"
	FilterStatsCacheKey = "filter_stats"
)

// ProductCache stores serialized catalog reads. Get reports a miss with ok=false.
type ProductCache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type redisProductCache struct {
	rdb *redis.Client
}

func NewRedisProductCache(rdb *redis.Client) ProductCache {
	return &redisProductCache{rdb: rdb}
}

func (c *redisProductCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *redisProductCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *redisProductCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

type nopProductCache struct{}

// NewNopProductCache is used when no redis address is configured.
func NewNopProductCache() ProductCache {
	return nopProductCache{}
}

func (nopProductCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (nopProductCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (nopProductCache) Delete(context.Context, ...string) error { return nil }

// CacheKey names the cached listing for a filter, e.g. products_category_ranks_featured.
func (f ProductFilter) CacheKey() string {
	parts := []string{"products"}
	if f.Category != "" {
		parts = append(parts, "category", f.Category)
	}
	if f.Featured {
		parts = append(parts, "featured")
	}
	if f.Popular {
		parts = append(parts, "popular")
	}
	if f.BestOffer {
		parts = append(parts, "best_offer")
	}
	return strings.Join(parts, "_")
}

// InvalidationKeys lists every cache key a write to products in the given
// categories can affect: all flag combinations with and without each category.
func InvalidationKeys(categories ...string) []string {
	keys := []string{CategoriesCacheKey, FilterStatsCacheKey}

	seen := map[string]bool{}
	scopes := []string{""}
	for _, c := range categories {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		scopes = append(scopes, c)
	}

	for _, category := range scopes {
		for mask := 0; mask < 8; mask++ {
			keys = append(keys, ProductFilter{
				Category:  category,
				Featured:  mask&1 != 0,
				Popular:   mask&2 != 0,
				BestOffer: mask&4 != 0,
			}.CacheKey())
		}
	}

	return keys
}
