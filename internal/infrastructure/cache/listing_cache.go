package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/infrastructure/config"
)

// ErrCacheMiss is returned when a key is not present in the cache
var ErrCacheMiss = errors.New("cache miss")

const listingKeyPrefix = "catalog:listings:"

// ListingCache caches rendered catalog query results
type ListingCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
	InvalidateAll(ctx context.Context) error
}

// ListingKey builds a cache key for a listing filter
func ListingKey(filter catalog.ListingFilter) string {
	shop, category := "-", "-"
	if filter.ShopID != nil {
		shop = filter.ShopID.String()
	}
	if filter.CategoryID != nil {
		category = filter.CategoryID.String()
	}
	return fmt.Sprintf("%s%s:%s", listingKeyPrefix, shop, category)
}

// RedisListingCache implements ListingCache on Redis.
// Suitable for distributed deployments where multiple instances share
// the product cache.
type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisListingCache connects to Redis using the given configuration
func NewRedisListingCache(cfg *config.RedisConfig) (*RedisListingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisListingCache{client: client, ttl: cfg.CacheTTL}, nil
}

// NewRedisListingCacheWithClient creates a cache backed by an existing client.
// Useful for testing or when sharing a client across components.
func NewRedisListingCacheWithClient(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{client: client, ttl: ttl}
}

// Get returns the cached payload for key, or ErrCacheMiss
func (c *RedisListingCache) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	return payload, nil
}

// Set stores the payload for key with the configured TTL
func (c *RedisListingCache) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached listing entry
func (c *RedisListingCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, listingKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate cache: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisListingCache) Close() error {
	return c.client.Close()
}

var _ ListingCache = (*RedisListingCache)(nil)
