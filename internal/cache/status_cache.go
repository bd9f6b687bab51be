package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"school-payments-service/internal/models"
)

// StatusCache caches composed order status lookups in Redis. The cache is
// read-through: misses fall back to the database and reconciliation
// invalidates entries for orders it touches.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache creates a new status cache instance
func NewStatusCache(host string, port int, password string, db int, ttlSeconds int) (*StatusCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Return cache with nil client - will gracefully degrade to no caching
		return &StatusCache{
			client: nil,
			ttl:    time.Duration(ttlSeconds) * time.Second,
		}, nil
	}

	return &StatusCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (c *StatusCache) cacheKey(customOrderID string) string {
	return fmt.Sprintf("order-status:%s", customOrderID)
}

// Get retrieves a cached status view for an order
func (c *StatusCache) Get(ctx context.Context, customOrderID string) (*models.OrderStatusResponse, error) {
	if c.client == nil {
		return nil, nil // Cache unavailable, return nil
	}

	data, err := c.client.Get(ctx, c.cacheKey(customOrderID)).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	var resp models.OrderStatusResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Set caches a composed status view
func (c *StatusCache) Set(ctx context.Context, customOrderID string, resp *models.OrderStatusResponse) error {
	if c.client == nil {
		return nil // Cache unavailable, silently skip
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.cacheKey(customOrderID), data, c.ttl).Err()
}

// Invalidate removes the cached view for an order after reconciliation
func (c *StatusCache) Invalidate(ctx context.Context, customOrderID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.cacheKey(customOrderID)).Err()
}

// Close closes the Redis connection
func (c *StatusCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// IsAvailable returns true if the cache is available
func (c *StatusCache) IsAvailable() bool {
	return c.client != nil
}
