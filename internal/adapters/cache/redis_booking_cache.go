package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
)

const redisKeyPrefix = "bookings:valid:"

// RedisBookingCache is the redis-backed validity cache for deployments where
// several replicas must share one view of which booking sets are fresh.
// TTL enforcement is delegated to redis.
type RedisBookingCache struct {
	client *redis.Client
}

func NewRedisBookingCache(client *redis.Client) *RedisBookingCache {
	return &RedisBookingCache{client: client}
}

func redisKey(key string) string { return redisKeyPrefix + key }

func (c *RedisBookingCache) Get(ctx context.Context, key string) ([]domain.Booking, bool, error) {
	data, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			obs.CacheMiss("bookings")
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("booking cache get: %w", err)
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, false, fmt.Errorf("booking cache unmarshal: %w", err)
	}

	obs.CacheHit("bookings")
	return bookings, true, nil
}

func (c *RedisBookingCache) Set(ctx context.Context, key string, bookings []domain.Booking, ttl time.Duration) error {
	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("booking cache marshal: %w", err)
	}

	if err := c.client.Set(ctx, redisKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("booking cache set: %w", err)
	}
	return nil
}

// InvalidateAll deletes every key under the cache prefix.
func (c *RedisBookingCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("booking cache delete key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("booking cache flush: %w", err)
	}
	return nil
}
