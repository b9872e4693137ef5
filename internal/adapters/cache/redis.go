// Package cache provides AggregationCache implementations.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"slotpoll/internal/domain"
)

type redisCache struct {
	client *redis.Client
}

// NewRedisCache returns an AggregationCache backed by Redis. Results are
// stored as JSON under "aggregation:<eventID>".
func NewRedisCache(addr, password string) domain.AggregationCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return &redisCache{client: client}
}

func aggregationKey(eventID string) string {
	return "aggregation:" + eventID
}

func (c *redisCache) Get(ctx context.Context, eventID string) (*domain.AggregationResult, bool, error) {
	raw, err := c.client.Get(ctx, aggregationKey(eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	result := &domain.AggregationResult{}
	if err := json.Unmarshal(raw, result); err != nil {
		return nil, false, fmt.Errorf("decode cached aggregation: %w", err)
	}
	return result, true, nil
}

func (c *redisCache) Set(ctx context.Context, eventID string, result *domain.AggregationResult, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode aggregation: %w", err)
	}
	if err := c.client.Set(ctx, aggregationKey(eventID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *redisCache) Invalidate(ctx context.Context, eventID string) error {
	if err := c.client.Del(ctx, aggregationKey(eventID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
