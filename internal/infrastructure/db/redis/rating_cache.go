package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brewbase/coffee-catalog/internal/core/domain"
)

// ratingTTL bounds staleness for readers that race an invalidation.
const ratingTTL = 5 * time.Minute

// RatingCache keeps per-coffee rating aggregates in Redis so catalog reads
// skip the Mongo aggregation on the hot path. Writers invalidate the entry;
// the next reader repopulates it.
type RatingCache struct {
	client *redis.Client
}

func NewRatingCache(client *redis.Client) *RatingCache {
	return &RatingCache{client: client}
}

func ratingKey(coffeeID string) string {
	return "rating:" + coffeeID
}

// Get returns the cached aggregate, or (nil, nil) on a miss.
func (c *RatingCache) Get(ctx context.Context, coffeeID string) (*domain.RatingAggregate, error) {
	val, err := c.client.Get(ctx, ratingKey(coffeeID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rating cache get: %w", err)
	}

	var agg domain.RatingAggregate
	if err := json.Unmarshal([]byte(val), &agg); err != nil {
		// Treat a corrupt entry as a miss; the reader recomputes it.
		return nil, nil
	}
	return &agg, nil
}

func (c *RatingCache) Set(ctx context.Context, coffeeID string, agg domain.RatingAggregate) error {
	payload, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("rating cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, ratingKey(coffeeID), payload, ratingTTL).Err(); err != nil {
		return fmt.Errorf("rating cache set: %w", err)
	}
	return nil
}

func (c *RatingCache) Invalidate(ctx context.Context, coffeeID string) error {
	if err := c.client.Del(ctx, ratingKey(coffeeID)).Err(); err != nil {
		return fmt.Errorf("rating cache del: %w", err)
	}
	return nil
}
