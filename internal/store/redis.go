package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rahulm/restaurant-backend/internal/models"
)

const foodItemsKey = "cache:fooditems"

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// ListingCache caches the food-item listing in Redis. Writers invalidate it
// on every add/update/delete.
type ListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewListingCache(rdb *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{rdb: rdb, ttl: ttl}
}

// GetFoodItems returns the cached listing, or false on a miss. Cache errors
// are treated as misses so Redis outages never fail a read.
func (c *ListingCache) GetFoodItems(ctx context.Context) ([]models.FoodItem, bool) {
	data, err := c.rdb.Get(ctx, foodItemsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var items []models.FoodItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *ListingCache) SetFoodItems(ctx context.Context, items []models.FoodItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, foodItemsKey, data, c.ttl).Err()
}

func (c *ListingCache) Invalidate(ctx context.Context) error {
	err := c.rdb.Del(ctx, foodItemsKey).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
