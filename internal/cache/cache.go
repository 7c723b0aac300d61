package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hazardhub/hazardhub_api/internal/model"
	goredis "github.com/redis/go-redis/v9"
)

const statsKey = "hazards:stats"

// Cache is a thin Redis wrapper for read-heavy aggregates. A nil *Cache is
// valid and behaves as a permanent miss, so Redis stays optional.
type Cache struct {
	client *goredis.Client
}

func New(addr string) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{client: goredis.NewClient(&goredis.Options{Addr: addr})}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// GetStats returns the cached stats snapshot, or nil on a miss.
func (c *Cache) GetStats(ctx context.Context) (*model.HazardStats, error) {
	if c == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats model.HazardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Cache) SetStats(ctx context.Context, stats *model.HazardStats, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	b, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, b, ttl).Err()
}

// InvalidateStats drops the snapshot after a write that changes the counts.
func (c *Cache) InvalidateStats(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, statsKey).Err()
}
