package thumbnails

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/protodeck/protodeck-backend/internal/figma"
)

const cacheKeyPrefix = "figma:thumb:" // figma:thumb:{file_id}

// Cache stores thumbnails by Figma file id. Get returns nil, nil on a miss.
type Cache interface {
	Get(ctx context.Context, fileID string) (*figma.Thumbnail, error)
	Set(ctx context.Context, t *figma.Thumbnail) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) key(fileID string) string {
	return cacheKeyPrefix + fileID
}

func (c *RedisCache) Get(ctx context.Context, fileID string) (*figma.Thumbnail, error) {
	data, err := c.client.Get(ctx, c.key(fileID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thumbnail: %w", err)
	}

	var t figma.Thumbnail
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal thumbnail: %w", err)
	}
	return &t, nil
}

func (c *RedisCache) Set(ctx context.Context, t *figma.Thumbnail) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal thumbnail: %w", err)
	}
	if err := c.client.Set(ctx, c.key(t.FileID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store thumbnail: %w", err)
	}
	return nil
}

// NoopCache never hits.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*figma.Thumbnail, error) { return nil, nil }
func (NoopCache) Set(context.Context, *figma.Thumbnail) error           { return nil }
