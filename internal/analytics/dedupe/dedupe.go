package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "view:seen:" // view:seen:{project_id}:{ip}

// Deduper decides whether a view should be stored.
type Deduper interface {
	// FirstSeen reports true the first time a (project, ip) pair shows up
	// within the window.
	FirstSeen(ctx context.Context, projectID, ip string) (bool, error)
	// Forget drops a claim made by FirstSeen so the next view counts again.
	Forget(ctx context.Context, projectID, ip string) error
}

// RedisDeduper remembers recent viewers with SETNX and a TTL.
type RedisDeduper struct {
	client *redis.Client
	window time.Duration
}

func NewRedisDeduper(client *redis.Client, window time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, window: window}
}

func (d *RedisDeduper) FirstSeen(ctx context.Context, projectID, ip string) (bool, error) {
	if ip == "" || d.window <= 0 {
		return true, nil
	}
	ok, err := d.client.SetNX(ctx, seenKey(projectID, ip), 1, d.window).Result()
	if err != nil {
		return true, fmt.Errorf("dedupe view: %w", err)
	}
	return ok, nil
}

func (d *RedisDeduper) Forget(ctx context.Context, projectID, ip string) error {
	if ip == "" || d.window <= 0 {
		return nil
	}
	if err := d.client.Del(ctx, seenKey(projectID, ip)).Err(); err != nil {
		return fmt.Errorf("forget view: %w", err)
	}
	return nil
}

func seenKey(projectID, ip string) string {
	return keyPrefix + projectID + ":" + ip
}

// Noop counts every view. Used when Redis is not configured.
type Noop struct{}

func (Noop) FirstSeen(context.Context, string, string) (bool, error) { return true, nil }

func (Noop) Forget(context.Context, string, string) error { return nil }
