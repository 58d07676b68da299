package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix       = "treasury:projection:"
	dashboardKind   = "dashboard"
	DefaultCacheTTL = 5 * time.Minute
)

// RedisProjectionCache keeps read models as JSON documents, one hash per scope
// so a single DEL drops every projection of a boutique.
type RedisProjectionCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ portsrepo.ProjectionCache = (*RedisProjectionCache)(nil)

// NewRedisProjectionCache wraps an existing client. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewRedisProjectionCache(client redis.UniversalClient, ttl time.Duration) *RedisProjectionCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisProjectionCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func scopeKey(scope domain.Scope) string {
	return keyPrefix + scope.String()
}

func (c *RedisProjectionCache) GetDashboard(ctx context.Context, scope domain.Scope) (*domain.Dashboard, bool, error) {
	raw, err := c.client.HGet(ctx, scopeKey(scope), dashboardKind).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached dashboard: %w", err)
	}

	var dashboard domain.Dashboard
	if err := json.Unmarshal(raw, &dashboard); err != nil {
		// A stale encoding is treated as a miss and overwritten on the next set.
		return nil, false, nil
	}
	return &dashboard, true, nil
}

func (c *RedisProjectionCache) SetDashboard(ctx context.Context, scope domain.Scope, dashboard domain.Dashboard) error {
	raw, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	key := scopeKey(scope)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, dashboardKind, raw)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write cached dashboard: %w", err)
	}
	return nil
}

func (c *RedisProjectionCache) Invalidate(ctx context.Context, scope domain.Scope) error {
	if err := c.client.Del(ctx, scopeKey(scope)).Err(); err != nil {
		return fmt.Errorf("invalidate projections for %s: %w", scope, err)
	}
	return nil
}
