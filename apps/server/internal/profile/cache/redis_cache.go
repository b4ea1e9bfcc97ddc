// Package cache keeps recently built profile summaries in Redis so the HTTP
// surface can render one summary many times without re-querying GitHub.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tilsley/insights/apps/server/internal/profile"
)

const redisKeyPrefix = "profile-summary:"

// RedisSummaryCache stores ProfileSummary snapshots with a fixed TTL.
type RedisSummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSummaryCache creates a new RedisSummaryCache. A zero ttl keeps
// entries until they are deleted.
func NewRedisSummaryCache(rdb *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{rdb: rdb, ttl: ttl}
}

func key(username string) string {
	return redisKeyPrefix + strings.ToLower(username)
}

// Get returns the cached summary for username, or nil if there is none.
func (c *RedisSummaryCache) Get(ctx context.Context, username string) (*profile.ProfileSummary, error) {
	val, err := c.rdb.Get(ctx, key(username)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil //nolint:nilnil // caller checks nil value to detect a miss
	}
	if err != nil {
		return nil, fmt.Errorf("get summary %q: %w", username, err)
	}
	var s profile.ProfileSummary
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("unmarshal summary %q: %w", username, err)
	}
	return &s, nil
}

// Save stores the summary for username, replacing any previous entry.
func (c *RedisSummaryCache) Save(ctx context.Context, username string, s *profile.ProfileSummary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := c.rdb.Set(ctx, key(username), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("save summary %q: %w", username, err)
	}
	return nil
}

// Delete drops the cached summary for username.
func (c *RedisSummaryCache) Delete(ctx context.Context, username string) error {
	if err := c.rdb.Del(ctx, key(username)).Err(); err != nil {
		return fmt.Errorf("delete summary %q: %w", username, err)
	}
	return nil
}
