// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// renderKeyPrefix is the Valkey key prefix for rendered output.
	renderKeyPrefix = "render:"

	// DefaultRenderTTL is how long rendered output stays cached.
	DefaultRenderTTL = 5 * time.Minute
)

// RenderCache stores rendered page output in Valkey. Keys are content
// fingerprints, so an edit to a page or one of its templates produces a
// miss without explicit invalidation. Errors are logged and treated as
// misses; the cache never fails a render.
type RenderCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewRenderCache creates a render cache backed by the given Valkey client.
// A zero ttl selects DefaultRenderTTL.
func NewRenderCache(client *redis.Client, ttl time.Duration) *RenderCache {
	if ttl <= 0 {
		ttl = DefaultRenderTTL
	}
	return &RenderCache{client: client, ttl: ttl, log: slog.Default()}
}

// Fingerprint derives a cache key from the given parts.
func Fingerprint(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached value for key. The bool is false on a miss.
func (c *RenderCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, renderKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("render cache get error", "key", key, "error", err)
		return nil, false
	}
	c.log.Debug("render cache hit", "key", key)
	return val, true
}

// Set stores value under key with the configured TTL.
func (c *RenderCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, renderKeyPrefix+key, value, c.ttl).Err(); err != nil {
		c.log.Warn("render cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached render by scanning for the prefix.
// It returns the number of keys deleted.
func (c *RenderCache) InvalidateAll(ctx context.Context) int {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, renderKeyPrefix+"*", 100).Result()
		if err != nil {
			c.log.Warn("render cache scan error", "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.log.Warn("render cache bulk delete error", "error", err)
			} else {
				deleted += len(keys)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		c.log.Info("render cache cleared", "deleted", deleted)
	}
	return deleted
}

// Key joins parts into a readable key segment, e.g. Key("page", slug).
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
