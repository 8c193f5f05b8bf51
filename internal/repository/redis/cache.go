package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	contextCachePrefix = "ragctx:"
	defaultContextTTL  = 5 * time.Minute
)

type cachedContext struct {
	Context  string `json:"context"`
	CachedAt int64  `json:"cached_at"`
}

// ContextCache caches merged retrieval context per query set, so repeated
// list requests within the TTL skip the retrieval fan-out.
type ContextCache struct {
	client *Client
	ttl    time.Duration
}

// NewContextCache creates a context cache. A zero ttl uses the default.
func NewContextCache(client *Client, ttl time.Duration) *ContextCache {
	if ttl <= 0 {
		ttl = defaultContextTTL
	}
	return &ContextCache{client: client, ttl: ttl}
}

func cacheKey(queries []string) string {
	h := xxhash.New()
	for _, q := range queries {
		h.WriteString(q)
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%s%x", contextCachePrefix, h.Sum64())
}

// Get returns the cached context for a query set, or "" on miss
func (c *ContextCache) Get(ctx context.Context, queries []string) (string, bool) {
	data, err := c.client.rdb.Get(ctx, cacheKey(queries)).Bytes()
	if err != nil {
		return "", false
	}

	var cached cachedContext
	if err := json.Unmarshal(data, &cached); err != nil {
		return "", false
	}
	return cached.Context, true
}

// Set caches the merged context for a query set
func (c *ContextCache) Set(ctx context.Context, queries []string, merged string) error {
	data, err := json.Marshal(cachedContext{Context: merged, CachedAt: time.Now().Unix()})
	if err != nil {
		return fmt.Errorf("failed to marshal cached context: %w", err)
	}
	return c.client.rdb.Set(ctx, cacheKey(queries), data, c.ttl).Err()
}

// Invalidate drops every cached context, used after re-indexing documents
func (c *ContextCache) Invalidate(ctx context.Context) (int64, error) {
	pattern := contextCachePrefix + "*"
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
