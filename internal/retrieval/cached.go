package retrieval

import (
	"context"

	"github.com/rs/zerolog/log"
)

// ContextStore caches merged context strings keyed by query set
type ContextStore interface {
	Get(ctx context.Context, queries []string) (string, bool)
	Set(ctx context.Context, queries []string, merged string) error
}

// CachedOrchestrator puts a context cache in front of an orchestrator.
// Cache failures never block retrieval.
type CachedOrchestrator struct {
	inner *Orchestrator
	store ContextStore
}

func NewCachedOrchestrator(inner *Orchestrator, store ContextStore) *CachedOrchestrator {
	return &CachedOrchestrator{inner: inner, store: store}
}

// Gather serves from cache when possible, otherwise delegates and caches
// the merged result. Empty results are not cached so a transient retrieval
// outage does not pin an empty context for the TTL.
func (c *CachedOrchestrator) Gather(ctx context.Context, queries []string, params Params) string {
	if merged, ok := c.store.Get(ctx, queries); ok {
		return merged
	}

	merged := c.inner.Gather(ctx, queries, params)
	if merged == "" {
		return merged
	}

	if err := c.store.Set(ctx, queries, merged); err != nil {
		log.Warn().Err(err).Msg("failed to cache retrieval context")
	}
	return merged
}
