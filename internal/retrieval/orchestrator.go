package retrieval

import (
	"context"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
)

// fingerprintLen is how much of a snippet participates in the dedup
// fingerprint. Prefix hashing is a heuristic: two snippets sharing their
// first 100 bytes are treated as the same snippet.
const fingerprintLen = 100

// Orchestrator merges the results of several fan-out queries into a single
// bounded context string. Merge order is deterministic: query submission
// order first, then snippet position within a query's results.
type Orchestrator struct {
	retriever   Retriever
	maxSnippets int
}

// NewOrchestrator creates an orchestrator over the given retriever. A
// non-positive maxSnippets disables the cap.
func NewOrchestrator(retriever Retriever, maxSnippets int) *Orchestrator {
	return &Orchestrator{
		retriever:   retriever,
		maxSnippets: maxSnippets,
	}
}

// Gather runs every query against the retriever, skips individual failures,
// de-duplicates by content fingerprint keeping the first occurrence, and
// joins the survivors into one context string. An empty return means every
// query failed or returned nothing; the caller must fall back to a canned
// response instead of generating without grounding.
func (o *Orchestrator) Gather(ctx context.Context, queries []string, params Params) string {
	seen := make(map[uint64]struct{})
	var merged []string

	for _, query := range queries {
		snippets, err := o.retriever.Search(ctx, query, params)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("retrieval query failed, skipping")
			continue
		}

		for _, s := range snippets {
			fp := fingerprint(s.Text)
			if _, dup := seen[fp]; dup {
				continue
			}
			seen[fp] = struct{}{}
			merged = append(merged, s.Text)
		}
	}

	if o.maxSnippets > 0 && len(merged) > o.maxSnippets {
		merged = merged[:o.maxSnippets]
	}

	return strings.Join(merged, "\n\n")
}

func fingerprint(text string) uint64 {
	if len(text) > fingerprintLen {
		text = text[:fingerprintLen]
	}
	return xxhash.Sum64String(text)
}
