// Package memory implements an in-process vector index with maximal marginal
// relevance (MMR) re-ranking. The whole corpus is embedded up front and held
// in memory; suitable for the few thousand chunks a hospital knowledge base
// produces.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/Rrens/hospital-chat/internal/retrieval"
	"github.com/Rrens/hospital-chat/internal/retrieval/embed"
	"github.com/rs/zerolog/log"
)

type entry struct {
	text   string
	source string
	vector []float32
}

// Index is an in-memory vector index satisfying retrieval.Retriever and
// retrieval.Indexer. Index replaces the corpus wholesale; Search is safe to
// call concurrently with Index.
type Index struct {
	mu       sync.RWMutex
	entries  []entry
	embedder embed.Embedder
}

// NewIndex creates an empty index over the given embedder
func NewIndex(embedder embed.Embedder) *Index {
	return &Index{embedder: embedder}
}

// Index embeds the documents and swaps them in as the new corpus.
func (ix *Index) Index(ctx context.Context, docs []domain.Document) error {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	vectors, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	entries := make([]entry, len(docs))
	for i, d := range docs {
		entries[i] = entry{text: d.Text, source: d.Source, vector: normalize(vectors[i])}
	}

	ix.mu.Lock()
	ix.entries = entries
	ix.mu.Unlock()

	log.Info().Int("documents", len(entries)).Msg("vector index rebuilt")
	return nil
}

// Count reports the number of indexed chunks
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Search embeds the query, takes the FetchK nearest chunks by cosine
// similarity, then selects K of them with MMR so near-identical chunks do
// not crowd out coverage.
func (ix *Index) Search(ctx context.Context, query string, params retrieval.Params) ([]domain.Snippet, error) {
	vectors, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	qv := normalize(vectors[0])

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.entries) == 0 {
		return nil, fmt.Errorf("index is empty")
	}

	type scored struct {
		idx   int
		score float64
	}

	candidates := make([]scored, len(ix.entries))
	for i, e := range ix.entries {
		candidates[i] = scored{idx: i, score: dot(qv, e.vector)}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})

	fetchK := params.FetchK
	if fetchK <= 0 || fetchK > len(candidates) {
		fetchK = len(candidates)
	}
	candidates = candidates[:fetchK]

	k := params.K
	if k <= 0 || k > len(candidates) {
		k = len(candidates)
	}

	lambda := params.Diversity
	if lambda <= 0 || lambda > 1 {
		lambda = 0.5
	}

	// MMR: trade off query relevance against similarity to already-picked
	// chunks
	var picked []scored
	remaining := append([]scored(nil), candidates...)
	for len(picked) < k && len(remaining) > 0 {
		bestPos, bestVal := 0, math.Inf(-1)
		for pos, cand := range remaining {
			maxSim := 0.0
			for _, p := range picked {
				sim := dot(ix.entries[cand.idx].vector, ix.entries[p.idx].vector)
				if sim > maxSim {
					maxSim = sim
				}
			}
			val := lambda*cand.score - (1-lambda)*maxSim
			if val > bestVal {
				bestVal, bestPos = val, pos
			}
		}
		picked = append(picked, remaining[bestPos])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	snippets := make([]domain.Snippet, len(picked))
	for i, p := range picked {
		e := ix.entries[p.idx]
		snippets[i] = domain.Snippet{Text: e.text, Source: e.source, SourceQuery: query}
	}
	return snippets, nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
