// Package retrieval defines the semantic-search capability the chat engine
// consumes and the orchestrator that fans a logical request out over several
// differently-phrased queries.
package retrieval

import (
	"context"

	"github.com/Rrens/hospital-chat/internal/domain"
)

// Params tune one retrieval call. K is the result count, FetchK the candidate
// pool considered before diversity re-ranking, Diversity the MMR lambda in
// [0,1] where 1 means pure relevance.
type Params struct {
	K         int
	FetchK    int
	Diversity float64
}

// Profiles used by the handlers; values carried over from the tuned source
// system rather than re-derived.
var (
	ProfileDoctorList = Params{K: 10, FetchK: 25, Diversity: 0.5}
	ProfileDeptList   = Params{K: 6, FetchK: 15, Diversity: 0.5}
	ProfileDetail     = Params{K: 8, FetchK: 20, Diversity: 0.5}
	ProfileMedical    = Params{K: 12, FetchK: 25, Diversity: 0.4}
	ProfileGeneral    = Params{K: 15, FetchK: 30, Diversity: 0.5}
)

// Retriever is the external semantic-search capability: top-K snippets for a
// query, optionally diversity-weighted.
type Retriever interface {
	Search(ctx context.Context, query string, params Params) ([]domain.Snippet, error)
}

// Indexer is implemented by backends that accept documents for (re)indexing
type Indexer interface {
	Index(ctx context.Context, docs []domain.Document) error
	Count() int
}
