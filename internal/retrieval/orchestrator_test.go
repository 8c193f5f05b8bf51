package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/stretchr/testify/assert"
)

// fakeRetriever returns canned snippets per query
type fakeRetriever struct {
	results map[string][]domain.Snippet
	errs    map[string]error
}

func (f *fakeRetriever) Search(_ context.Context, query string, _ Params) ([]domain.Snippet, error) {
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return f.results[query], nil
}

func snips(texts ...string) []domain.Snippet {
	out := make([]domain.Snippet, len(texts))
	for i, t := range texts {
		out[i] = domain.Snippet{Text: t}
	}
	return out
}

func TestOrchestrator_DeduplicatesOverlap(t *testing.T) {
	shared := "Dr. Kumar heads the cardiology department and consults on weekdays."
	r := &fakeRetriever{results: map[string][]domain.Snippet{
		"q1": snips(shared, "Cardiology is on the second floor."),
		"q2": snips(shared, "The neurology wing opened in 2019."),
	}}

	ctx := NewOrchestrator(r, 0).Gather(context.Background(), []string{"q1", "q2"}, ProfileGeneral)

	assert.Equal(t, 1, strings.Count(ctx, shared))
	assert.Contains(t, ctx, "second floor")
	assert.Contains(t, ctx, "neurology wing")
}

func TestOrchestrator_PrefixFingerprint(t *testing.T) {
	// Same first 100 bytes, different tails: treated as duplicates by design
	prefix := strings.Repeat("a", 100)
	r := &fakeRetriever{results: map[string][]domain.Snippet{
		"q1": snips(prefix + " tail one"),
		"q2": snips(prefix + " tail two"),
	}}

	ctx := NewOrchestrator(r, 0).Gather(context.Background(), []string{"q1", "q2"}, ProfileGeneral)

	assert.Equal(t, prefix+" tail one", ctx)
}

func TestOrchestrator_FirstSeenOrder(t *testing.T) {
	r := &fakeRetriever{results: map[string][]domain.Snippet{
		"q1": snips("alpha", "beta"),
		"q2": snips("gamma", "alpha"),
	}}

	ctx := NewOrchestrator(r, 0).Gather(context.Background(), []string{"q1", "q2"}, ProfileGeneral)

	assert.Equal(t, "alpha\n\nbeta\n\ngamma", ctx)
}

func TestOrchestrator_SkipsFailedQueries(t *testing.T) {
	r := &fakeRetriever{
		results: map[string][]domain.Snippet{"ok": snips("still here")},
		errs:    map[string]error{"bad": errors.New("index unavailable")},
	}

	ctx := NewOrchestrator(r, 0).Gather(context.Background(), []string{"bad", "ok"}, ProfileGeneral)

	assert.Equal(t, "still here", ctx)
}

func TestOrchestrator_AllQueriesFail(t *testing.T) {
	r := &fakeRetriever{errs: map[string]error{
		"a": errors.New("down"),
		"b": errors.New("down"),
	}}

	ctx := NewOrchestrator(r, 0).Gather(context.Background(), []string{"a", "b"}, ProfileGeneral)

	assert.Empty(t, ctx)
}

func TestOrchestrator_SnippetCap(t *testing.T) {
	r := &fakeRetriever{results: map[string][]domain.Snippet{
		"q": snips("one", "two", "three", "four"),
	}}

	ctx := NewOrchestrator(r, 2).Gather(context.Background(), []string{"q"}, ProfileGeneral)

	assert.Equal(t, "one\n\ntwo", ctx)
}
