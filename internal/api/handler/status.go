package handler

import (
	"net/http"

	"github.com/Rrens/hospital-chat/internal/api/response"
	"github.com/Rrens/hospital-chat/internal/llm"
	"github.com/Rrens/hospital-chat/internal/retrieval"
	"github.com/Rrens/hospital-chat/internal/session"
)

// SystemStatus reports operational counters: indexed snippets, live
// sessions, and which generation providers are registered.
func SystemStatus(indexer retrieval.Indexer, sessions *session.Store, llmRouter *llm.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"snippets":        indexer.Count(),
			"active_sessions": sessions.Len(),
			"providers":       llmRouter.GetProvidersInfo(),
		})
	}
}
