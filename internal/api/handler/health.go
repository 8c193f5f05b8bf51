package handler

import (
	"net/http"

	"github.com/Rrens/hospital-chat/internal/api/response"
	"github.com/Rrens/hospital-chat/internal/repository/postgres"
	"github.com/Rrens/hospital-chat/internal/retrieval"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status: database connectivity and whether the
// knowledge base has been indexed.
func ReadyCheck(db *postgres.DB, indexer retrieval.Indexer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database not ready")
			return
		}

		response.OK(w, map[string]any{
			"status":   "ready",
			"snippets": indexer.Count(),
		})
	}
}
