package handler

import (
	"net/http"
	"strconv"

	"github.com/Rrens/hospital-chat/internal/api/response"
	"github.com/Rrens/hospital-chat/internal/domain"
)

const defaultHistoryLimit = 100

// ChatLogHandler exposes persisted chat turns to admins
type ChatLogHandler struct {
	repo domain.ChatLogRepository
}

// NewChatLogHandler creates a new chat log handler
func NewChatLogHandler(repo domain.ChatLogRepository) *ChatLogHandler {
	return &ChatLogHandler{repo: repo}
}

// ListByUser returns a user's chat history, newest first
func (h *ChatLogHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.BadRequest(w, "user_id is required")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	turns, err := h.repo.ListByUser(r.Context(), userID, limit)
	if err != nil {
		response.InternalError(w, "failed to list chat history")
		return
	}

	response.OK(w, map[string]any{
		"turns": turns,
		"count": len(turns),
	})
}
