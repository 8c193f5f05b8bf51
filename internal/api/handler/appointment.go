package handler

import (
	"net/http"
	"strconv"

	"github.com/Rrens/hospital-chat/internal/api/response"
	"github.com/Rrens/hospital-chat/internal/domain"
)

const defaultAppointmentLimit = 50

// AppointmentHandler exposes booking requests to admins
type AppointmentHandler struct {
	repo domain.AppointmentRepository
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(repo domain.AppointmentRepository) *AppointmentHandler {
	return &AppointmentHandler{repo: repo}
}

// List returns pending booking requests, newest first
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultAppointmentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	requests, err := h.repo.List(r.Context(), limit)
	if err != nil {
		response.InternalError(w, "failed to list appointment requests")
		return
	}

	response.OK(w, map[string]any{
		"appointments": requests,
		"count":        len(requests),
	})
}
