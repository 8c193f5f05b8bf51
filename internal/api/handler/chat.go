package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/hospital-chat/internal/api/middleware"
	"github.com/Rrens/hospital-chat/internal/api/response"
	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/Rrens/hospital-chat/internal/service"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ChatHandler handles the conversational endpoint
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Message handles one chat turn. Identity from a bearer token, when present,
// overrides whatever the request body claims.
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			errors := make(map[string]string)
			for _, e := range validationErrors {
				switch e.Tag() {
				case "required":
					errors[e.Field()] = "field is required"
				case "max":
					errors[e.Field()] = "must be at most " + e.Param() + " characters"
				case "oneof":
					errors[e.Field()] = "must be one of " + e.Param()
				default:
					errors[e.Field()] = "validation failed on " + e.Tag()
				}
			}
			response.BadRequest(w, errors)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	if userID, ok := middleware.GetUserID(r.Context()); ok {
		req.UserID = userID
	}
	if role, ok := middleware.GetUserRole(r.Context()); ok {
		req.UserRole = role
	}

	resp := h.chat.HandleMessage(r.Context(), req)
	response.OK(w, resp)
}
