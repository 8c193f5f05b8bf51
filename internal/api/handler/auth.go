package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/hospital-chat/internal/api/response"
	"github.com/Rrens/hospital-chat/internal/config"
	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/Rrens/hospital-chat/internal/security"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AuthHandler exchanges an access code for a role-scoped token. Visitors get
// a token without a code; staff and admin must present the shared code
// configured for their role.
type AuthHandler struct {
	jwtManager *security.JWTManager
	auth       config.AuthConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtManager *security.JWTManager, auth config.AuthConfig) *AuthHandler {
	return &AuthHandler{jwtManager: jwtManager, auth: auth}
}

type tokenRequest struct {
	Role       domain.UserRole `json:"role" validate:"required,oneof=visitor staff admin"`
	AccessCode string          `json:"access_code" validate:"omitempty,max=128"`
}

// Token handles the access-code exchange
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var input tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			response.BadRequest(w, "role must be one of visitor, staff, admin")
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	switch input.Role {
	case domain.RoleStaff:
		if !security.VerifyAccessCode(h.auth.StaffCodeHash, input.AccessCode) {
			response.Unauthorized(w, "invalid access code")
			return
		}
	case domain.RoleAdmin:
		if !security.VerifyAccessCode(h.auth.AdminCodeHash, input.AccessCode) {
			response.Unauthorized(w, "invalid access code")
			return
		}
	}

	userID := uuid.NewString()
	token, err := h.jwtManager.GenerateToken(userID, input.Role)
	if err != nil {
		response.InternalError(w, "failed to generate token")
		return
	}

	response.OK(w, map[string]any{
		"token":      token,
		"user_id":    userID,
		"role":       input.Role,
		"expires_in": int(h.jwtManager.TokenTTL().Seconds()),
	})
}
