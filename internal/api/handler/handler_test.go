package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rrens/hospital-chat/internal/api/handler"
	"github.com/Rrens/hospital-chat/internal/api/middleware"
	"github.com/Rrens/hospital-chat/internal/config"
	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/Rrens/hospital-chat/internal/retrieval"
	"github.com/Rrens/hospital-chat/internal/security"
	"github.com/Rrens/hospital-chat/internal/service"
	"github.com/Rrens/hospital-chat/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGatherer struct{}

func (stubGatherer) Gather(context.Context, []string, retrieval.Params) string { return "" }

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, string) (string, error) {
	return "Generated answer.", nil
}

type stubAppointmentRepo struct {
	requests []domain.AppointmentRequest
}

func (s *stubAppointmentRepo) Insert(_ context.Context, req *domain.AppointmentRequest) (int64, error) {
	req.ID = int64(len(s.requests) + 1)
	s.requests = append(s.requests, *req)
	return req.ID, nil
}

func (s *stubAppointmentRepo) List(_ context.Context, limit int) ([]domain.AppointmentRequest, error) {
	if limit > len(s.requests) {
		limit = len(s.requests)
	}
	return s.requests[:limit], nil
}

func newTestChatService() *service.ChatService {
	hospital := config.HospitalConfig{
		Name:  "KG Hospital",
		Phone: "0422-2324105",
	}
	return service.NewChatService(
		session.NewStore(30*time.Minute),
		stubGatherer{},
		stubGenerator{},
		nil,
		nil,
		hospital,
	)
}

func makeJSONRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["success"])
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
}

func TestChatHandler_Greeting(t *testing.T) {
	h := handler.NewChatHandler(newTestChatService())

	req := makeJSONRequest(http.MethodPost, "/api/v1/chat", map[string]any{
		"message": "hello",
	})
	rec := httptest.NewRecorder()

	h.Message(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	data := resp["data"].(map[string]any)
	assert.Contains(t, data["response"], "KG Hospital")
	assert.NotEmpty(t, data["timestamp"])
}

func TestChatHandler_MissingMessage(t *testing.T) {
	h := handler.NewChatHandler(newTestChatService())

	req := makeJSONRequest(http.MethodPost, "/api/v1/chat", map[string]any{})
	rec := httptest.NewRecorder()

	h.Message(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, false, resp["success"])
}

func TestChatHandler_InvalidBody(t *testing.T) {
	h := handler.NewChatHandler(newTestChatService())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	h.Message(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHandler_TokenIdentityOverridesBody(t *testing.T) {
	h := handler.NewChatHandler(newTestChatService())

	req := makeJSONRequest(http.MethodPost, "/api/v1/chat", map[string]any{
		"message":   "hello",
		"user_role": "visitor",
	})
	ctx := context.WithValue(req.Context(), middleware.UserRoleKey, domain.RoleAdmin)
	ctx = context.WithValue(ctx, middleware.UserIDKey, "admin-1")
	rec := httptest.NewRecorder()

	h.Message(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	data := resp["data"].(map[string]any)
	assert.Contains(t, data["response"], "hospital management")
}

func TestAuthHandler_Token(t *testing.T) {
	adminHash, err := security.HashAccessCode("admin-code")
	require.NoError(t, err)
	staffHash, err := security.HashAccessCode("staff-code")
	require.NoError(t, err)

	manager := security.NewJWTManager("test-secret-key-32-characters!!!", time.Hour)
	h := handler.NewAuthHandler(manager, config.AuthConfig{
		JWTSecret:      "test-secret-key-32-characters!!!",
		AccessTokenTTL: time.Hour,
		StaffCodeHash:  staffHash,
		AdminCodeHash:  adminHash,
	})

	t.Run("admin with valid code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Token(rec, makeJSONRequest(http.MethodPost, "/api/v1/auth/token", map[string]any{
			"role":        "admin",
			"access_code": "admin-code",
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]any)

		claims, err := manager.ValidateToken(data["token"].(string))
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, claims.Role)
		assert.Equal(t, data["user_id"], claims.UserID)
	})

	t.Run("admin with wrong code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Token(rec, makeJSONRequest(http.MethodPost, "/api/v1/auth/token", map[string]any{
			"role":        "admin",
			"access_code": "nope",
		}))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("visitor needs no code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Token(rec, makeJSONRequest(http.MethodPost, "/api/v1/auth/token", map[string]any{
			"role": "visitor",
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]any)
		claims, err := manager.ValidateToken(data["token"].(string))
		require.NoError(t, err)
		assert.Equal(t, domain.RoleVisitor, claims.Role)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Token(rec, makeJSONRequest(http.MethodPost, "/api/v1/auth/token", map[string]any{
			"role": "superuser",
		}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAppointmentHandler_List(t *testing.T) {
	repo := &stubAppointmentRepo{requests: []domain.AppointmentRequest{
		{ID: 1, AppointmentID: "APT-11111111", Reason: "Fever treatment"},
		{ID: 2, AppointmentID: "APT-22222222", Reason: "General consultation"},
	}}
	h := handler.NewAppointmentHandler(repo)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/appointments?limit=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["count"])
}

func TestAppointmentHandler_BadLimit(t *testing.T) {
	h := handler.NewAppointmentHandler(&stubAppointmentRepo{})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/appointments?limit=zero", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireRole(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-32-characters!!!", time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(manager)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := authMiddleware.Identify(authMiddleware.RequireRole(domain.RoleAdmin)(next))

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("visitor token forbidden", func(t *testing.T) {
		token, err := manager.GenerateToken("u1", domain.RoleVisitor)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin token allowed", func(t *testing.T) {
		token, err := manager.GenerateToken("a1", domain.RoleAdmin)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
