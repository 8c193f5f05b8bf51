package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Rrens/hospital-chat/internal/api/response"
	"github.com/Rrens/hospital-chat/internal/repository/redis"
)

// RateLimitMiddleware handles rate limiting
type RateLimitMiddleware struct {
	rateLimiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting keyed by the authenticated user, falling back
// to the remote address for anonymous visitors.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := GetUserID(r.Context())
		if !ok || key == "" {
			key = r.RemoteAddr
		}

		allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), key)
		if err != nil {
			// If the rate limiter fails, allow the request rather than block chat
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", resetTime.Format(time.RFC3339))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
