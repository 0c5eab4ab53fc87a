package middleware

import (
	"net/http"
	"strconv"

	"github.com/pagewright/pagewright/internal/repository/redis"
)

// RateLimitMiddleware provides rate limiting functionality. Keys carrying
// their own RPM override the default limit; anonymous requests fall back
// to a per-IP limit.
type RateLimitMiddleware struct {
	cache   *redis.Cache
	limit   int
	enabled bool
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(cache *redis.Cache, limit int, enabled bool) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		cache:   cache,
		limit:   limit,
		enabled: enabled,
	}
}

// Handler returns the middleware handler
func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip if rate limiting is disabled
		if !m.enabled || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		// Skip for health checks
		if r.URL.Path == "/health" || r.URL.Path == "/ready" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		key, limit := m.rateLimitFor(r)

		// Check rate limit
		allowed, count, err := m.cache.CheckRateLimit(r.Context(), key, limit)
		if err != nil {
			// On Redis error, allow the request
			next.ServeHTTP(w, r)
			return
		}

		// Set rate limit headers
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitFor picks the counting key and the limit that applies to it.
func (m *RateLimitMiddleware) rateLimitFor(r *http.Request) (string, int) {
	limit := m.limit
	if rpm, ok := GetRateLimitRPM(r.Context()); ok && rpm > 0 {
		limit = rpm
	}

	// Prefer the API key identity so one tenant's keys are limited separately
	if keyID, ok := GetAPIKeyID(r.Context()); ok {
		return "key:" + keyID.String(), limit
	}

	if tenantID, ok := GetTenantID(r.Context()); ok {
		return "tenant:" + tenantID.String(), limit
	}

	// Fall back to IP address
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.Header.Get("X-Real-IP")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}

	return "ip:" + ip, limit
}
