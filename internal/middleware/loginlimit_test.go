package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimiterMemoryFallback(t *testing.T) {
	t.Run("allows up to the limit per window", func(t *testing.T) {
		limiter := NewLoginRateLimiter(nil)

		for i := 0; i < loginMaxAttempts; i++ {
			assert.True(t, limiter.isAllowedMemory("10.0.0.1"), "attempt %d should be allowed", i+1)
		}
		assert.False(t, limiter.isAllowedMemory("10.0.0.1"))
	})

	t.Run("tracks each IP independently", func(t *testing.T) {
		limiter := NewLoginRateLimiter(nil)

		for i := 0; i < loginMaxAttempts; i++ {
			limiter.isAllowedMemory("10.0.0.1")
		}
		assert.False(t, limiter.isAllowedMemory("10.0.0.1"))
		assert.True(t, limiter.isAllowedMemory("10.0.0.2"))
	})

	t.Run("window expiry resets the count", func(t *testing.T) {
		limiter := NewLoginRateLimiter(nil)

		for i := 0; i < loginMaxAttempts; i++ {
			limiter.isAllowedMemory("10.0.0.1")
		}
		assert.False(t, limiter.isAllowedMemory("10.0.0.1"))

		limiter.mu.Lock()
		limiter.attempts["10.0.0.1"].windowStart = time.Now().Add(-2 * loginWindowDuration)
		limiter.mu.Unlock()

		assert.True(t, limiter.isAllowedMemory("10.0.0.1"))
	})
}

func TestLoginRateLimiterHandler(t *testing.T) {
	t.Run("blocked request answers 429 with Retry-After", func(t *testing.T) {
		limiter := NewLoginRateLimiter(nil)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		var rec *httptest.ResponseRecorder
		for i := 0; i <= loginMaxAttempts; i++ {
			req := httptest.NewRequest(http.MethodPost, "/admin/api/login", nil)
			req.RemoteAddr = "10.0.0.3:51234"
			rec = httptest.NewRecorder()
			limiter.Handler(next).ServeHTTP(rec, req)
		}

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	})

	t.Run("X-Forwarded-For takes precedence over the peer address", func(t *testing.T) {
		limiter := NewLoginRateLimiter(nil)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		for i := 0; i < loginMaxAttempts; i++ {
			req := httptest.NewRequest(http.MethodPost, "/admin/api/login", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.9")
			req.RemoteAddr = "10.0.0.4:51234"
			rec := httptest.NewRecorder()
			limiter.Handler(next).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}

		// Same proxy, different client: still allowed.
		req := httptest.NewRequest(http.MethodPost, "/admin/api/login", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.10")
		req.RemoteAddr = "10.0.0.4:51234"
		rec := httptest.NewRecorder()
		limiter.Handler(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
