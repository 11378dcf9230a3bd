package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter_AllowWithinWindow(t *testing.T) {
	rl := NewIPRateLimiter(2, time.Minute)
	defer rl.Close()

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"), "other IPs have their own bucket")
}

func TestIPRateLimiter_WindowResets(t *testing.T) {
	rl := NewIPRateLimiter(1, time.Minute)
	defer rl.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("ip"))
	assert.False(t, rl.Allow("ip"))
	assert.Equal(t, 61, rl.RetryAfterSeconds("ip"))

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("ip"))

	now = now.Add(2 * time.Minute)
	rl.cleanup()
	assert.Equal(t, 0, rl.RetryAfterSeconds("ip"))
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	rl := NewIPRateLimiter(1, time.Minute)
	defer rl.Close()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/google-reviews", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestIPRateLimiter_SkipLocalRequests(t *testing.T) {
	rl := NewIPRateLimiter(1, time.Minute).SkipLocalRequests()
	defer rl.Close()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, addr := range []string{"127.0.0.1:5555", "[::1]:5555"} {
		req := httptest.NewRequest(http.MethodGet, "/api/google-reviews", nil)
		req.RemoteAddr = addr
		for range 3 {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusNoContent, rec.Code, addr)
		}
	}

	// proxy arkasındaki gerçek istemci sayılır
	req := httptest.NewRequest(http.MethodGet, "/api/google-reviews", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	req.Header.Set("X-Forwarded-For", "5.5.5.5")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestIPRateLimiter_ForgedLoopbackHeaderIsCounted(t *testing.T) {
	rl := NewIPRateLimiter(1, time.Minute).SkipLocalRequests()
	defer rl.Close()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, header := range []string{"X-Forwarded-For", "X-Real-IP"} {
		req := httptest.NewRequest(http.MethodGet, "/api/google-reviews", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set(header, "127.0.0.1")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code, header)

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code, header)

		rl.mu.Lock()
		delete(rl.buckets, "127.0.0.1")
		rl.mu.Unlock()
	}
}

func TestIPRateLimiter_LoopbackCountedWithoutSkip(t *testing.T) {
	rl := NewIPRateLimiter(1, time.Minute)
	defer rl.Close()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", nil)
	req.RemoteAddr = "127.0.0.1:5555"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestExtractIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ExtractIP(req))

	req.Header.Set("X-Real-IP", "3.3.3.3")
	assert.Equal(t, "3.3.3.3", ExtractIP(req))

	req.Header.Set("X-Forwarded-For", "4.4.4.4, 10.0.0.2")
	assert.Equal(t, "4.4.4.4", ExtractIP(req))
}

func TestFormatRetryMessage(t *testing.T) {
	assert.Equal(t, "2 minute(s)", FormatRetryMessage(125))
	assert.Equal(t, "45 second(s)", FormatRetryMessage(45))
}
