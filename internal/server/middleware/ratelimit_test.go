package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, setupTestLogger())
	defer rl.Stop()

	// Первые rate запросов проходят
	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d should be allowed", i+1)
	}

	// Следующий отклоняется
	assert.False(t, rl.Allow("10.0.0.1"))

	// Другой ключ имеет собственный bucket
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiter_RefillAfterWindow(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond, setupTestLogger())
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	// После окна токены пополняются
	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.Allow("10.0.0.1"))
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimitMiddleware(2, time.Minute, setupTestLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	doRequest := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, doRequest().Code)
	assert.Equal(t, http.StatusOK, doRequest().Code)

	w := doRequest()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestRateLimitMiddleware_PerClientBuckets(t *testing.T) {
	handler := RateLimitMiddleware(1, time.Minute, setupTestLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
		req.RemoteAddr = fmt.Sprintf("10.0.0.%d:5000", i)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitByPathMiddleware(t *testing.T) {
	limits := []PathRateLimit{
		{Path: "/api/v1/auth/login", Rate: 1, Window: time.Minute},
	}

	handler := RateLimitByPathMiddleware(limits, 10, time.Minute, setupTestLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	doRequest := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	// Login лимитируется жестче
	assert.Equal(t, http.StatusOK, doRequest("/api/v1/auth/login").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest("/api/v1/auth/login").Code)

	// Остальные пути живут на дефолтном лимите
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doRequest("/api/v1/leads").Code)
	}
}

func TestRateLimiter_CleanupOldBuckets(t *testing.T) {
	rl := NewRateLimiter(5, 10*time.Millisecond, setupTestLogger())
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")

	rl.mu.RLock()
	assert.Len(t, rl.buckets, 2)
	rl.mu.RUnlock()

	// После 2*window неактивные buckets удаляются
	time.Sleep(30 * time.Millisecond)
	rl.cleanupOldBuckets()

	rl.mu.RLock()
	assert.Empty(t, rl.buckets)
	rl.mu.RUnlock()
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "10.0.0.1:5000",
			expected:   "10.0.0.1:5000",
		},
		{
			name:       "x-forwarded-for single",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			remoteAddr: "10.0.0.1:5000",
			expected:   "203.0.113.7",
		},
		{
			name:       "x-forwarded-for list takes first",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			remoteAddr: "10.0.0.1:5000",
			expected:   "203.0.113.7",
		},
		{
			name:       "x-real-ip",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			remoteAddr: "10.0.0.1:5000",
			expected:   "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}
