package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, rps float64, burst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(context.Background(), rps, burst)
	t.Cleanup(rl.Stop)
	return rl
}

func limitedHandler(rl *RateLimiter) http.Handler {
	return rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimiter_BasicFunctionality(t *testing.T) {
	h := limitedHandler(newTestLimiter(t, 2, 2))

	assert.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1234").Code)
	assert.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1234").Code)

	rr := hit(h, "192.168.1.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "Rate limit exceeded")
}

func TestRateLimiter_SharesBucketAcrossPorts(t *testing.T) {
	h := limitedHandler(newTestLimiter(t, 1, 1))

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:2222").Code)
}

func TestRateLimiter_PerIPLimiting(t *testing.T) {
	h := limitedHandler(newTestLimiter(t, 1, 1))

	assert.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1234").Code)
	assert.Equal(t, http.StatusOK, hit(h, "192.168.1.2:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "192.168.1.1:1234").Code)
}

func TestRateLimiter_CleanupRemovesIdleLimiters(t *testing.T) {
	rl := newTestLimiter(t, 10, 10)
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("192.168.1.1")
	now = now.Add(limiterTTL / 2)
	rl.getLimiter("192.168.1.2")
	now = now.Add(limiterTTL/2 + time.Minute)

	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	_, idleKept := rl.limiters["192.168.1.1"]
	_, activeKept := rl.limiters["192.168.1.2"]
	assert.False(t, idleKept)
	assert.True(t, activeKept)
}

func TestRateLimiter_LRUEviction(t *testing.T) {
	rl := newTestLimiter(t, 10, 10)
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < maxLimiters+10; i++ {
		now = now.Add(time.Millisecond)
		rl.getLimiter(fmt.Sprintf("10.%d.%d.%d", i>>16&0xff, i>>8&0xff, i&0xff))
	}

	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Equal(t, maxLimiters/2, len(rl.limiters))
	_, newestKept := rl.limiters[fmt.Sprintf("10.%d.%d.%d", (maxLimiters+9)>>16&0xff, (maxLimiters+9)>>8&0xff, (maxLimiters+9)&0xff)]
	assert.True(t, newestKept)
}

func TestRateLimiter_ConcurrentAccess(t *testing.T) {
	h := limitedHandler(newTestLimiter(t, 1000, 1000))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hit(h, fmt.Sprintf("172.16.0.%d:80", i%5))
		}(i)
	}
	wg.Wait()
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(context.Background(), 1, 1)
	rl.Stop()
	require.NotPanics(t, rl.Stop)
}

func TestRateLimiter_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rl := NewRateLimiter(ctx, 1, 1)
	cancel()

	// The middleware keeps working after the cleanup loop has exited.
	assert.Equal(t, http.StatusOK, hit(limitedHandler(rl), "192.168.9.9:1").Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::1]:5050"
	assert.Equal(t, "::1", clientIP(req))

	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
