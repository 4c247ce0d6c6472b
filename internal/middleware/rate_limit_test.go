package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, rps float64, burst int) *RateLimiter {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewRateLimiter(ctx, rps, burst)
}

func TestRateLimiter_BurstExhaustion(t *testing.T) {
	rl := newTestLimiter(t, 2, 2)

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:1234"

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("request %d: expected 200, got %d", i+1, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", rr.Code)
	}
}

func TestRateLimiter_PerClientBuckets(t *testing.T) {
	rl := newTestLimiter(t, 1, 1)

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send("192.168.1.1:1234"); code != http.StatusOK {
		t.Errorf("client 1 first request: expected 200, got %d", code)
	}
	if code := send("192.168.1.2:1234"); code != http.StatusOK {
		t.Errorf("client 2 first request: expected 200, got %d", code)
	}
	if code := send("192.168.1.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("client 1 second request: expected 429, got %d", code)
	}
}

func TestRateLimiter_SourcePortDoesNotSplitBucket(t *testing.T) {
	rl := newTestLimiter(t, 1, 1)

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Same IP, different ephemeral ports: one bucket.
	first := httptest.NewRequest("GET", "/test", nil)
	first.RemoteAddr = "192.168.1.1:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, first)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	second := httptest.NewRequest("GET", "/test", nil)
	second.RemoteAddr = "192.168.1.1:9999"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, second)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 from a new port, got %d", rr.Code)
	}
}

func TestRateLimiter_CleanupRemovesIdleBuckets(t *testing.T) {
	rl := newTestLimiter(t, 10, 1)

	for i := 0; i < 100; i++ {
		rl.allow(fmt.Sprintf("192.168.1.%d", i))
	}

	rl.mu.Lock()
	if len(rl.limiters) != 100 {
		t.Fatalf("expected 100 limiters, got %d", len(rl.limiters))
	}
	oldTime := time.Now().Add(-20 * time.Minute)
	for key := range rl.limiters {
		rl.limiters[key].lastAccess = oldTime
	}
	rl.mu.Unlock()

	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.limiters) != 0 {
		t.Errorf("expected 0 limiters after cleanup, got %d", len(rl.limiters))
	}
}

func TestRateLimiter_EvictionKeepsMapBounded(t *testing.T) {
	rl := newTestLimiter(t, 10, 1)

	for i := 0; i < maxLimiters+5000; i++ {
		rl.allow(fmt.Sprintf("ip-%d", i))
	}

	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.limiters) > maxLimiters {
		t.Errorf("expected at most %d limiters, got %d", maxLimiters, len(rl.limiters))
	}
}

func TestRateLimiter_ConcurrentAccess(t *testing.T) {
	rl := newTestLimiter(t, 100, 10)

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				req := httptest.NewRequest("GET", "/test", nil)
				req.RemoteAddr = fmt.Sprintf("192.168.1.%d:1234", id)
				rr := httptest.NewRecorder()
				handler.ServeHTTP(rr, req)
			}
		}(i)
	}
	wg.Wait()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.limiters) == 0 {
		t.Error("expected limiters to be created")
	}
}
