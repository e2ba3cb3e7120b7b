package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_TokenBucket(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewLimiter(Config{RequestsPerMinute: 2})
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow("a"); !ok {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	ok, wait := rl.Allow("a")
	if ok {
		t.Fatal("third request should be limited")
	}
	if wait < 29*time.Second || wait > 30*time.Second {
		t.Fatalf("retry after %v, want about 30s", wait)
	}
	if ok, _ := rl.Allow("b"); !ok {
		t.Fatal("other clients are independent")
	}

	// A refused request does not consume a token.
	now = now.Add(31 * time.Second)
	if ok, _ := rl.Allow("a"); !ok {
		t.Fatal("refilled token should be available")
	}
	if ok, _ := rl.Allow("a"); ok {
		t.Fatal("only one token refills in 31s")
	}
}

func TestLimiter_CleanupForgetsIdleClients(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewLimiter(Config{RequestsPerMinute: 5})
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	rl.Allow("b")
	now = now.Add(9 * time.Minute)
	rl.Allow("b")
	if n := rl.Cleanup(); n != 0 || rl.ActiveClients() != 2 {
		t.Fatalf("cleanup removed %d, %d left", n, rl.ActiveClients())
	}

	now = now.Add(2 * time.Minute)
	if n := rl.Cleanup(); n != 1 || rl.ActiveClients() != 1 {
		t.Fatalf("cleanup removed %d, %d left", n, rl.ActiveClients())
	}
}

func TestMiddleware_OnlyMutatingRequests(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1})
	h := rl.Middleware(func(*http.Request) string { return "ip" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("GET limited: %d", rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("first POST: %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/sessions/x", nil))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second mutating request: %d", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("Retry-After %q, want 60", got)
	}
}
