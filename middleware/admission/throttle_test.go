package admission

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"security-gateway/middleware/admission/infra"
)

func TestThrottleMiddleware_RejectsWhenOverBudget(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := ThrottleMiddleware(ThrottleOptions{
		Throttle:   infra.NewThrottle(0.02, 1),
		RetryAfter: 2 * time.Second,
	})(next)

	r1 := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}

	r2 := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w2.Code)
	}
	if got := w2.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("expected Retry-After=2, got %q", got)
	}
	if ct := w2.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected problem body, got %q", ct)
	}
}

func TestThrottleMiddleware_NoThrottleIsPassthrough(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	})
	h := ThrottleMiddleware(ThrottleOptions{})(next)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example/", nil))
	if calls != 1 {
		t.Fatalf("expected passthrough, next called %d times", calls)
	}
}
