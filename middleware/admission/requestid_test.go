package admission

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	})
	h := RequestID(next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example/", nil))

	if seen == "" {
		t.Fatalf("expected generated id propagated to next handler")
	}
	if got := w.Header().Get(RequestIDHeader); got != seen {
		t.Fatalf("expected response id %q to match request id %q", got, seen)
	}
}

func TestRequestID_EchoesExistingID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := RequestID(next)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got := w.Header().Get(RequestIDHeader); got != "req-123" {
		t.Fatalf("expected echoed id, got %q", got)
	}
}
