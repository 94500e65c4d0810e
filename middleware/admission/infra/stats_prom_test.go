package infra

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"security-gateway/middleware/admission/domain"
)

func TestPromStatsStore_CountsDecisions(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := NewPromStatsStore(reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_ = s.Record(context.Background(), domain.StatsEvent{Allowed: true})
	_ = s.Record(context.Background(), domain.StatsEvent{Allowed: false, Reason: domain.ReasonRateLimited})
	_ = s.Record(context.Background(), domain.StatsEvent{Allowed: false, Reason: domain.ReasonRateLimited})

	allowed := testutil.ToFloat64(s.decisions.WithLabelValues("allowed", ""))
	if allowed != 1 {
		t.Fatalf("expected 1 allowed, got %v", allowed)
	}
	denied := testutil.ToFloat64(s.decisions.WithLabelValues("denied", "rate_limited"))
	if denied != 2 {
		t.Fatalf("expected 2 denied rate_limited, got %v", denied)
	}
}

func TestNewPromStatsStore_FailsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromStatsStore(reg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewPromStatsStore(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
