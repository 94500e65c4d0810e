package application

import (
	"testing"
	"time"

	"security-gateway/middleware/admission/domain"
)

type fakeWindowStore struct {
	dec   domain.RateDecision
	taken []domain.Key
}

func (s *fakeWindowStore) Take(k domain.Key) domain.RateDecision {
	s.taken = append(s.taken, k)
	return s.dec
}

func TestRateService_Check_AllowsWhenNoStore(t *testing.T) {
	svc := RateService{}
	dec := svc.Check(domain.Key{Client: "10.0.0.1", Route: "/"})
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
}

func TestRateService_Check_DelegatesToStore(t *testing.T) {
	store := &fakeWindowStore{dec: domain.RateDecision{Allowed: false, RetryAfter: 3 * time.Second}}
	svc := RateService{Store: store}

	key := domain.Key{Client: "10.0.0.1", Route: "/api/lead"}
	dec := svc.Check(key)
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 3*time.Second {
		t.Fatalf("expected RetryAfter=3s, got %s", dec.RetryAfter)
	}
	if len(store.taken) != 1 || store.taken[0] != key {
		t.Fatalf("expected store.Take to receive the key once, got %v", store.taken)
	}
}

func TestService_Decide_RateLimitShortCircuits(t *testing.T) {
	store := &fakeWindowStore{dec: domain.RateDecision{Allowed: false, RetryAfter: 1 * time.Second}}
	svc := Service{
		Rate:       RateService{Store: store},
		Classifier: NewClassifier(nil),
		Validator:  NewValidator(nil),
	}

	dec := svc.Decide(RequestInfo{
		Key:       domain.Key{Client: "10.0.0.1", Route: "/api/lead"},
		UserAgent: "sqlmap/1.7", // nunca deve ser avaliado
	})
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.Reason != domain.ReasonRateLimited {
		t.Fatalf("expected reason rate_limited, got %q", dec.Reason)
	}
	if dec.Classification.Verdict != "" {
		t.Fatalf("expected classifier to be skipped, got verdict %q", dec.Classification.Verdict)
	}
}

func TestService_Decide_BotBlockedBeforeValidation(t *testing.T) {
	svc := Service{
		Classifier: NewClassifier(nil),
		Validator:  NewValidator(nil),
	}

	dec := svc.Decide(RequestInfo{
		Key:       domain.Key{Client: "10.0.0.1", Route: "/api/lead"},
		UserAgent: "sqlmap/1.7",
		Path:      "/../etc/passwd", // também seria inválido, mas o bot decide antes
	})
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.Reason != domain.ReasonBotBlocked {
		t.Fatalf("expected reason bot_blocked, got %q", dec.Reason)
	}
}

func TestService_Decide_ValidationFailure(t *testing.T) {
	svc := Service{
		Classifier: NewClassifier(nil),
		Validator:  NewValidator(nil),
	}

	dec := svc.Decide(RequestInfo{
		Key:       domain.Key{Client: "10.0.0.1", Route: "/api/lead"},
		UserAgent: "Mozilla/5.0",
		Path:      "/../etc/passwd",
	})
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.Reason != domain.ReasonValidationFailed {
		t.Fatalf("expected reason validation_failed, got %q", dec.Reason)
	}
	if dec.Validation.Location != domain.LocationURL {
		t.Fatalf("expected violation in url, got %q", dec.Validation.Location)
	}
}

func TestService_Decide_AllowsCleanRequest(t *testing.T) {
	store := &fakeWindowStore{dec: domain.RateDecision{Allowed: true, Limit: 2000, Remaining: 1999}}
	svc := Service{
		Rate:       RateService{Store: store},
		Classifier: NewClassifier(nil),
		Validator:  NewValidator(nil),
	}

	dec := svc.Decide(RequestInfo{
		Key:       domain.Key{Client: "10.0.0.1", Route: "/api/lead"},
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64)",
		Path:      "/api/lead",
		RawQuery:  "source=landing",
	})
	if !dec.Allowed {
		t.Fatalf("expected allowed, got reason %q", dec.Reason)
	}
	if dec.Reason != domain.ReasonNone {
		t.Fatalf("expected empty reason, got %q", dec.Reason)
	}
	if dec.Classification.Verdict != domain.VerdictHuman {
		t.Fatalf("expected human verdict, got %q", dec.Classification.Verdict)
	}
	if dec.Rate.Remaining != 1999 {
		t.Fatalf("expected remaining=1999, got %d", dec.Rate.Remaining)
	}
}
