package infra

import "testing"

func TestThrottle_LowBurstRejectsSecondImmediateAllow(t *testing.T) {
	th := NewThrottle(0.02, 1)

	if !th.Allow() {
		t.Fatalf("expected first Allow to be true")
	}
	if th.Allow() {
		t.Fatalf("expected second immediate Allow to be false (burst=1)")
	}
}

func TestThrottle_NilAllowsEverything(t *testing.T) {
	var th *Throttle
	if !th.Allow() {
		t.Fatalf("expected nil throttle to allow")
	}
}
