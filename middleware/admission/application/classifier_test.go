package application

import (
	"testing"

	"security-gateway/middleware/admission/domain"
)

func TestClassifier_AllowListWinsOverDenyList(t *testing.T) {
	c := NewClassifier(nil)

	// "scanner" está na deny-list, mas a entrada "googlebot" vem antes
	// e decide primeiro
	cls := c.Classify("Googlebot image scanner/2.1")
	if cls.Blocked {
		t.Fatalf("expected allowed, got blocked with pattern %q", cls.Pattern)
	}
	if cls.Verdict != domain.VerdictAllowedBot {
		t.Fatalf("expected allowed-bot, got %q", cls.Verdict)
	}
	if cls.Pattern != "googlebot" {
		t.Fatalf("expected pattern googlebot, got %q", cls.Pattern)
	}
}

func TestClassifier_BlocksDenyListMatch(t *testing.T) {
	c := NewClassifier(nil)

	cls := c.Classify("sqlmap/1.7.2#stable (http://sqlmap.org)")
	if !cls.Blocked {
		t.Fatalf("expected blocked")
	}
	if cls.Verdict != domain.VerdictBlockedBot {
		t.Fatalf("expected blocked-bot, got %q", cls.Verdict)
	}
	if cls.Pattern != "sqlmap" {
		t.Fatalf("expected offending pattern sqlmap, got %q", cls.Pattern)
	}
}

func TestClassifier_ShortUserAgentIsSuspicious(t *testing.T) {
	c := NewClassifier(nil)

	for _, ua := range []string{"", "a", "ab"} {
		cls := c.Classify(ua)
		if !cls.Blocked {
			t.Fatalf("expected %q to be blocked", ua)
		}
		if cls.Verdict != domain.VerdictSuspicious {
			t.Fatalf("expected suspicious-client for %q, got %q", ua, cls.Verdict)
		}
		if cls.Pattern != "" {
			t.Fatalf("expected empty pattern for %q, got %q", ua, cls.Pattern)
		}
	}
}

func TestClassifier_UnmatchedIsHuman(t *testing.T) {
	c := NewClassifier(nil)

	cls := c.Classify("Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	if cls.Blocked {
		t.Fatalf("expected allowed")
	}
	if cls.Verdict != domain.VerdictHuman {
		t.Fatalf("expected human, got %q", cls.Verdict)
	}
}

func TestClassifier_IsIdempotent(t *testing.T) {
	c := NewClassifier(nil)

	first := c.Classify("curl/8.5.0")
	second := c.Classify("curl/8.5.0")
	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	if first.Verdict != domain.VerdictAllowedBot {
		t.Fatalf("expected curl to be allowed-bot, got %q", first.Verdict)
	}
}

func TestClassifier_CustomSignaturesKeepOrder(t *testing.T) {
	c := NewClassifier([]Signature{
		{Pattern: "probe", Verdict: domain.VerdictAllowedBot},
		{Pattern: "probe", Verdict: domain.VerdictBlockedBot},
	})

	cls := c.Classify("internal-probe/1.0")
	if cls.Blocked {
		t.Fatalf("expected first entry to win, got blocked")
	}
}
