package admission

import (
	"encoding/json"
	"net/http"
	"time"

	"security-gateway/middleware/admission/domain"
)

const problemContentType = "application/problem+json"

// problemBody segue o formato problem-detail (RFC 7807): type/title/
// status/detail legíveis por máquina, mais extensões próprias de cada
// motivo de negação.
type problemBody struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`

	RetryAfter int    `json:"retryAfter,omitempty"`
	ResetTime  string `json:"resetTime,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Contact    string `json:"contact,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, body problemBody) {
	body.Status = status
	if body.Type == "" {
		body.Type = "about:blank"
	}
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeRateLimited(w http.ResponseWriter, rd domain.RateDecision) {
	w.Header().Set("Retry-After", formatSeconds(rd.RetryAfter))
	applyRateHeaders(w.Header(), rd)
	writeProblem(w, http.StatusTooManyRequests, problemBody{
		Title:      "Too Many Requests",
		Detail:     "rate limit exceeded for this route",
		RetryAfter: int(rd.RetryAfter / time.Second),
		ResetTime:  rd.Reset.UTC().Format(time.RFC3339),
	})
}

func writeBotBlocked(w http.ResponseWriter, cls domain.Classification, contact string) {
	w.Header().Set("X-Block-Type", string(cls.Verdict))

	reason := "client signature not allowed"
	switch cls.Verdict {
	case domain.VerdictSuspicious:
		reason = "user agent is empty or too short"
	case domain.VerdictBlockedBot:
		reason = "user agent matched blocked pattern: " + cls.Pattern
	}

	writeProblem(w, http.StatusForbidden, problemBody{
		Title:   "Forbidden",
		Detail:  "request blocked by client classification",
		Reason:  reason,
		Contact: contact,
	})
}

func writeValidationFailed(w http.ResponseWriter, vr domain.ValidationResult) {
	w.Header().Set("X-Security-Violation", string(vr.Location))

	reason := "request matched signature " + vr.Rule
	if vr.Location == domain.LocationHeader && vr.Header != "" {
		reason += " in header " + vr.Header
	}

	writeProblem(w, http.StatusBadRequest, problemBody{
		Title:  "Bad Request",
		Detail: "request failed security validation",
		Reason: reason,
	})
}
