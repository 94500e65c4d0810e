package application

import "security-gateway/middleware/admission/domain"

// RequestInfo reúne os insumos da decisão, já extraídos do transporte.
type RequestInfo struct {
	Key       domain.Key
	UserAgent string
	Path      string
	RawQuery  string

	// Headers carrega apenas os headers listados em InjectionHeaders.
	Headers map[string]string
}

// Service encadeia as etapas de admissão: rate limit, classificação e
// validação, nesta ordem. A primeira etapa que negar curto-circuita as
// seguintes.
type Service struct {
	Rate       RateService
	Classifier *Classifier
	Validator  *Validator
}

func (s Service) Decide(req RequestInfo) domain.Decision {
	rd := s.Rate.Check(req.Key)
	if !rd.Allowed {
		return domain.Decision{Reason: domain.ReasonRateLimited, Rate: rd}
	}

	dec := domain.Decision{Allowed: true, Rate: rd}

	if s.Classifier != nil {
		dec.Classification = s.Classifier.Classify(req.UserAgent)
		if dec.Classification.Blocked {
			dec.Allowed = false
			dec.Reason = domain.ReasonBotBlocked
			return dec
		}
	}

	if s.Validator != nil {
		dec.Validation = s.Validator.Validate(req.Path, req.RawQuery, req.Headers)
		if !dec.Validation.Valid {
			dec.Allowed = false
			dec.Reason = domain.ReasonValidationFailed
			return dec
		}
	}

	return dec
}
