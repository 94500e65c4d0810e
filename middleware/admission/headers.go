package admission

import (
	"net/http"

	"security-gateway/middleware/admission/application"
	"security-gateway/middleware/admission/domain"
)

// securityHeaders são fixos por processo e valem para toda resposta,
// admitida ou negada.
var securityHeaders = map[string]string{
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"X-XSS-Protection":          "1; mode=block",
	"Referrer-Policy":           "strict-origin-when-cross-origin",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains; preload",
	"Permissions-Policy":        "camera=(), microphone=(), geolocation=(), payment=()",
}

// HeaderPolicy monta o pacote de headers que acompanha toda resposta:
// headers estáticos de segurança, o CSP pré-montado e os headers CORS
// com a origem resolvida contra a allow-list.
//
// Credenciais CORS ficam desabilitadas de propósito; em conjunto com o
// fallback do resolver, nunca ecoamos curinga aberto.
type HeaderPolicy struct {
	resolver *application.OriginResolver
	csp      string
}

func NewHeaderPolicy(origins []string, csp CSPConfig) (*HeaderPolicy, error) {
	resolver, err := application.NewOriginResolver(origins)
	if err != nil {
		return nil, err
	}
	return &HeaderPolicy{resolver: resolver, csp: csp.String()}, nil
}

// Apply escreve o pacote de headers. A origem vem do header Origin da
// requisição (pode ser vazia).
func (p *HeaderPolicy) Apply(h http.Header, origin string) {
	for k, v := range securityHeaders {
		h.Set(k, v)
	}
	h.Set("Content-Security-Policy", p.csp)

	h.Set("Access-Control-Allow-Origin", p.resolver.Resolve(origin))
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
	h.Set("Access-Control-Max-Age", "86400")
	h.Add("Vary", "Origin")
}

// applyRateHeaders escreve a telemetria do rate limit.
func applyRateHeaders(h http.Header, rd domain.RateDecision) {
	h.Set("X-RateLimit-Limit", formatInt(rd.Limit))
	h.Set("X-RateLimit-Remaining", formatInt(rd.Remaining))
	h.Set("X-RateLimit-Reset", formatUnix(rd.Reset))
}
