package admission

import (
	"net"
	"net/http"
	"strings"
	"time"

	"security-gateway/middleware/admission/application"
	"security-gateway/middleware/admission/domain"
)

type KeyFunc func(r *http.Request) string

type Options struct {
	Store      domain.WindowStore
	Stats      domain.StatsStore
	Classifier *application.Classifier
	Validator  *application.Validator
	Headers    *HeaderPolicy

	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool

	AddRateLimitHeaders bool

	// SupportContact aparece no corpo problem+json dos bloqueios 403.
	SupportContact string
}

func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				parts := strings.Split(xff, ",")
				if len(parts) > 0 {
					ip := strings.TrimSpace(parts[0])
					if ip != "" {
						return ip
					}
				}
			}
		}

		// fallback: RemoteAddr
		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// Middleware monta o adapter HTTP do pipeline de admissão.
//
// Toda resposta (admitida ou negada) sai com o pacote de headers de
// segurança quando Headers está configurado. Preflight OPTIONS com
// Origin é respondido aqui mesmo com 204 e nunca chega ao próximo
// handler — mas conta no rate limit como qualquer requisição.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}
	if opts.Classifier == nil {
		opts.Classifier = application.NewClassifier(nil)
	}
	if opts.Validator == nil {
		opts.Validator = application.NewValidator(nil)
	}
	if opts.SupportContact == "" {
		opts.SupportContact = "abuse@example.com"
	}

	svc := application.Service{
		Rate:       application.RateService{Store: opts.Store},
		Classifier: opts.Classifier,
		Validator:  opts.Validator,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Headers != nil {
				opts.Headers.Apply(w.Header(), r.Header.Get("Origin"))
			}

			if r.URL == nil {
				// entrada malformada degrada para a decisão mais
				// conservadora: nunca passa adiante sem checagem
				writeValidationFailed(w, domain.ValidationResult{
					Rule:     "malformed-url",
					Location: domain.LocationURL,
				})
				return
			}

			key := domain.Key{Client: opts.KeyFn(r), Route: r.URL.Path}

			dec := svc.Decide(application.RequestInfo{
				Key:       key,
				UserAgent: r.UserAgent(),
				Path:      r.URL.Path,
				RawQuery:  r.URL.RawQuery,
				Headers:   injectionHeaderValues(r),
			})

			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     key,
					Allowed: dec.Allowed,
					Reason:  dec.Reason,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}

			if !dec.Allowed {
				switch dec.Reason {
				case domain.ReasonRateLimited:
					writeRateLimited(w, dec.Rate)
				case domain.ReasonBotBlocked:
					writeBotBlocked(w, dec.Classification, opts.SupportContact)
				default:
					writeValidationFailed(w, dec.Validation)
				}
				return
			}

			if opts.AddRateLimitHeaders {
				applyRateHeaders(w.Header(), dec.Rate)
			}

			// preflight não precisa do upstream: o pacote de headers já
			// responde tudo que o navegador quer saber
			if r.Method == http.MethodOptions && r.Header.Get("Origin") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// injectionHeaderValues extrai os headers que o validador verifica.
func injectionHeaderValues(r *http.Request) map[string]string {
	vals := make(map[string]string, len(application.InjectionHeaders))
	for _, name := range application.InjectionHeaders {
		if name == "Host" {
			// Host não fica em r.Header; net/http o promove para r.Host
			if r.Host != "" {
				vals[name] = r.Host
			}
			continue
		}
		if v := r.Header.Get(name); v != "" {
			vals[name] = v
		}
	}
	return vals
}
