package admission

import (
	"net/http"
	"time"

	"security-gateway/middleware/admission/infra"
)

type ThrottleOptions struct {
	Throttle     *infra.Throttle
	RejectStatus int
	RetryAfter   time.Duration
}

// ThrottleMiddleware aplica o guarda global de sobrecarga. Diferente do
// rate limit por chave, a negação aqui é 503: o problema é o processo
// inteiro estar acima do orçamento, não o comportamento de um cliente.
func ThrottleMiddleware(opts ThrottleOptions) func(next http.Handler) http.Handler {
	if opts.Throttle == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = 1 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !opts.Throttle.Allow() {
				w.Header().Set("Retry-After", formatSeconds(opts.RetryAfter))
				writeProblem(w, opts.RejectStatus, problemBody{
					Title:  "Service Unavailable",
					Detail: "service is over capacity, try again shortly",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
