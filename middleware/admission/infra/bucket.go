package infra

import "golang.org/x/time/rate"

// Throttle é um guarda global de sobrecarga: um único token bucket para
// o processo inteiro, independente de chave. Ele complementa o contador
// por (cliente, rota) segurando rajadas agregadas de muitos clientes ao
// mesmo tempo.
type Throttle struct {
	lim *rate.Limiter
}

func NewThrottle(rps float64, burst int) *Throttle {
	return &Throttle{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Allow consome um token. Throttle nulo permite tudo.
func (t *Throttle) Allow() bool {
	if t == nil || t.lim == nil {
		return true
	}
	return t.lim.Allow()
}

func (t *Throttle) RPS() float64 { return float64(t.lim.Limit()) }
func (t *Throttle) Burst() int   { return t.lim.Burst() }
