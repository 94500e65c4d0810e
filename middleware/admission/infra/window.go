package infra

import (
	"sync"
	"time"

	"security-gateway/middleware/admission/domain"
)

// Valores padrão do contador: 2000 requisições por janela de 15 minutos,
// por par (cliente, rota).
const (
	DefaultLimit  = 2000
	DefaultWindow = 15 * time.Minute
)

// WindowStore é um contador de janela fixa por chave, com varredura
// oportunista de entradas ociosas a cada Take e um janitor opcional
// para processos de vida longa.
//
// A janela NÃO é deslizante: o contador zera quando a janela corrente
// vence, nunca no meio dela.
//
// Consistência: Take inteiro roda sob um mutex, então os contadores são
// exatos mesmo sob requisições concorrentes do mesmo cliente.
type WindowStore struct {
	mu      sync.Mutex
	entries map[domain.Key]*windowEntry

	limit      int
	window     time.Duration
	clock      domain.Clock
	sweepEvery time.Duration
}

type windowEntry struct {
	count       int
	windowStart time.Time
	// lastSeen existe só para a varredura de ociosos
	lastSeen time.Time
}

type WindowOption func(*WindowStore)

// WithClock injeta um relógio para testes determinísticos.
func WithClock(c domain.Clock) WindowOption {
	return func(s *WindowStore) { s.clock = c }
}

// WithSweepEvery controla o intervalo do janitor (StartJanitor).
func WithSweepEvery(d time.Duration) WindowOption {
	return func(s *WindowStore) { s.sweepEvery = d }
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewWindowStore(limit int, window time.Duration, opts ...WindowOption) *WindowStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	s := &WindowStore{
		entries:    make(map[domain.Key]*windowEntry),
		limit:      limit,
		window:     window,
		clock:      systemClock{},
		sweepEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WindowStore) Limit() int            { return s.limit }
func (s *WindowStore) Window() time.Duration { return s.window }

// Take implementa domain.WindowStore.
func (s *WindowStore) Take(key domain.Key) domain.RateDecision {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)

	ent, ok := s.entries[key]
	if !ok {
		ent = &windowEntry{windowStart: now}
		s.entries[key] = ent
	}

	reset := ent.windowStart.Add(s.window)

	if ent.count >= s.limit {
		if now.Before(reset) {
			ent.lastSeen = now
			return domain.RateDecision{
				Limit:      s.limit,
				Remaining:  0,
				RetryAfter: ceilSeconds(reset.Sub(now)),
				Reset:      reset,
			}
		}
		// A janela venceu com o contador ainda no teto: zera e cai no
		// caminho de permissão. Sem este ramo, um cliente que parasse
		// exatamente pela duração da janela e voltasse ficaria negado
		// para sempre.
		ent.count = 0
		ent.windowStart = now
	} else if !now.Before(reset) {
		ent.count = 0
		ent.windowStart = now
	}

	ent.count++
	ent.lastSeen = now
	return domain.RateDecision{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit - ent.count,
		Reset:     ent.windowStart.Add(s.window),
	}
}

// Sweep remove entradas cujo lastSeen é mais velho que a janela. A
// mesma varredura roda dentro de cada Take; este método existe para o
// janitor e para testes.
func (s *WindowStore) Sweep() {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)
}

func (s *WindowStore) sweepLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// Len devolve o número de chaves vivas (útil em testes e diagnóstico).
func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor inicia uma goroutine que varre chaves ociosas periodicamente,
// para que a memória não cresça quando o tráfego para por completo.
// Pare cancelando o contexto.
func (s *WindowStore) StartJanitor(ctx DoneContext) {
	if s.sweepEvery <= 0 {
		return
	}

	t := time.NewTicker(s.sweepEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep()
			}
		}
	}()
}

// DoneContext é o mínimo necessário para aceitar context.Context sem importar context aqui.
// (Permite reuso em libs sem acoplar.)
type DoneContext interface {
	Done() <-chan struct{}
}

// ceilSeconds arredonda para cima em segundos inteiros, para que o
// Retry-After nunca seja zero enquanto ainda resta janela.
func ceilSeconds(d time.Duration) time.Duration {
	secs := d / time.Second
	if d%time.Second != 0 {
		secs++
	}
	return secs * time.Second
}
