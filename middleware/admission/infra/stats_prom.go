package infra

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"security-gateway/middleware/admission/domain"
)

// PromStatsStore publica as decisões de admissão como métricas
// Prometheus.
//
// Só resultado e motivo viram labels; chave e rota ficam de fora de
// propósito para não explodir a cardinalidade das séries.
type PromStatsStore struct {
	decisions *prometheus.CounterVec
}

func NewPromStatsStore(reg prometheus.Registerer) (*PromStatsStore, error) {
	s := &PromStatsStore{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_admission_decisions_total",
				Help: "Total number of admission decisions by result and deny reason",
			},
			[]string{"result", "reason"},
		),
	}
	if err := reg.Register(s.decisions); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PromStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	result := "denied"
	if ev.Allowed {
		result = "allowed"
	}
	s.decisions.WithLabelValues(result, string(ev.Reason)).Inc()
	return nil
}
