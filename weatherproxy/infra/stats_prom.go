package infra

import (
	"context"

	"weather-gateway/weatherproxy/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas de aplicação expostas em /metrics.
var (
	reqServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weathergw",
		Subsystem: "policy",
		Name:      "requests_total",
		Help:      "Total de requisições atendidas, por fonte da resposta",
	},
		[]string{
			"source",
		})

	reqLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "weathergw",
		Subsystem: "policy",
		Name:      "rate_limited_total",
		Help:      "Total de requisições degradadas para payload demo por rate limit",
	})
)

// PromStatsStore implementa domain.StatsStore sobre contadores Prometheus.
//
// Sem estado próprio: os contadores são registrados no registry default e
// servidos pelo handler do promhttp montado em cmd/gateway.
type PromStatsStore struct{}

func NewPromStatsStore() *PromStatsStore { return &PromStatsStore{} }

func (s *PromStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	src := ev.Source
	if src == "" {
		src = "unknown"
	}
	reqServed.WithLabelValues(src).Inc()
	if ev.Limited {
		reqLimited.Inc()
	}
	return nil
}
