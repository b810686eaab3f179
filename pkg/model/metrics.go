package model

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts solver rounds and models per uniqueness mode. A nil
// *Metrics records nothing.
type Metrics struct {
	rounds        *prometheus.CounterVec
	models        *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
}

func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		rounds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grninfer_rounds_total",
				Help: "Total number of solver rounds",
			},
			[]string{"uniqueness"},
		),
		models: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grninfer_models_total",
				Help: "Total number of models found",
			},
			[]string{"uniqueness"},
		),
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "grninfer_solve_duration_seconds",
				Help:    "Duration of solver rounds",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"uniqueness"},
		),
	}
	for _, collector := range []prometheus.Collector{metrics.rounds, metrics.models, metrics.solveDuration} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return metrics, nil
}

func (metrics *Metrics) observeRound(uniqueness Uniqueness, found bool, elapsed time.Duration) {
	if metrics == nil {
		return
	}
	label := uniqueness.String()
	metrics.rounds.WithLabelValues(label).Inc()
	metrics.solveDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	if found {
		metrics.models.WithLabelValues(label).Inc()
	}
}
