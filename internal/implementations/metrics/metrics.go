package metrics

import (
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/services"
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

type Metrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		panic(e.NewNilArgumentError("registerer"))
	}
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aiexchange",
				Name:      "service_runs_total",
				Help:      "Number of service runs by service and outcome.",
			},
			[]string{"service", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "aiexchange",
				Name:      "service_run_duration_seconds",
				Help:      "Service run latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service"},
		),
	}
	registerer.MustRegister(m.runs, m.duration)
	return m
}

type service[T any, S any] struct {
	metrics *Metrics
	name    string
	inner   services.Service[T, S]
}

func WithMetrics[T any, S any](m *Metrics, name string, inner services.Service[T, S]) services.Service[T, S] {
	if m == nil {
		panic(e.NewNilArgumentError("m"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{metrics: m, name: name, inner: inner}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	startedAt := time.Now()
	result, err = s.inner.Run(ctx, input)
	s.metrics.duration.WithLabelValues(s.name).Observe(time.Since(startedAt).Seconds())
	s.metrics.runs.WithLabelValues(s.name, outcome(err)).Inc()
	return result, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}
