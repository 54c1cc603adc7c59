package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	err error
}

func (s *stubService) Run(ctx context.Context, input string) (string, error) {
	return input, s.err
}

func counterValue(t *testing.T, m *Metrics, service string, outcome string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, m.runs.WithLabelValues(service, outcome).Write(metric))
	return metric.GetCounter().GetValue()
}

func TestRunsAreCountedByOutcome(t *testing.T) {
	m := New(prometheus.NewRegistry())
	inner := &stubService{}
	service := WithMetrics[string, string](m, "stub", inner)

	result, err := service.Run(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, "a", result)

	inner.err = errors.New("boom")
	_, err = service.Run(context.Background(), "b")
	require.Error(t, err)

	inner.err = context.Canceled
	_, err = service.Run(context.Background(), "c")
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, float64(1), counterValue(t, m, "stub", OutcomeSuccess))
	require.Equal(t, float64(1), counterValue(t, m, "stub", OutcomeError))
	require.Equal(t, float64(1), counterValue(t, m, "stub", OutcomeCanceled))
}
