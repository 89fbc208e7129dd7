package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewStageMetrics(t *testing.T) {
	m, err := NewStageMetrics()
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.NotPanics(t, func() {
		m.RecordStart(context.Background(), "extract")
		m.RecordFinish(context.Background(), "extract", "", time.Second)
		m.RecordStart(context.Background(), "generate")
		m.RecordFinish(context.Background(), "generate", "upstream", time.Millisecond)
	})
}

func TestNewStageMetricsWithMeter(t *testing.T) {
	m, err := NewStageMetricsWithMeter(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestNilStageMetrics(t *testing.T) {
	var m *StageMetrics
	assert.NotPanics(t, func() {
		m.RecordStart(context.Background(), "extract")
		m.RecordFinish(context.Background(), "extract", "validation", 0)
	})
}
