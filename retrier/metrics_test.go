package retrier

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestMetrics_AttemptsCounted(t *testing.T) {
	// Not parallel: reads package-level collectors.
	cfg := Config[struct{}, int]{
		Attempts: 3,
		Delay:    0,
		Name:     "metrics-attempts-test",
		Work: func(struct{}) (int, error) {
			return 0, errors.New("fail")
		},
	}

	_, ok, err := New(cfg).Run()
	require.NoError(t, err)
	require.False(t, ok)

	for attempt := 1; attempt <= 3; attempt++ {
		m := &dto.Metric{}
		counter, err := AttemptsTotal.GetMetricWithLabelValues("metrics-attempts-test", strconv.Itoa(attempt))
		require.NoError(t, err)
		require.NoError(t, counter.Write(m))
		assert.Equal(t, float64(1), m.GetCounter().GetValue())
	}
}

func TestMetrics_RunOutcomeCounted(t *testing.T) {
	// Not parallel: reads package-level collectors.
	cfg := Config[struct{}, int]{
		Attempts: 1,
		Name:     "metrics-outcome-test",
		Work: func(struct{}) (int, error) {
			return 1, nil
		},
	}

	_, ok, err := New(cfg).Run()
	require.NoError(t, err)
	require.True(t, ok)

	m := &dto.Metric{}
	counter, err := RunsTotal.GetMetricWithLabelValues("metrics-outcome-test", Succeeded.String())
	require.NoError(t, err)
	require.NoError(t, counter.Write(m))
	assert.Equal(t, float64(1), m.GetCounter().GetValue())
}
