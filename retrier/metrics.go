package retrier

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttemptsTotal counts work invocations per operation and attempt number.
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retrier_attempts_total",
			Help: "Total number of work invocations",
		},
		[]string{"operation", "attempt"},
	)

	// RunsTotal counts completed runs per operation and outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retrier_runs_total",
			Help: "Total number of completed runs",
		},
		[]string{"operation", "outcome"},
	)

	// RunDuration measures the total duration of runs in seconds.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retrier_run_duration_seconds",
			Help:    "Total duration of runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)

	// DelayDuration measures inter-attempt waits in seconds.
	DelayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retrier_delay_duration_seconds",
			Help:    "Duration of inter-attempt waits in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "attempt"},
	)
)

// recordAttempt records one work invocation.
func recordAttempt(operation string, attempt int) {
	AttemptsTotal.WithLabelValues(operation, strconv.Itoa(attempt)).Inc()
}

// recordDelay records an inter-attempt wait.
func recordDelay(operation string, attempt int, delay time.Duration) {
	DelayDuration.WithLabelValues(operation, strconv.Itoa(attempt)).Observe(delay.Seconds())
}

// recordRunSuccess records a run that completed with success.
func recordRunSuccess(operation string, elapsed time.Duration) {
	RunsTotal.WithLabelValues(operation, Succeeded.String()).Inc()
	RunDuration.WithLabelValues(operation, Succeeded.String()).Observe(elapsed.Seconds())
}

// recordRunExhaustion records a run that used up every attempt.
func recordRunExhaustion(operation string, elapsed time.Duration) {
	RunsTotal.WithLabelValues(operation, Failed.String()).Inc()
	RunDuration.WithLabelValues(operation, Failed.String()).Observe(elapsed.Seconds())
}
