package retrier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		outcome  Outcome
		expected string
	}{
		{"not run", NotRun, "not_run"},
		{"succeeded", Succeeded, "succeeded"},
		{"failed", Failed, "failed"},
		{"unknown value", Outcome(99), "unknown"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.outcome.String())
		})
	}
}
