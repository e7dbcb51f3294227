package retrier

// Outcome describes the recorded result of the most recent run.
//
// It replaces a nullable "successful" boolean with an explicit three-value
// state so that "never run" is a first-class, type-checked case.
type Outcome int

const (
	// NotRun indicates the retrier has not completed a run yet.
	NotRun Outcome = iota

	// Succeeded indicates the last run produced a result.
	Succeeded

	// Failed indicates the last run exhausted its attempt budget.
	Failed
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case NotRun:
		return "not_run"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
