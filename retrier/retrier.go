package retrier

import (
	"time"

	"go.uber.org/zap"
)

// Default retry configuration constants.
const (
	// DefaultAttempts is the default maximum number of attempts.
	DefaultAttempts = 3

	// DefaultDelay is the default delay between attempts.
	DefaultDelay = 1000 * time.Millisecond
)

// WorkFunc is the unit of logic being retried. It receives the configured
// parameter value and returns a result or an error.
type WorkFunc[P, R any] func(params P) (R, error)

// FailureFunc is called with the error of each failed attempt.
type FailureFunc func(err error)

// Config contains retry configuration parameters.
//
// The zero value is usable but degenerate: zero attempts means the work
// is never invoked. Use DefaultConfig for the standard settings.
type Config[P, R any] struct {
	// Work is the unit of work to retry. Required before Run.
	Work WorkFunc[P, R]

	// Params is passed opaquely to each invocation of Work. The retrier
	// never inspects it.
	Params P

	// Attempts is the maximum number of invocations of Work.
	// Default is 3.
	Attempts int

	// Delay is the fixed wait between consecutive attempts.
	// Default is 1s.
	Delay time.Duration

	// OnFailure, if set, is called with the error of each failed attempt.
	// A panic raised by OnFailure is recovered and discarded; it cannot
	// abort the attempt budget. The recovery is scoped to the handler
	// call only.
	OnFailure FailureFunc

	// Name labels metrics and log entries for this operation.
	// Default is "retrier".
	Name string

	// Logger, if set, logs each failed attempt and the final exhaustion.
	Logger *zap.Logger
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig[P, R any]() Config[P, R] {
	return Config[P, R]{
		Attempts: DefaultAttempts,
		Delay:    DefaultDelay,
	}
}

// WithWork sets the work callable.
func (c Config[P, R]) WithWork(fn WorkFunc[P, R]) Config[P, R] {
	c.Work = fn
	return c
}

// WithParams sets the parameter value passed to the work callable.
func (c Config[P, R]) WithParams(params P) Config[P, R] {
	c.Params = params
	return c
}

// WithAttempts sets the maximum number of attempts.
func (c Config[P, R]) WithAttempts(n int) Config[P, R] {
	c.Attempts = n
	return c
}

// WithDelay sets the delay between attempts.
func (c Config[P, R]) WithDelay(d time.Duration) Config[P, R] {
	c.Delay = d
	return c
}

// WithOnFailure sets the failure handler.
func (c Config[P, R]) WithOnFailure(fn FailureFunc) Config[P, R] {
	c.OnFailure = fn
	return c
}

// WithName sets the operation name used for metrics and logging.
func (c Config[P, R]) WithName(name string) Config[P, R] {
	c.Name = name
	return c
}

// WithLogger sets the logger.
func (c Config[P, R]) WithLogger(logger *zap.Logger) Config[P, R] {
	c.Logger = logger
	return c
}

// operation returns the effective metrics/log label.
func (c Config[P, R]) operation() string {
	if c.Name == "" {
		return "retrier"
	}
	return c.Name
}

// Retrier executes a unit of work with bounded, fixed-delay retries and
// records the outcome of its most recent run.
//
// Run state is overwritten by each run and never cleared back to NotRun.
// The state fields are unsynchronized; see the package documentation for
// the ownership model.
type Retrier[P, R any] struct {
	cfg Config[P, R]

	outcome   Outcome
	completed bool
	result    R
	hasResult bool
}

// New creates a Retrier from the given configuration.
//
// A missing work callable is not an error at construction time; it is
// reported as ErrNoWork when Run is called.
func New[P, R any](cfg Config[P, R]) *Retrier[P, R] {
	return &Retrier[P, R]{cfg: cfg}
}

// Do constructs a Retrier from cfg and runs it to completion.
//
// It is a convenience for callers that do not need the instance state
// after the run.
func Do[P, R any](cfg Config[P, R]) (R, bool, error) {
	return New(cfg).Run()
}

// SetWork sets the work callable on an already constructed Retrier.
func (r *Retrier[P, R]) SetWork(fn WorkFunc[P, R]) {
	r.cfg.Work = fn
}

// Run executes the retry loop with the configured attempt limit and delay.
//
// The returned bool reports whether a successful attempt produced the
// result. The only possible error is ErrNoWork; work failures never
// propagate out of Run.
func (r *Retrier[P, R]) Run() (R, bool, error) {
	return r.run(r.cfg.Attempts, r.cfg.Delay)
}

// RunWith executes the retry loop with the given attempt limit and delay,
// overriding the configured values for this call only.
func (r *Retrier[P, R]) RunWith(attempts int, delay time.Duration) (R, bool, error) {
	return r.run(attempts, delay)
}

// run is the single retry loop shared by Run and RunWith.
func (r *Retrier[P, R]) run(attempts int, delay time.Duration) (R, bool, error) {
	var zero R
	if r.cfg.Work == nil {
		return zero, false, ErrNoWork
	}

	operation := r.cfg.operation()
	start := time.Now()

	for attempt := 0; attempt < attempts; attempt++ {
		// No delay before the first attempt, and none at all when there
		// can be no retry.
		if attempt > 0 && attempts > 1 {
			recordDelay(operation, attempt, delay)
			time.Sleep(delay)
		}

		recordAttempt(operation, attempt+1)

		result, err := r.cfg.Work(r.cfg.Params)
		if err == nil {
			r.recordSuccess(result)
			recordRunSuccess(operation, time.Since(start))
			return result, true, nil
		}

		r.logAttemptFailure(attempt, attempts, delay, err)
		r.notifyFailure(err)
	}

	r.recordExhaustion()
	recordRunExhaustion(operation, time.Since(start))
	r.logExhaustion(attempts)

	return zero, false, nil
}

// notifyFailure routes a failed attempt's error to the handler, if any.
// A panic raised by the handler is discarded so that a misbehaving
// handler cannot consume the remaining attempt budget.
func (r *Retrier[P, R]) notifyFailure(err error) {
	if r.cfg.OnFailure == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	r.cfg.OnFailure(err)
}

// recordSuccess records a completed, successful run.
func (r *Retrier[P, R]) recordSuccess(result R) {
	r.completed = true
	r.outcome = Succeeded
	r.result = result
	r.hasResult = true
}

// recordExhaustion records a completed run that used up every attempt.
// The result is cleared so that it is present only after a success.
func (r *Retrier[P, R]) recordExhaustion() {
	var zero R
	r.completed = true
	r.outcome = Failed
	r.result = zero
	r.hasResult = false
}

// logAttemptFailure logs a single failed attempt.
func (r *Retrier[P, R]) logAttemptFailure(attempt, attempts int, delay time.Duration, err error) {
	if r.cfg.Logger == nil {
		return
	}
	r.cfg.Logger.Debug("attempt failed",
		zap.String("operation", r.cfg.operation()),
		zap.Int("attempt", attempt+1),
		zap.Int("max_attempts", attempts),
		zap.Duration("delay", delay),
		zap.Error(err),
	)
}

// logExhaustion logs the final exhaustion of the attempt budget.
func (r *Retrier[P, R]) logExhaustion(attempts int) {
	if r.cfg.Logger == nil {
		return
	}
	r.cfg.Logger.Warn("all attempts exhausted",
		zap.String("operation", r.cfg.operation()),
		zap.Int("attempts", attempts),
	)
}

// Completed reports whether a run has finished, by success or exhaustion.
func (r *Retrier[P, R]) Completed() bool {
	return r.completed
}

// Outcome returns the outcome of the most recent run.
func (r *Retrier[P, R]) Outcome() Outcome {
	return r.outcome
}

// Succeeded reports whether the most recent run completed with success.
func (r *Retrier[P, R]) Succeeded() bool {
	return r.completed && r.outcome == Succeeded
}

// Result returns the result of the most recent run. The bool reports
// whether a result is present; it is present if and only if the most
// recent run succeeded.
func (r *Retrier[P, R]) Result() (R, bool) {
	return r.result, r.hasResult
}
