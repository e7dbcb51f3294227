// Package retrier provides bounded, fixed-delay retry execution for
// operations that may fail transiently.
//
// A Retrier owns a unit of work, re-invokes it up to a configured number
// of attempts with a fixed delay between attempts, and routes each
// failure to an optional handler. Exhausting the attempt budget is a
// normal termination, not an error: callers distinguish success from
// exhaustion through the returned flag or the recorded Outcome, never
// through a returned error.
//
// # Features
//
//   - Configurable attempt limit and fixed inter-attempt delay
//   - Generic over both the parameter and the result type
//   - Failure handler invoked once per failed attempt
//   - Handler misbehavior is isolated and cannot break the attempt budget
//   - Optional structured logging and Prometheus metrics per operation
//
// # Usage
//
// Execute an operation with the default settings (3 attempts, 1s delay):
//
//	cfg := retrier.DefaultConfig[string, int]().
//	    WithWork(fetchCount).
//	    WithParams("orders")
//	result, ok, err := retrier.Do(cfg)
//
// Or construct a Retrier and inspect its state afterwards:
//
//	r := retrier.New(cfg)
//	result, ok, _ := r.Run()
//	if r.Outcome() == retrier.Failed {
//	    // all attempts exhausted
//	}
//
// # Concurrency
//
// A Retrier records its run state on the instance and performs no
// synchronization. Each instance is intended for single-owner,
// single-goroutine use; share the Config, not the Retrier.
package retrier
