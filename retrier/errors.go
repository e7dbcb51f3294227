package retrier

import "errors"

// ErrNoWork is returned by Run when no work callable has been configured.
// It is the only error Run can return; work failures are reported through
// the failure handler and the recorded Outcome instead.
var ErrNoWork = errors.New("retrier: work callable is not configured")
