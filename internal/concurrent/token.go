package concurrent

import (
	"sync"
	"sync/atomic"
)

// ErrToken is a first-error-wins, stop-on-first-failure signal shared
// across a worker pool: the first worker to fail records its error and
// flips Stopped permanently; every other worker observes Stopped() and
// exits its loop early instead of continuing wasted work. This mirrors
// the exception-capture/stop-flag idiom the source's Aggregator uses
// inside its OpenMP parallel regions.
type ErrToken struct {
	stopped atomic.Bool
	once    sync.Once
	err     atomic.Value // error
}

// Fail records err as the token's error if no error has been recorded
// yet, and marks the token stopped. Safe to call concurrently; only the
// first call's error is kept.
func (t *ErrToken) Fail(err error) {
	if err == nil {
		return
	}
	t.once.Do(func() { t.err.Store(err) })
	t.stopped.Store(true)
}

// Stop marks the token stopped without recording an error, e.g. for a
// caller-requested interrupt that isn't itself a failure.
func (t *ErrToken) Stop() {
	t.stopped.Store(true)
}

// Stopped reports whether Fail or Stop has been called.
func (t *ErrToken) Stopped() bool { return t.stopped.Load() }

// Err returns the first error recorded by Fail, or nil if none was.
func (t *ErrToken) Err() error {
	v := t.err.Load()
	if v == nil {
		return nil
	}
	return v.(error)
}
