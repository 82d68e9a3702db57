// Package concurrent is the ThreadPool substrate shared by
// internal/aggregate and internal/read: a bounded parallel-for, an
// ordered-for with a single-slot serializer standing in for an OpenMP
// ordered section, a first-error-wins token, and a per-worker seeded
// PRNG. It is grounded on the WaitGroup/error-channel idiom used
// throughout the teacher's core and cluster packages, bounded by the
// same golang.org/x/sync/semaphore.Weighted the teacher uses to cap
// concurrent collection.
package concurrent

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool bounds concurrent work to a fixed worker count, the way the
// source's get_nthreads() picks a static OpenMP team size for the
// lifetime of one Aggregate/ReadAll call.
type Pool struct {
	n   int
	sem *semaphore.Weighted
}

// New builds a Pool with n workers. n<=0 uses runtime.NumCPU().
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Pool{n: n, sem: semaphore.NewWeighted(int64(n))}
}

// NThreads returns the worker count this Pool was built with.
func (p *Pool) NThreads() int { return p.n }

// ParallelFor calls fn(i) for every i in [0,n), bounded to p.NThreads()
// concurrent calls. It stops launching new work once tok is Stopped
// (by fn returning an error, or by an external Stop/Fail call) and
// returns tok.Err() once every already-launched call has returned.
func (p *Pool) ParallelFor(ctx context.Context, n int, tok *ErrToken, fn func(i int) error) error {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if tok.Stopped() {
			break
		}
		if err := p.sem.Acquire(ctx, 1); err != nil {
			tok.Fail(err)
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer p.sem.Release(1)
			if tok.Stopped() {
				return
			}
			if err := fn(i); err != nil {
				tok.Fail(err)
			}
		}(i)
	}
	wg.Wait()
	return tok.Err()
}
