package concurrent

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParallelForRunsEveryIndex(t *testing.T) {
	p := New(4)
	var mu sync.Mutex
	seen := make([]int, 0, 100)
	tok := &ErrToken{}
	err := p.ParallelFor(context.Background(), 100, tok, func(i int) error {
		mu.Lock()
		seen = append(seen, i)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	sort.Ints(seen)
	require.Len(t, seen, 100)
	for i, v := range seen {
		require.Equal(t, i, v)
	}
}

func TestParallelForStopsOnFirstError(t *testing.T) {
	p := New(4)
	var calls atomic.Int64
	tok := &ErrToken{}
	boom := errors.New("boom")
	err := p.ParallelFor(context.Background(), 1000, tok, func(i int) error {
		calls.Add(1)
		if i == 0 {
			return boom
		}
		return nil
	})
	require.Error(t, err)
	require.Less(t, calls.Load(), int64(1000), "stopped token must prevent launching every remaining iteration")
}

func TestOrderedGateEnforcesStrictOrder(t *testing.T) {
	const n = 50
	gate := NewOrderedGate()
	var wg sync.WaitGroup
	var order []int
	var mu sync.Mutex
	for i := n - 1; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			gate.Enter(i)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			gate.Leave(i)
		}(i)
	}
	wg.Wait()
	for i := 0; i < n; i++ {
		require.Equal(t, i, order[i])
	}
}

func TestRandIsDeterministicForSameSeed(t *testing.T) {
	a := NewRand(42, 3)
	b := NewRand(42, 3)
	for i := 0; i < 10; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
}
