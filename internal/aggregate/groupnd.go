package aggregate

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/imera88/datatable/internal/concurrent"

	"github.com/imera88/datatable"
)

// pbsteps is the progress-reporting granularity from spec.md §4.2.9:
// the ND loop reports at most once per 1/pbsteps fraction of rows
// processed.
const pbsteps = 100

// groupND implements spec.md §4.2.6 end to end: row preprocessing
// (projection if n_continuous > maxDimensions), the coprime-probing
// clustering loop, and the final union-find compaction
// (adjust_members). It returns one exemplar_id per input row and the
// exemplar count after compaction.
func groupND[T datatable.ColumnFloat](
	ctx context.Context,
	convertors []datatable.ColumnConvertor[T],
	ndMaxBins, maxDimensions int,
	seed uint32, nthreads int,
	progressFn datatable.ProgressFn,
) ([]int32, int, error) {
	nrows := 0
	if len(convertors) > 0 {
		nrows = convertors[0].NRows()
	}
	members := make([]int32, nrows)
	if nrows == 0 {
		return members, 0, nil
	}

	pool := concurrent.New(nthreads)
	tok := &concurrent.ErrToken{}
	state := newNDState[T](ndMaxBins)
	setupRnd := concurrent.NewRand(seed, 0)
	pp := newPreprocessor(convertors, maxDimensions, setupRnd)

	var processed atomic.Int64
	var lastReported atomic.Int64 // fraction * pbsteps, last value reported

	if progressFn != nil {
		progressFn(0, datatable.ProgressRunning)
	}

	err := pool.ParallelFor(ctx, pool.NThreads(), tok, func(workerIndex int) error {
		rnd := concurrent.NewRand(seed, workerIndex)
		for row := workerIndex; row < nrows; row += pool.NThreads() {
			if tok.Stopped() {
				return nil
			}
			if ctx.Err() != nil {
				tok.Stop()
				return ctx.Err()
			}
			vec := pp.row(row)
			members[row] = probeAndAssign(state, vec, rnd)

			n := processed.Add(1)
			if progressFn != nil {
				step := n * int64(pbsteps) / int64(nrows)
				if step > lastReported.Load() {
					lastReported.Store(step)
					progressFn(float32(n)/float32(nrows), datatable.ProgressRunning)
				}
			}
		}
		return nil
	})
	if err != nil {
		if progressFn != nil {
			progressFn(float32(processed.Load())/float32(nrows), datatable.ProgressError)
		}
		return nil, 0, err
	}

	nExemplars := adjustMembers(state.ids, members)
	if progressFn != nil {
		progressFn(1, datatable.ProgressDone)
	}
	return members, nExemplars, nil
}

// adjustMembers implements spec.md §4.2.6's adjust_members: replace
// every row's exemplar_id with its union-find root, then compact the
// surviving roots to a dense 0..n_roots-1 range in ascending order of
// original root id, which keeps exemplar numbering deterministic for a
// fixed seed and thread count.
func adjustMembers(ids []int32, members []int32) int {
	roots := make(map[int32]int32)
	ordered := make([]int32, 0)
	for i, id := range members {
		root := find(ids, id)
		members[i] = root
		if _, ok := roots[root]; !ok {
			roots[root] = 0
			ordered = append(ordered, root)
		}
	}
	compact := make(map[int32]int32, len(ordered))
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })
	for i, root := range ordered {
		compact[root] = int32(i)
	}
	for i, root := range members {
		members[i] = compact[root]
	}
	return len(ordered)
}
