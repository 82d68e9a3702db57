package read

import (
	"context"

	"github.com/gofrs/uuid"

	derrors "github.com/imera88/datatable/errors"

	"github.com/imera88/datatable"
	"github.com/imera88/datatable/internal/concurrent"
	"github.com/imera88/datatable/logging"
)

// Reader implements datatable.ParallelReader over one ChunkParser
// instance, per spec.md §4.3. The parser owns the output Frame: it
// allocates, resizes, and commits into its own columns; Reader only
// drives the chunk plan, the ordering, and the reallocation policy.
type Reader struct {
	cfg    datatable.ParallelReaderConfig
	parser datatable.ChunkParser
}

// New builds a Reader over parser, configured by cfg.
func New(cfg datatable.ParallelReaderConfig, parser datatable.ChunkParser) *Reader {
	return &Reader{cfg: cfg, parser: parser}
}

// ReadAll implements spec.md §4.3.3-4.3.4.
func (r *Reader) ReadAll(ctx context.Context) (datatable.Frame, error) {
	cfg := r.cfg
	plan := BuildPlan(cfg.Sof, cfg.Eof, cfg.MeanLineLength, cfg.NThreads, cfg.NRowsMax)
	runID, _ := uuid.NewV4()
	logging.Debugf("read[%s]: plan chunk_count=%d nthreads=%d chunk_size=%d reduced=%t",
		runID, plan.ChunkCount, plan.NThreads, plan.ChunkSize, plan.Reduced)

	nrowsAllocated := cfg.NRowsAllocated
	if nrowsAllocated <= 0 {
		nrowsAllocated = 1024
	}
	if err := r.parser.Resize(nrowsAllocated); err != nil {
		return nil, err
	}

	pool := concurrent.New(plan.NThreads)
	tok := &concurrent.ErrToken{}
	gate := concurrent.NewOrderedGate()
	var resizeLock concurrent.SharedLock

	var nrowsWritten int
	endOfLastChunk := cfg.Sof

	if cfg.ProgressFn != nil {
		cfg.ProgressFn(0, datatable.ProgressRunning)
	}

	err := pool.ParallelFor(ctx, plan.ChunkCount, tok, func(i int) error {
		var tc datatable.ThreadContext
		tc.WorkerIndex = i % pool.NThreads()

		var xcc, acc datatable.ChunkCoordinates
		var chunkErr error
		if !tok.Stopped() {
			xcc = expectedCoordinates(plan, cfg.Sof, cfg.Eof, i, endOfLastChunk)
			r.parser.AdjustChunkCoordinates(&xcc, &tc)
			acc, chunkErr = r.parser.ReadChunk(ctx, xcc, &tc)
			if chunkErr == nil {
				resizeLock.Shared(func() { chunkErr = r.parser.PushBuffers(&tc) })
			}
		}

		// Every chunk passes through the ordered section in strict
		// index order, win or lose, so the gate never has to skip an
		// index -- that would risk stranding a slower chunk that
		// hasn't reached Enter yet.
		gate.Enter(i)
		defer gate.Leave(i)

		if tok.Stopped() {
			return nil
		}
		if chunkErr != nil {
			return chunkErr
		}

		// acc.EndIsNull (a recoverable parse error, spec.md §6) must force
		// the re-parse branch even when acc's zero-valued Start/End
		// coincidentally satisfy the alignment check below -- notably
		// for chunk 0, where endOfLastChunk is also 0.
		aligned := !acc.EndIsNull && acc.Start.Pos == endOfLastChunk && acc.End.Pos >= endOfLastChunk
		if !aligned {
			xcc.Start = datatable.ChunkBoundary{Pos: endOfLastChunk, Exact: true}
			reparsed, rerr := r.parser.ReadChunk(ctx, xcc, &tc)
			if rerr != nil {
				return rerr
			}
			acc = reparsed
		}
		if acc.EndIsNull {
			return derrors.ParseFatalError{Reason: "chunk reconciliation failed: recoverable parse error persisted after re-parse"}
		}

		tc.Row0 = nrowsWritten
		nrowsNew := nrowsWritten + tc.UsedNRows
		terminateNow := false

		if nrowsNew > nrowsAllocated {
			var newAlloc int
			switch {
			case cfg.NRowsMax > 0 && nrowsNew > cfg.NRowsMax:
				tc.UsedNRows = cfg.NRowsMax - nrowsWritten
				if tc.UsedNRows < 0 {
					tc.UsedNRows = 0
				}
				nrowsNew = nrowsWritten + tc.UsedNRows
				newAlloc = nrowsNew
				terminateNow = true
			case i == plan.ChunkCount-1:
				newAlloc = nrowsNew
			default:
				newAlloc = nextAllocation(nrowsNew, plan.ChunkCount, i, nrowsAllocated, cfg.NRowsMax)
			}
			var rerr error
			resizeLock.Exclusive(func() { rerr = r.parser.Resize(newAlloc) })
			if rerr != nil {
				return rerr
			}
			nrowsAllocated = newAlloc
		}

		var commitErr error
		resizeLock.Shared(func() { commitErr = r.parser.OrderBuffer(&tc) })
		if commitErr != nil {
			return commitErr
		}

		nrowsWritten = nrowsNew
		endOfLastChunk = acc.End.Pos
		if terminateNow {
			tok.Stop()
		}
		if cfg.ProgressFn != nil && plan.InputSize > 0 {
			frac := float32(endOfLastChunk-cfg.Sof) / float32(plan.InputSize)
			if frac > 1 {
				frac = 1
			}
			cfg.ProgressFn(frac, datatable.ProgressRunning)
		}
		return nil
	})

	if err != nil {
		if cfg.ProgressFn != nil {
			cfg.ProgressFn(0, datatable.ProgressError)
		}
		return nil, err
	}

	if err := r.parser.Resize(nrowsWritten); err != nil {
		return nil, err
	}
	if cfg.ProgressFn != nil {
		cfg.ProgressFn(1, datatable.ProgressDone)
	}
	logging.Debugf("read[%s]: done, %d rows written", runID, nrowsWritten)
	return r.parser.Frame(), nil
}
