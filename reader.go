package datatable

import "context"

// ChunkBoundary tags one end of a ChunkCoordinates pair: exact
// boundaries come from the previous chunk's actual end, or from sof/eof;
// approximate boundaries are estimates that ReadChunk or
// AdjustChunkCoordinates may move.
type ChunkBoundary struct {
	Pos   int64 // Pos is the byte offset into the input
	Exact bool  // Exact is true iff Pos is known to land on a record boundary
}

// ChunkCoordinates is a byte range [Start, End) into the input, each end
// independently tagged exact or approximate, per spec.md §3.
type ChunkCoordinates struct {
	Start ChunkBoundary
	End   ChunkBoundary
	// EndIsNull marks a recoverable read_chunk failure: the worker
	// could not determine an actual end for this chunk (spec.md §6).
	EndIsNull bool
}

// ThreadContext is the thread-local scratch state a ChunkParser fills in
// while parsing one chunk: it is flushed into the Frame's output columns
// by the ParallelReader's ordered section.
type ThreadContext struct {
	WorkerIndex int   // WorkerIndex is this worker's index in [0, nthreads)
	Row0        int   // Row0 is the absolute output row this chunk's rows start at, set before ordering
	UsedNRows   int   // UsedNRows is how many rows this chunk actually produced
	buffer      interface{}
}

// Buffer returns the parser-defined scratch buffer for this context,
// creating it via newBuf on first use.
func (tc *ThreadContext) Buffer(newBuf func() interface{}) interface{} {
	if tc.buffer == nil {
		tc.buffer = newBuf()
	}
	return tc.buffer
}

// ChunkParser is the external collaborator that turns one byte chunk
// into rows, per spec.md §6. Implementations are provided by
// datasource/dsv and datasource/jsonl in this repository; the raw CSV
// tokenizer itself remains an external collaborator.
type ChunkParser interface {
	// ReadChunk parses the bytes described by expected, writing parsed
	// rows into tc's buffer. It returns the coordinates actually
	// consumed. On a recoverable parse error it returns
	// actual.EndIsNull == true and a nil error; on a fatal error it
	// returns a non-nil error.
	ReadChunk(ctx context.Context, expected ChunkCoordinates, tc *ThreadContext) (actual ChunkCoordinates, err error)
	// AdjustChunkCoordinates snaps an approximate boundary to the
	// nearest record boundary the parser can identify.
	AdjustChunkCoordinates(c *ChunkCoordinates, tc *ThreadContext)
	// PushBuffers flushes tc's previously parsed rows into the shared
	// output Frame. Called outside the ordered section.
	PushBuffers(tc *ThreadContext) error
	// OrderBuffer commits the rows accepted for this chunk (after
	// reconciliation and any truncation) into the output Frame at
	// tc.Row0. Called inside the ordered section.
	OrderBuffer(tc *ThreadContext) error
	// Resize grows or shrinks the parser's shared output columns to n
	// rows, preserving existing contents. Inside its parallel loop the
	// ParallelReader calls this only while holding its resize lock
	// exclusively; the initial allocation before the loop and the final
	// shrink after it run without the lock, when no chunk is in flight.
	Resize(n int) error
	// Frame returns the parser's output Frame as currently allocated.
	// The ParallelReader reads this once, after the last Resize call in
	// the post-loop shrink step.
	Frame() Frame
}

// ParallelReaderConfig configures a ParallelReader, per spec.md §4.3.
type ParallelReaderConfig struct {
	Input           []byte  // Input is the byte range to read; Input[Sof:Eof] is read
	Sof, Eof        int64   // Sof, Eof bound the byte range within Input
	MeanLineLength  float64 // MeanLineLength estimates L, the mean record length; clamped to a 1.0 minimum
	NThreads        int     // NThreads is the worker count
	NRowsMax        int     // NRowsMax caps the number of rows produced; 0 means unbounded
	NRowsAllocated  int     // NRowsAllocated is the initial output row allocation
	ProgressFn      ProgressFn
}

// ParallelReader divides a byte range into ordered chunks, parses them
// concurrently via a ChunkParser, and appends parsed rows into an output
// Frame in strict input order, per spec.md §4.3.
type ParallelReader interface {
	// ReadAll runs the full pipeline described in spec.md §4.3 and
	// returns the populated output Frame.
	ReadAll(ctx context.Context) (Frame, error)
}
