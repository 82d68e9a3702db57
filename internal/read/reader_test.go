package read

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imera88/datatable"
	"github.com/imera88/datatable/internal/frame"
)

// fixedRecordParser is a test double over a byte range holding
// fixed-width newline-terminated records: it parses every complete
// record ending inside [expected.Start, expected.End) and reports the
// byte offset after the last complete record as its actual end, per
// the ChunkParser contract.
type fixedRecordParser struct {
	data         []byte
	recordWidth  int // includes the trailing '\n'
	col          *frame.Int32Column
	allocated    int
}

func newFixedRecordParser(nrecords int, recordWidth int) (*fixedRecordParser, []byte) {
	data := make([]byte, 0, nrecords*recordWidth)
	for i := 0; i < nrecords; i++ {
		row := fixedRow(i, recordWidth)
		data = append(data, row...)
	}
	return &fixedRecordParser{data: data, recordWidth: recordWidth, col: &frame.Int32Column{ColName: "v"}}, data
}

func fixedRow(i, width int) []byte {
	row := make([]byte, width)
	for j := range row {
		row[j] = ' '
	}
	digits := []byte{}
	n := i
	if n == 0 {
		digits = []byte{'0'}
	}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	copy(row, digits)
	row[width-1] = '\n'
	return row
}

func (p *fixedRecordParser) AdjustChunkCoordinates(c *datatable.ChunkCoordinates, tc *datatable.ThreadContext) {
	snap := func(b *datatable.ChunkBoundary, isStart bool) {
		if b.Exact {
			return
		}
		pos := b.Pos
		rem := pos % int64(p.recordWidth)
		if rem != 0 {
			if isStart {
				pos += int64(p.recordWidth) - rem
			} else {
				pos -= rem
			}
		}
		b.Pos = pos
		b.Exact = true
	}
	snap(&c.Start, true)
	snap(&c.End, false)
}

func (p *fixedRecordParser) ReadChunk(ctx context.Context, expected datatable.ChunkCoordinates, tc *datatable.ThreadContext) (datatable.ChunkCoordinates, error) {
	start := expected.Start.Pos
	end := expected.End.Pos
	if end > int64(len(p.data)) {
		end = int64(len(p.data))
	}
	nrecords := int((end - start) / int64(p.recordWidth))
	rows := tc.Buffer(func() interface{} { return &[]int32{} }).(*[]int32)
	*rows = (*rows)[:0]
	for k := 0; k < nrecords; k++ {
		rowStart := start + int64(k)*int64(p.recordWidth)
		var v int32
		for _, b := range p.data[rowStart : rowStart+int64(p.recordWidth)-1] {
			if b == ' ' {
				continue
			}
			v = v*10 + int32(b-'0')
		}
		*rows = append(*rows, v)
	}
	tc.UsedNRows = nrecords
	actualEnd := start + int64(nrecords)*int64(p.recordWidth)
	return datatable.ChunkCoordinates{
		Start: datatable.ChunkBoundary{Pos: start, Exact: true},
		End:   datatable.ChunkBoundary{Pos: actualEnd, Exact: true},
	}, nil
}

func (p *fixedRecordParser) PushBuffers(tc *datatable.ThreadContext) error { return nil }

func (p *fixedRecordParser) OrderBuffer(tc *datatable.ThreadContext) error {
	rows := tc.Buffer(func() interface{} { return &[]int32{} }).(*[]int32)
	for k := 0; k < tc.UsedNRows; k++ {
		p.col.Data[tc.Row0+k] = (*rows)[k]
	}
	return nil
}

func (p *fixedRecordParser) Resize(n int) error {
	p.col = frame.Resize(p.col, n).(*frame.Int32Column)
	p.allocated = n
	return nil
}

func (p *fixedRecordParser) Frame() datatable.Frame {
	f, err := frame.New(p.col)
	if err != nil {
		panic(err)
	}
	return f
}

func TestReadAllReconstitutesRecordsInOrder(t *testing.T) {
	const n = 100000
	parser, data := newFixedRecordParser(n, 8)
	cfg := datatable.ParallelReaderConfig{
		Input:          data,
		Sof:            0,
		Eof:            int64(len(data)),
		MeanLineLength: 8,
		NThreads:       4,
		NRowsAllocated: 100,
	}
	r := New(cfg, parser)
	f, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, n, f.NRows())

	col := f.ColumnAt(0).(datatable.Int32Column)
	for i := 0; i < n; i++ {
		v, missing := col.Get(i)
		require.False(t, missing)
		assert.Equal(t, int32(i), v, "row %d out of order", i)
	}
}

func TestReadAllTruncatesAtNRowsMax(t *testing.T) {
	const n = 1000
	parser, data := newFixedRecordParser(n, 8)
	cfg := datatable.ParallelReaderConfig{
		Input:          data,
		Sof:            0,
		Eof:            int64(len(data)),
		MeanLineLength: 8,
		NThreads:       2,
		NRowsAllocated: 50,
		NRowsMax:       300,
	}
	r := New(cfg, parser)
	f, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 300, f.NRows())

	col := f.ColumnAt(0).(datatable.Int32Column)
	for i := 0; i < 300; i++ {
		v, _ := col.Get(i)
		assert.Equal(t, int32(i), v)
	}
}

func TestReadAllSingleThreaded(t *testing.T) {
	const n = 37
	parser, data := newFixedRecordParser(n, 8)
	cfg := datatable.ParallelReaderConfig{
		Input:          data,
		Sof:            0,
		Eof:            int64(len(data)),
		MeanLineLength: 8,
		NThreads:       1,
		NRowsAllocated: 4,
	}
	r := New(cfg, parser)
	f, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, n, f.NRows())
	col := f.ColumnAt(0).(datatable.Int32Column)
	for i := 0; i < n; i++ {
		v, _ := col.Get(i)
		assert.Equal(t, int32(i), v)
	}
}

// flakyFirstChunkParser signals a recoverable parse error (EndIsNull)
// the first time ReadChunk is asked to parse starting from byte 0, then
// parses normally on every later call. This exercises the ParallelReader's
// exactly-one-reparse reconciliation path for the edge case where the
// failing chunk is chunk 0: endOfLastChunk is also 0 there, so a naive
// alignment check on the zero-valued returned coordinates would
// coincidentally look "aligned" and skip the mandatory re-parse.
type flakyFirstChunkParser struct {
	*fixedRecordParser
	triggered atomic.Bool
}

func (p *flakyFirstChunkParser) ReadChunk(ctx context.Context, expected datatable.ChunkCoordinates, tc *datatable.ThreadContext) (datatable.ChunkCoordinates, error) {
	if expected.Start.Pos == 0 && p.triggered.CompareAndSwap(false, true) {
		return datatable.ChunkCoordinates{EndIsNull: true}, nil
	}
	return p.fixedRecordParser.ReadChunk(ctx, expected, tc)
}

func TestReadAllRecoversFromRecoverableParseErrorAtChunkZero(t *testing.T) {
	const n = 500
	base, data := newFixedRecordParser(n, 8)
	parser := &flakyFirstChunkParser{fixedRecordParser: base}
	cfg := datatable.ParallelReaderConfig{
		Input:          data,
		Sof:            0,
		Eof:            int64(len(data)),
		MeanLineLength: 8,
		NThreads:       4,
		NRowsAllocated: 64,
	}
	r := New(cfg, parser)
	f, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, n, f.NRows())

	col := f.ColumnAt(0).(datatable.Int32Column)
	for i := 0; i < n; i++ {
		v, missing := col.Get(i)
		require.False(t, missing)
		assert.Equal(t, int32(i), v, "row %d out of order", i)
	}
	assert.True(t, parser.triggered.Load(), "expected the recoverable path to have fired")
}

func TestBuildPlanRoundsChunkCountToThreadMultiple(t *testing.T) {
	plan := BuildPlan(0, 10_000_000, 50, 4, 0)
	assert.Equal(t, 0, plan.ChunkCount%4)
	assert.GreaterOrEqual(t, plan.ChunkCount, 4)
}

func TestBuildPlanSingleChunkUsesOneThread(t *testing.T) {
	plan := BuildPlan(0, 1000, 50, 8, 0)
	assert.Equal(t, 1, plan.NThreads)
}
