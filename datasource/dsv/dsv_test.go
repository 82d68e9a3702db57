package dsv

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imera88/datatable"
	derrors "github.com/imera88/datatable/errors"
	"github.com/imera88/datatable/internal/read"
)

func buildCSV(n int) []byte {
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		name := "missing"
		if i%7 != 0 {
			name = fmt.Sprintf("row-%d", i)
		}
		fmt.Fprintf(&buf, "%d,%.1f,%s\n", i, float64(i)*0.5, name)
	}
	return buf.Bytes()
}

func TestParserReadsRecordsAcrossChunks(t *testing.T) {
	const n = 20000
	data := buildCSV(n)
	cfg := Config{
		NilValue: "missing",
		Columns: []ColumnSpec{
			{Name: "id", Type: datatable.ColumnInt32},
			{Name: "score", Type: datatable.ColumnFloat64},
			{Name: "name", Type: datatable.ColumnString32},
		},
	}
	parser, err := New(data, cfg)
	require.NoError(t, err)

	r := read.New(datatable.ParallelReaderConfig{
		Input:          data,
		Sof:            0,
		Eof:            int64(len(data)),
		MeanLineLength: 14,
		NThreads:       4,
		NRowsAllocated: 256,
	}, parser)

	f, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, n, f.NRows())

	idCol := f.ColumnAt(0).(datatable.Int32Column)
	nameCol := f.ColumnAt(2).(datatable.Column)
	for i := 0; i < n; i++ {
		v, missing := idCol.Get(i)
		require.False(t, missing)
		assert.Equal(t, int32(i), v, "row %d out of order", i)
		assert.Equal(t, i%7 == 0, nameCol.IsMissing(i))
	}
}

func TestParserRejectsUnsupportedColumnType(t *testing.T) {
	_, err := New([]byte("1\n"), Config{Columns: []ColumnSpec{{Name: "x", Type: datatable.ColumnType(99)}}})
	assert.Error(t, err)
}

func threeColumns() []ColumnSpec {
	return []ColumnSpec{
		{Name: "id", Type: datatable.ColumnInt32},
		{Name: "score", Type: datatable.ColumnFloat64},
		{Name: "name", Type: datatable.ColumnString32},
	}
}

func TestReadChunkReportsRecoverableOnFirstRecordFailure(t *testing.T) {
	data := []byte("not,a,valid,row\n1,2.0,a\n")
	p, err := New(data, Config{Columns: threeColumns()})
	require.NoError(t, err)

	var tc datatable.ThreadContext
	expected := datatable.ChunkCoordinates{
		Start: datatable.ChunkBoundary{Pos: 0, Exact: true},
		End:   datatable.ChunkBoundary{Pos: int64(len(data)), Exact: true},
	}
	actual, err := p.ReadChunk(context.Background(), expected, &tc)
	require.NoError(t, err)
	assert.True(t, actual.EndIsNull, "a malformed first record should be reported as recoverable, not fatal")
}

func TestReadChunkFailsFatallyOnLaterRecordFailure(t *testing.T) {
	data := []byte("1,2.0,a\nnot,a,valid,row\n")
	p, err := New(data, Config{Columns: threeColumns()})
	require.NoError(t, err)

	var tc datatable.ThreadContext
	expected := datatable.ChunkCoordinates{
		Start: datatable.ChunkBoundary{Pos: 0, Exact: true},
		End:   datatable.ChunkBoundary{Pos: int64(len(data)), Exact: true},
	}
	_, err = p.ReadChunk(context.Background(), expected, &tc)
	require.Error(t, err)
	var fatal derrors.ParseFatalError
	assert.ErrorAs(t, err, &fatal)
}

func TestAdjustChunkCoordinatesSnapsToLineBoundary(t *testing.T) {
	data := []byte("aa\nbb\ncc\n")
	p, err := New(data, Config{Columns: []ColumnSpec{{Name: "x", Type: datatable.ColumnString32}}})
	require.NoError(t, err)

	c := datatable.ChunkCoordinates{
		Start: datatable.ChunkBoundary{Pos: 2, Exact: false},
		End:   datatable.ChunkBoundary{Pos: 5, Exact: false},
	}
	var tc datatable.ThreadContext
	p.AdjustChunkCoordinates(&c, &tc)
	assert.Equal(t, int64(3), c.Start.Pos)
	assert.Equal(t, int64(3), c.End.Pos)
	assert.True(t, c.Start.Exact)
	assert.True(t, c.End.Exact)
}
