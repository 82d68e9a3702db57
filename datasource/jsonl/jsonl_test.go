package jsonl

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imera88/datatable"
	"github.com/imera88/datatable/internal/read"
)

func buildJSONL(n int) []byte {
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		if i%5 == 0 {
			fmt.Fprintf(&buf, `{"id":%d,"meta":{"score":%.2f}}`+"\n", i, float64(i)*1.5)
			continue
		}
		fmt.Fprintf(&buf, `{"id":%d,"meta":{"score":%.2f},"label":"row-%d"}`+"\n", i, float64(i)*1.5, i)
	}
	return buf.Bytes()
}

func TestParserReadsRecordsAcrossChunks(t *testing.T) {
	const n = 15000
	data := buildJSONL(n)
	cfg := Config{
		Columns: []ColumnSpec{
			{Name: "id", Type: datatable.ColumnInt32},
			{Name: "meta.score", Type: datatable.ColumnFloat64},
			{Name: "label", Type: datatable.ColumnString32},
		},
	}
	parser, err := New(data, cfg)
	require.NoError(t, err)

	r := read.New(datatable.ParallelReaderConfig{
		Input:          data,
		Sof:            0,
		Eof:            int64(len(data)),
		MeanLineLength: 40,
		NThreads:       4,
		NRowsAllocated: 128,
	}, parser)

	f, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, n, f.NRows())

	idCol := f.ColumnAt(0).(datatable.Int32Column)
	labelCol := f.ColumnAt(2).(datatable.Column)
	for i := 0; i < n; i++ {
		v, missing := idCol.Get(i)
		require.False(t, missing)
		assert.Equal(t, int32(i), v, "row %d out of order", i)
		assert.Equal(t, i%5 == 0, labelCol.IsMissing(i))
	}
}

func TestParserRejectsMissingColumns(t *testing.T) {
	_, err := New([]byte("{}\n"), Config{})
	assert.Error(t, err)
}
