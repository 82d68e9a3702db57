// Package dsv implements datatable.ChunkParser over delimiter-separated
// text (CSV, TSV, and similar formats), adapted from the teacher's
// datasource/parser/dsv: the teacher parses a whole io.Reader into a
// stream of fixed-size Partitions; this Parser instead parses one byte
// range of a shared, in-memory input at a time, so it can be driven
// concurrently by a ParallelReader across many chunks of the same
// input.
//
// Quoted fields may not contain literal newlines: a newline is always a
// record boundary. This keeps chunk-boundary adjustment a cheap
// byte scan instead of a quote-aware lex, at the cost of not supporting
// multi-line quoted values.
package dsv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/imera88/datatable"
	derrors "github.com/imera88/datatable/errors"
	"github.com/imera88/datatable/internal/frame"
	"github.com/imera88/datatable/logging"
)

// ColumnSpec names one output column and the type its field strings
// should be parsed as.
type ColumnSpec struct {
	Name string
	Type datatable.ColumnType
}

// Config configures a Parser, mirroring the teacher's ParserConf.
type Config struct {
	Columns     []ColumnSpec
	Delimiter   rune   // Delimiter separates fields; defaults to ','
	Comment     rune   // Lines starting with Comment are skipped; 0 disables
	NilValue    string // A field equal to NilValue (default "") parses as missing
	HeaderLines int    // Lines to skip at the very start of the input (Sof == 0 only)
}

// Parser is a datatable.ChunkParser over DSV text.
type Parser struct {
	data []byte
	cfg  Config
	cols []datatable.Column
}

// New builds a Parser over data, configured by cfg. data must be the
// same byte slice passed as ParallelReaderConfig.Input.
func New(data []byte, cfg Config) (*Parser, error) {
	if len(cfg.Columns) == 0 {
		return nil, derrors.InvalidArgumentError{Reason: "dsv: at least one column is required"}
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ','
	}
	cols := make([]datatable.Column, len(cfg.Columns))
	for i, c := range cfg.Columns {
		col, err := newColumn(c.Name, c.Type)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return &Parser{data: data, cfg: cfg, cols: cols}, nil
}

func newColumn(name string, t datatable.ColumnType) (datatable.Column, error) {
	switch t {
	case datatable.ColumnBool:
		return &frame.BoolColumn{ColName: name}, nil
	case datatable.ColumnInt8:
		return &frame.Int8Column{ColName: name}, nil
	case datatable.ColumnInt16:
		return &frame.Int16Column{ColName: name}, nil
	case datatable.ColumnInt32:
		return &frame.Int32Column{ColName: name}, nil
	case datatable.ColumnInt64:
		return &frame.Int64Column{ColName: name}, nil
	case datatable.ColumnFloat32:
		return &frame.Float32Column{ColName: name}, nil
	case datatable.ColumnFloat64:
		return &frame.Float64Column{ColName: name}, nil
	case datatable.ColumnString32:
		return &frame.StringColumn32{ColName: name}, nil
	case datatable.ColumnString64:
		return &frame.StringColumn64{ColName: name}, nil
	default:
		return nil, derrors.InvalidArgumentError{Reason: fmt.Sprintf("dsv: unsupported column type %v", t)}
	}
}

// nextLineBoundary returns the smallest offset >= pos that starts a
// line (the ceiling snap used for a chunk's Start).
func nextLineBoundary(data []byte, pos int64) int64 {
	n := int64(len(data))
	if pos <= 0 {
		return 0
	}
	if pos >= n {
		return n
	}
	i := pos
	for i < n && data[i-1] != '\n' {
		i++
	}
	return i
}

// prevLineBoundary returns the largest offset <= pos that starts a line
// (the floor snap used for a chunk's End).
func prevLineBoundary(data []byte, pos int64) int64 {
	n := int64(len(data))
	if pos <= 0 {
		return 0
	}
	if pos > n {
		pos = n
	}
	i := pos
	for i > 0 && data[i-1] != '\n' {
		i--
	}
	return i
}

// AdjustChunkCoordinates snaps approximate boundaries to the nearest
// line start, and skips Config.HeaderLines at the true start of input.
func (p *Parser) AdjustChunkCoordinates(c *datatable.ChunkCoordinates, tc *datatable.ThreadContext) {
	if c.Start.Pos == 0 && p.cfg.HeaderLines > 0 {
		pos := int64(0)
		for i := 0; i < p.cfg.HeaderLines; i++ {
			pos = nextLineBoundary(p.data, pos+1)
		}
		c.Start = datatable.ChunkBoundary{Pos: pos, Exact: true}
	} else if !c.Start.Exact {
		c.Start = datatable.ChunkBoundary{Pos: nextLineBoundary(p.data, c.Start.Pos), Exact: true}
	}
	if !c.End.Exact {
		c.End = datatable.ChunkBoundary{Pos: prevLineBoundary(p.data, c.End.Pos), Exact: true}
		if c.End.Pos < c.Start.Pos {
			c.End.Pos = c.Start.Pos
		}
	}
}

// chunkRows is the per-chunk ThreadContext buffer: one []interface{}
// per parsed row, one element per configured column (nil means missing).
type chunkRows struct {
	rows [][]interface{}
}

// ReadChunk parses every complete record in [expected.Start, expected.End).
// Both boundaries are always exact by the time this is called: either
// AdjustChunkCoordinates already snapped them, or the ParallelReader
// forced expected.Start to the previous chunk's exact actual end.
//
// A parse failure on this chunk's very first record is treated as
// recoverable (per spec.md §6/§7): expected.Start, though tagged exact,
// came from a plain newline scan that cannot see whether a quoted field
// opened before it is still open, so the boundary itself may be
// misplaced. ReadChunk reports this by returning EndIsNull and a nil
// error, rather than guessing; the ParallelReader re-invokes ReadChunk
// exactly once with expected.Start forced to the previous chunk's
// confirmed exact end, which is guaranteed not to land inside a quoted
// field. A failure on any later record in the same chunk is data
// corruption, not a boundary problem, and is fatal.
func (p *Parser) ReadChunk(ctx context.Context, expected datatable.ChunkCoordinates, tc *datatable.ThreadContext) (datatable.ChunkCoordinates, error) {
	start, end := expected.Start.Pos, expected.End.Pos
	if end > int64(len(p.data)) {
		end = int64(len(p.data))
	}

	buf := tc.Buffer(func() interface{} { return &chunkRows{} }).(*chunkRows)
	buf.rows = buf.rows[:0]

	reader := csv.NewReader(bytes.NewReader(p.data[start:end]))
	reader.Comma = p.cfg.Delimiter
	reader.Comment = p.cfg.Comment
	reader.FieldsPerRecord = len(p.cfg.Columns)
	reader.ReuseRecord = true

	for {
		select {
		case <-ctx.Done():
			return datatable.ChunkCoordinates{}, ctx.Err()
		default:
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if len(buf.rows) == 0 {
				return recoverable(start, err)
			}
			return datatable.ChunkCoordinates{}, derrors.ParseFatalError{Reason: err.Error()}
		}
		row, err := scanRow(p.cfg, record)
		if err != nil {
			if len(buf.rows) == 0 {
				return recoverable(start, err)
			}
			return datatable.ChunkCoordinates{}, derrors.ParseFatalError{Reason: err.Error()}
		}
		buf.rows = append(buf.rows, row)
	}

	tc.UsedNRows = len(buf.rows)
	return datatable.ChunkCoordinates{
		Start: datatable.ChunkBoundary{Pos: start, Exact: true},
		End:   datatable.ChunkBoundary{Pos: end, Exact: true},
	}, nil
}

// recoverable reports a chunk's first-record parse failure as a
// recoverable error: it logs the diagnostic (ParseRecoverableError
// itself never escapes, per spec.md §7) and returns EndIsNull so the
// ParallelReader re-parses from a confirmed boundary.
func recoverable(start int64, cause error) (datatable.ChunkCoordinates, error) {
	reason := derrors.ParseRecoverableError{Reason: cause.Error()}
	logging.Warnf("dsv: %s at offset %d, requesting boundary reconciliation", reason, start)
	return datatable.ChunkCoordinates{
		Start:     datatable.ChunkBoundary{Pos: start, Exact: true},
		EndIsNull: true,
	}, nil
}

// scanRow parses one CSV record into one row of typed values, per
// Config.Columns. A field equal to Config.NilValue is parsed as a
// missing value (nil).
func scanRow(cfg Config, record []string) ([]interface{}, error) {
	row := make([]interface{}, len(cfg.Columns))
	for i, field := range record {
		if i >= len(cfg.Columns) {
			break
		}
		if field == cfg.NilValue {
			row[i] = nil
			continue
		}
		var err error
		switch cfg.Columns[i].Type {
		case datatable.ColumnBool:
			row[i], err = strconv.ParseBool(field)
		case datatable.ColumnInt8:
			var v int64
			v, err = strconv.ParseInt(field, 10, 8)
			row[i] = int8(v)
		case datatable.ColumnInt16:
			var v int64
			v, err = strconv.ParseInt(field, 10, 16)
			row[i] = int16(v)
		case datatable.ColumnInt32:
			var v int64
			v, err = strconv.ParseInt(field, 10, 32)
			row[i] = int32(v)
		case datatable.ColumnInt64:
			row[i], err = strconv.ParseInt(field, 10, 64)
		case datatable.ColumnFloat32:
			var v float64
			v, err = strconv.ParseFloat(field, 32)
			row[i] = float32(v)
		case datatable.ColumnFloat64:
			row[i], err = strconv.ParseFloat(field, 64)
		case datatable.ColumnString32, datatable.ColumnString64:
			row[i] = field
		default:
			return nil, fmt.Errorf("dsv: unsupported column type %v", cfg.Columns[i].Type)
		}
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", cfg.Columns[i].Name, err)
		}
	}
	return row, nil
}

// PushBuffers is a no-op for this Parser: commits happen once, in
// OrderBuffer, inside the ordered section.
func (p *Parser) PushBuffers(tc *datatable.ThreadContext) error { return nil }

// OrderBuffer commits this chunk's parsed rows into the shared output
// columns at tc.Row0. Called inside the ordered section, so rows commit
// in strictly increasing row order -- string columns rely on this to
// append to their blob in order.
func (p *Parser) OrderBuffer(tc *datatable.ThreadContext) error {
	buf := tc.Buffer(func() interface{} { return &chunkRows{} }).(*chunkRows)
	for k := 0; k < tc.UsedNRows; k++ {
		absRow := tc.Row0 + k
		row := buf.rows[k]
		for ci, col := range p.cols {
			commitValue(col, absRow, row[ci])
		}
	}
	return nil
}

// commitValue writes one parsed value (or nil, for missing) into col at row.
func commitValue(col datatable.Column, row int, v interface{}) {
	switch c := col.(type) {
	case *frame.BoolColumn:
		if v == nil {
			c.Data[row] = frame.NABool
		} else if v.(bool) {
			c.Data[row] = 1
		} else {
			c.Data[row] = 0
		}
	case *frame.Int8Column:
		if v == nil {
			c.Data[row] = frame.NAInt8
		} else {
			c.Data[row] = v.(int8)
		}
	case *frame.Int16Column:
		if v == nil {
			c.Data[row] = frame.NAInt16
		} else {
			c.Data[row] = v.(int16)
		}
	case *frame.Int32Column:
		if v == nil {
			c.Data[row] = frame.NAInt32
		} else {
			c.Data[row] = v.(int32)
		}
	case *frame.Int64Column:
		if v == nil {
			c.Data[row] = frame.NAInt64
		} else {
			c.Data[row] = v.(int64)
		}
	case *frame.Float32Column:
		if v == nil {
			c.Data[row] = float32(math.NaN())
		} else {
			c.Data[row] = v.(float32)
		}
	case *frame.Float64Column:
		if v == nil {
			c.Data[row] = math.NaN()
		} else {
			c.Data[row] = v.(float64)
		}
	case *frame.StringColumn32:
		if v == nil {
			c.Offsets[row] = -int32(len(c.Blob))
		} else {
			c.Blob = append(c.Blob, v.(string)...)
			c.Offsets[row] = int32(len(c.Blob))
		}
	case *frame.StringColumn64:
		if v == nil {
			c.Offsets[row] = -int64(len(c.Blob))
		} else {
			c.Blob = append(c.Blob, v.(string)...)
			c.Offsets[row] = int64(len(c.Blob))
		}
	}
}

// Resize grows or shrinks every output column to n rows.
func (p *Parser) Resize(n int) error {
	for i, c := range p.cols {
		p.cols[i] = frame.Resize(c, n)
	}
	return nil
}

// Frame returns the parser's output columns as a datatable.Frame.
func (p *Parser) Frame() datatable.Frame {
	f, err := frame.New(p.cols...)
	if err != nil {
		panic(err)
	}
	return f
}
