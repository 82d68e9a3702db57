// Package jsonl implements datatable.ChunkParser over JSON-lines text:
// one JSON object per line. Adapted from the teacher's
// datasource/parser/jsonl, which scans a whole io.Reader line-by-line
// into fixed-size Partitions; this Parser instead parses one byte range
// of a shared input at a time. Column names are gjson paths ("a.b.c"
// addresses field c of object b of object a), following the teacher's
// "column names double as lookup paths" convention.
package jsonl

import (
	"context"
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/imera88/datatable"
	derrors "github.com/imera88/datatable/errors"
	"github.com/imera88/datatable/internal/frame"
)

// ColumnSpec names one output column by its gjson path and the type its
// located value should be parsed as.
type ColumnSpec struct {
	Name string // the output column's name, and its gjson path
	Type datatable.ColumnType
}

// Config configures a Parser.
type Config struct {
	Columns []ColumnSpec
}

// Parser is a datatable.ChunkParser over JSON-lines text.
type Parser struct {
	data []byte
	cfg  Config
	cols []datatable.Column
}

// New builds a Parser over data, configured by cfg. data must be the
// same byte slice passed as ParallelReaderConfig.Input.
func New(data []byte, cfg Config) (*Parser, error) {
	if len(cfg.Columns) == 0 {
		return nil, derrors.InvalidArgumentError{Reason: "jsonl: at least one column is required"}
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
		return nil, derrors.InvalidArgumentError{Reason: fmt.Sprintf("jsonl: unsupported column type %v", t)}
	}
}

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
// line start: every line is one independent JSON object, so a line
// start is always a safe record boundary.
func (p *Parser) AdjustChunkCoordinates(c *datatable.ChunkCoordinates, tc *datatable.ThreadContext) {
	if !c.Start.Exact {
		c.Start = datatable.ChunkBoundary{Pos: nextLineBoundary(p.data, c.Start.Pos), Exact: true}
	}
	if !c.End.Exact {
		c.End = datatable.ChunkBoundary{Pos: prevLineBoundary(p.data, c.End.Pos), Exact: true}
		if c.End.Pos < c.Start.Pos {
			c.End.Pos = c.Start.Pos
		}
	}
}

type chunkRows struct {
	rows [][]interface{}
}

// ReadChunk parses every complete line in [expected.Start, expected.End)
// as one JSON object per Config.Columns' gjson paths.
func (p *Parser) ReadChunk(ctx context.Context, expected datatable.ChunkCoordinates, tc *datatable.ThreadContext) (datatable.ChunkCoordinates, error) {
	start, end := expected.Start.Pos, expected.End.Pos
	if end > int64(len(p.data)) {
		end = int64(len(p.data))
	}

	buf := tc.Buffer(func() interface{} { return &chunkRows{} }).(*chunkRows)
	buf.rows = buf.rows[:0]

	pos := start
	for pos < end {
		select {
		case <-ctx.Done():
			return datatable.ChunkCoordinates{}, ctx.Err()
		default:
		}
		lineEnd := pos
		for lineEnd < end && p.data[lineEnd] != '\n' {
			lineEnd++
		}
		line := p.data[pos:lineEnd]
		if len(bytesTrimSpace(line)) > 0 {
			row, err := scanLine(p.cfg, line)
			if err != nil {
				return datatable.ChunkCoordinates{}, derrors.ParseFatalError{Reason: err.Error()}
			}
			buf.rows = append(buf.rows, row)
		}
		pos = lineEnd + 1
	}

	tc.UsedNRows = len(buf.rows)
	return datatable.ChunkCoordinates{
		Start: datatable.ChunkBoundary{Pos: start, Exact: true},
		End:   datatable.ChunkBoundary{Pos: end, Exact: true},
	}, nil
}

func bytesTrimSpace(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && isSpace(b[i]) {
		i++
	}
	for j > i && isSpace(b[j-1]) {
		j--
	}
	return b[i:j]
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

// scanLine locates and parses each configured column's gjson path
// within one JSON-lines record. A path with no match parses as missing.
func scanLine(cfg Config, line []byte) ([]interface{}, error) {
	if !jsoniter.Valid(line) {
		return nil, fmt.Errorf("not valid JSON: %q", line)
	}
	row := make([]interface{}, len(cfg.Columns))
	for i, c := range cfg.Columns {
		res := gjson.GetBytes(line, c.Name)
		if !res.Exists() {
			row[i] = nil
			continue
		}
		v, err := parseResult(c, res)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func parseResult(c ColumnSpec, res gjson.Result) (interface{}, error) {
	switch c.Type {
	case datatable.ColumnBool:
		if res.Type != gjson.True && res.Type != gjson.False {
			return nil, fmt.Errorf("column %q: not a boolean", c.Name)
		}
		return res.Bool(), nil
	case datatable.ColumnInt8:
		return int8(res.Int()), requireNumber(c.Name, res)
	case datatable.ColumnInt16:
		return int16(res.Int()), requireNumber(c.Name, res)
	case datatable.ColumnInt32:
		return int32(res.Int()), requireNumber(c.Name, res)
	case datatable.ColumnInt64:
		return res.Int(), requireNumber(c.Name, res)
	case datatable.ColumnFloat32:
		return float32(res.Float()), requireNumber(c.Name, res)
	case datatable.ColumnFloat64:
		return res.Float(), requireNumber(c.Name, res)
	case datatable.ColumnString32, datatable.ColumnString64:
		return res.String(), nil
	default:
		return nil, fmt.Errorf("jsonl: unsupported column type %v", c.Type)
	}
}

func requireNumber(name string, res gjson.Result) error {
	if res.Type != gjson.Number {
		return fmt.Errorf("column %q: not a number", name)
	}
	return nil
}

// PushBuffers is a no-op: commits happen once, in OrderBuffer.
func (p *Parser) PushBuffers(tc *datatable.ThreadContext) error { return nil }

// OrderBuffer commits this chunk's parsed rows into the shared output
// columns at tc.Row0, in strictly increasing row order.
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
