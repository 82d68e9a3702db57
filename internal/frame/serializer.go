package frame

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/imera88/datatable"
	"github.com/pierrec/lz4"
)

// LZ4Serializer implements datatable.FrameSerializer by gob-encoding a
// Frame's columns and lz4-compressing the result, mirroring the
// teacher's LZ4PartitionSerializer.
type LZ4Serializer struct{}

// NewLZ4Serializer constructs a FrameSerializer.
func NewLZ4Serializer() datatable.FrameSerializer { return LZ4Serializer{} }

type wireColumn struct {
	Kind byte
	Name string

	BoolData []int8
	I8Data   []int8
	I16Data  []int16
	I32Data  []int32
	I64Data  []int64
	F32Data  []float32
	F64Data  []float64

	Off32 []int32
	Off64 []int64
	Blob  []byte
}

const (
	kindBool byte = iota
	kindI8
	kindI16
	kindI32
	kindI64
	kindF32
	kindF64
	kindS32
	kindS64
)

func toWire(c datatable.Column) (wireColumn, error) {
	switch v := c.(type) {
	case *BoolColumn:
		return wireColumn{Kind: kindBool, Name: v.ColName, BoolData: v.Data}, nil
	case *Int8Column:
		return wireColumn{Kind: kindI8, Name: v.ColName, I8Data: v.Data}, nil
	case *Int16Column:
		return wireColumn{Kind: kindI16, Name: v.ColName, I16Data: v.Data}, nil
	case *Int32Column:
		return wireColumn{Kind: kindI32, Name: v.ColName, I32Data: v.Data}, nil
	case *Int64Column:
		return wireColumn{Kind: kindI64, Name: v.ColName, I64Data: v.Data}, nil
	case *Float32Column:
		return wireColumn{Kind: kindF32, Name: v.ColName, F32Data: v.Data}, nil
	case *Float64Column:
		return wireColumn{Kind: kindF64, Name: v.ColName, F64Data: v.Data}, nil
	case *StringColumn32:
		return wireColumn{Kind: kindS32, Name: v.ColName, Off32: v.Offsets, Blob: v.Blob}, nil
	case *StringColumn64:
		return wireColumn{Kind: kindS64, Name: v.ColName, Off64: v.Offsets, Blob: v.Blob}, nil
	default:
		return wireColumn{}, fmt.Errorf("frame: cannot serialize column of unrecognized implementation type %T", c)
	}
}

func fromWire(w wireColumn) datatable.Column {
	switch w.Kind {
	case kindBool:
		return &BoolColumn{ColName: w.Name, Data: w.BoolData}
	case kindI8:
		return &Int8Column{ColName: w.Name, Data: w.I8Data}
	case kindI16:
		return &Int16Column{ColName: w.Name, Data: w.I16Data}
	case kindI32:
		return &Int32Column{ColName: w.Name, Data: w.I32Data}
	case kindI64:
		return &Int64Column{ColName: w.Name, Data: w.I64Data}
	case kindF32:
		return &Float32Column{ColName: w.Name, Data: w.F32Data}
	case kindF64:
		return &Float64Column{ColName: w.Name, Data: w.F64Data}
	case kindS32:
		return &StringColumn32{ColName: w.Name, Offsets: w.Off32, Blob: w.Blob}
	case kindS64:
		return &StringColumn64{ColName: w.Name, Offsets: w.Off64, Blob: w.Blob}
	}
	return nil
}

// Compress serializes and lz4-compresses f's columns to w. Only
// allocation-backed columns are supported: a column produced by
// ApplyRowIndex (such as the input columns of an Aggregate exemplars
// Frame) makes Compress return an error.
func (LZ4Serializer) Compress(w io.Writer, f datatable.Frame) error {
	wireCols := make([]wireColumn, f.NCols())
	for i := 0; i < f.NCols(); i++ {
		wc, err := toWire(f.ColumnAt(i))
		if err != nil {
			return err
		}
		wireCols[i] = wc
	}
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(wireCols); err != nil {
		return fmt.Errorf("frame: gob-encoding columns: %w", err)
	}
	zw := lz4.NewWriter(w)
	if _, err := zw.Write(raw.Bytes()); err != nil {
		return fmt.Errorf("frame: lz4-compressing columns: %w", err)
	}
	return zw.Close()
}

// Decompress lz4-decompresses and deserializes a Frame from r.
func (LZ4Serializer) Decompress(r io.Reader) (datatable.Frame, error) {
	zr := lz4.NewReader(r)
	var raw bytes.Buffer
	if _, err := raw.ReadFrom(zr); err != nil {
		return nil, fmt.Errorf("frame: lz4-decompressing columns: %w", err)
	}
	var wireCols []wireColumn
	if err := gob.NewDecoder(&raw).Decode(&wireCols); err != nil {
		return nil, fmt.Errorf("frame: gob-decoding columns: %w", err)
	}
	cols := make([]datatable.Column, len(wireCols))
	for i, wc := range wireCols {
		cols[i] = fromWire(wc)
	}
	return New(cols...)
}
