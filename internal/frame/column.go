// Package frame implements datatable.Frame and datatable.Column: the
// columnar storage underneath the root package's interfaces.
package frame

import (
	"math"

	"github.com/imera88/datatable"
)

// NABool, NAInt8, ... are the exact missing-value sentinels named in
// spec.md §3: the most negative representable integer for integer
// types, NaN for floats, and a negative-offset encoding for strings
// (see StringColumn below).
const (
	NABool  = int8(math.MinInt8)
	NAInt8  = int8(math.MinInt8)
	NAInt16 = int16(math.MinInt16)
	NAInt32 = int32(math.MinInt32)
	NAInt64 = int64(math.MinInt64)
)

func naFloat32() float32 { return float32(math.NaN()) }
func naFloat64() float64 { return math.NaN() }

// BoolColumn stores one signed byte per row: 0 false, 1 true, NABool
// missing.
type BoolColumn struct {
	ColName string
	Data    []int8
}

func (c *BoolColumn) Name() string             { return c.ColName }
func (c *BoolColumn) Type() datatable.ColumnType { return datatable.ColumnBool }
func (c *BoolColumn) Len() int                  { return len(c.Data) }
func (c *BoolColumn) IsMissing(row int) bool    { return c.Data[row] == NABool }
func (c *BoolColumn) Clone() datatable.Column {
	return &BoolColumn{ColName: c.ColName, Data: c.Data}
}
func (c *BoolColumn) Get(row int) (bool, bool) {
	v := c.Data[row]
	if v == NABool {
		return false, true
	}
	return v != 0, false
}
func (c *BoolColumn) resize(n int) datatable.Column {
	out := make([]int8, n)
	for i := range out {
		out[i] = NABool
	}
	copy(out, c.Data)
	return &BoolColumn{ColName: c.ColName, Data: out}
}

// Int8Column, Int16Column, Int32Column, Int64Column store a fixed-width
// signed integer per row; the minimum representable value of the width
// is reserved for missing.

type Int8Column struct {
	ColName string
	Data    []int8
}

func (c *Int8Column) Name() string               { return c.ColName }
func (c *Int8Column) Type() datatable.ColumnType { return datatable.ColumnInt8 }
func (c *Int8Column) Len() int                    { return len(c.Data) }
func (c *Int8Column) IsMissing(row int) bool      { return c.Data[row] == NAInt8 }
func (c *Int8Column) Clone() datatable.Column {
	return &Int8Column{ColName: c.ColName, Data: c.Data}
}
func (c *Int8Column) Get(row int) (int8, bool) {
	v := c.Data[row]
	return v, v == NAInt8
}
func (c *Int8Column) resize(n int) datatable.Column {
	out := make([]int8, n)
	for i := range out {
		out[i] = NAInt8
	}
	copy(out, c.Data)
	return &Int8Column{ColName: c.ColName, Data: out}
}

type Int16Column struct {
	ColName string
	Data    []int16
}

func (c *Int16Column) Name() string               { return c.ColName }
func (c *Int16Column) Type() datatable.ColumnType { return datatable.ColumnInt16 }
func (c *Int16Column) Len() int                    { return len(c.Data) }
func (c *Int16Column) IsMissing(row int) bool      { return c.Data[row] == NAInt16 }
func (c *Int16Column) Clone() datatable.Column {
	return &Int16Column{ColName: c.ColName, Data: c.Data}
}
func (c *Int16Column) Get(row int) (int16, bool) {
	v := c.Data[row]
	return v, v == NAInt16
}
func (c *Int16Column) resize(n int) datatable.Column {
	out := make([]int16, n)
	for i := range out {
		out[i] = NAInt16
	}
	copy(out, c.Data)
	return &Int16Column{ColName: c.ColName, Data: out}
}

type Int32Column struct {
	ColName string
	Data    []int32
}

func (c *Int32Column) Name() string               { return c.ColName }
func (c *Int32Column) Type() datatable.ColumnType { return datatable.ColumnInt32 }
func (c *Int32Column) Len() int                    { return len(c.Data) }
func (c *Int32Column) IsMissing(row int) bool      { return c.Data[row] == NAInt32 }
func (c *Int32Column) Clone() datatable.Column {
	return &Int32Column{ColName: c.ColName, Data: c.Data}
}
func (c *Int32Column) Get(row int) (int32, bool) {
	v := c.Data[row]
	return v, v == NAInt32
}
func (c *Int32Column) resize(n int) datatable.Column {
	out := make([]int32, n)
	for i := range out {
		out[i] = NAInt32
	}
	copy(out, c.Data)
	return &Int32Column{ColName: c.ColName, Data: out}
}

type Int64Column struct {
	ColName string
	Data    []int64
}

func (c *Int64Column) Name() string               { return c.ColName }
func (c *Int64Column) Type() datatable.ColumnType { return datatable.ColumnInt64 }
func (c *Int64Column) Len() int                    { return len(c.Data) }
func (c *Int64Column) IsMissing(row int) bool      { return c.Data[row] == NAInt64 }
func (c *Int64Column) Clone() datatable.Column {
	return &Int64Column{ColName: c.ColName, Data: c.Data}
}
func (c *Int64Column) Get(row int) (int64, bool) {
	v := c.Data[row]
	return v, v == NAInt64
}
func (c *Int64Column) resize(n int) datatable.Column {
	out := make([]int64, n)
	for i := range out {
		out[i] = NAInt64
	}
	copy(out, c.Data)
	return &Int64Column{ColName: c.ColName, Data: out}
}

// Float32Column and Float64Column store IEEE floats; NaN is missing.

type Float32Column struct {
	ColName string
	Data    []float32
}

func (c *Float32Column) Name() string               { return c.ColName }
func (c *Float32Column) Type() datatable.ColumnType { return datatable.ColumnFloat32 }
func (c *Float32Column) Len() int                    { return len(c.Data) }
func (c *Float32Column) IsMissing(row int) bool      { return math.IsNaN(float64(c.Data[row])) }
func (c *Float32Column) Clone() datatable.Column {
	return &Float32Column{ColName: c.ColName, Data: c.Data}
}
func (c *Float32Column) Get(row int) (float32, bool) {
	v := c.Data[row]
	return v, math.IsNaN(float64(v))
}
func (c *Float32Column) resize(n int) datatable.Column {
	out := make([]float32, n)
	na := naFloat32()
	for i := range out {
		out[i] = na
	}
	copy(out, c.Data)
	return &Float32Column{ColName: c.ColName, Data: out}
}

type Float64Column struct {
	ColName string
	Data    []float64
}

func (c *Float64Column) Name() string               { return c.ColName }
func (c *Float64Column) Type() datatable.ColumnType { return datatable.ColumnFloat64 }
func (c *Float64Column) Len() int                    { return len(c.Data) }
func (c *Float64Column) IsMissing(row int) bool      { return math.IsNaN(c.Data[row]) }
func (c *Float64Column) Clone() datatable.Column {
	return &Float64Column{ColName: c.ColName, Data: c.Data}
}
func (c *Float64Column) Get(row int) (float64, bool) {
	v := c.Data[row]
	return v, math.IsNaN(v)
}
func (c *Float64Column) resize(n int) datatable.Column {
	out := make([]float64, n)
	na := naFloat64()
	for i := range out {
		out[i] = na
	}
	copy(out, c.Data)
	return &Float64Column{ColName: c.ColName, Data: out}
}

// resizable is implemented by every concrete, allocation-backed Column
// (never by the RowIndex views in rowindex.go). Frame.SetNRows uses it.
type resizable interface {
	resize(n int) datatable.Column
}

// Resize grows or shrinks a Column to n rows in place of the Frame-level
// SetNRows, preserving the row/column overlap and filling any newly
// added rows with the type's missing sentinel. It panics if col is a
// view produced by ApplyRowIndex, which is intentional: views have no
// backing allocation to grow.
func Resize(col datatable.Column, n int) datatable.Column {
	r, ok := col.(resizable)
	if !ok {
		panic("frame: Resize called on a non-resizable column view")
	}
	return r.resize(n)
}
