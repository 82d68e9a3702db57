// Package convertor implements datatable.ColumnConvertor: a uniform,
// T-typed read view over any numeric Column, computed once at
// construction rather than materialized.
package convertor

import (
	"math"

	derrors "github.com/imera88/datatable/errors"

	"github.com/imera88/datatable"
)

type convertor[T datatable.ColumnFloat] struct {
	nrows int
	min   T
	max   T
	read  func(row int) T
}

func (c *convertor[T]) Min() T     { return c.min }
func (c *convertor[T]) Max() T     { return c.max }
func (c *convertor[T]) NRows() int { return c.nrows }
func (c *convertor[T]) Read(row int) T {
	return c.read(row)
}

func missing[T datatable.ColumnFloat]() T {
	return T(math.NaN())
}

func isNaN[T datatable.ColumnFloat](v T) bool {
	return float64(v) != float64(v)
}

// New builds a ColumnConvertor[T] over col. It returns an
// InvalidArgumentError if col's ColumnType is not numeric.
func New[T datatable.ColumnFloat](col datatable.Column) (datatable.ColumnConvertor[T], error) {
	if !col.Type().IsNumeric() {
		return nil, derrors.InvalidArgumentError{Reason: "ColumnConvertor requires a numeric column, got " + col.Type().String()}
	}
	na := missing[T]()
	n := col.Len()
	read, err := readerFor[T](col)
	if err != nil {
		return nil, err
	}
	c := &convertor[T]{nrows: n, read: read}
	haveExtrema := false
	for i := 0; i < n; i++ {
		v := read(i)
		if isNaN(v) {
			continue
		}
		if !haveExtrema {
			c.min, c.max = v, v
			haveExtrema = true
			continue
		}
		if v < c.min {
			c.min = v
		}
		if v > c.max {
			c.max = v
		}
	}
	if !haveExtrema {
		c.min, c.max = na, na
	}
	return c, nil
}

func readerFor[T datatable.ColumnFloat](col datatable.Column) (func(row int) T, error) {
	na := missing[T]()
	switch c := col.(type) {
	case datatable.BoolColumn:
		return func(row int) T {
			v, m := c.Get(row)
			if m {
				return na
			}
			if v {
				return T(1)
			}
			return T(0)
		}, nil
	case datatable.Int8Column:
		return func(row int) T {
			v, m := c.Get(row)
			if m {
				return na
			}
			return T(v)
		}, nil
	case datatable.Int16Column:
		return func(row int) T {
			v, m := c.Get(row)
			if m {
				return na
			}
			return T(v)
		}, nil
	case datatable.Int32Column:
		return func(row int) T {
			v, m := c.Get(row)
			if m {
				return na
			}
			return T(v)
		}, nil
	case datatable.Int64Column:
		return func(row int) T {
			v, m := c.Get(row)
			if m {
				return na
			}
			return T(v)
		}, nil
	case datatable.Float32Column:
		return func(row int) T {
			v, m := c.Get(row)
			if m {
				return na
			}
			return T(v)
		}, nil
	case datatable.Float64Column:
		return func(row int) T {
			v, m := c.Get(row)
			if m {
				return na
			}
			return T(v)
		}, nil
	default:
		return nil, derrors.InvalidArgumentError{Reason: "ColumnConvertor requires a numeric column"}
	}
}
