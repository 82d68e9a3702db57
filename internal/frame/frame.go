package frame

import (
	"fmt"

	derrors "github.com/imera88/datatable/errors"

	"github.com/imera88/datatable"
)

// Frame is the concrete, allocation-backed (or RowIndex-view)
// implementation of datatable.Frame.
type Frame struct {
	cols  []datatable.Column
	nrows int
}

// New builds a Frame from columns that must all share one row count.
func New(cols ...datatable.Column) (*Frame, error) {
	nrows := 0
	if len(cols) > 0 {
		nrows = cols[0].Len()
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.Len() != nrows {
			return nil, derrors.InvalidArgumentError{Reason: fmt.Sprintf(
				"column %q has %d rows, frame has %d", c.Name(), c.Len(), nrows)}
		}
		if seen[c.Name()] {
			return nil, derrors.InvalidArgumentError{Reason: fmt.Sprintf("duplicate column name %q", c.Name())}
		}
		seen[c.Name()] = true
	}
	return &Frame{cols: cols, nrows: nrows}, nil
}

func (f *Frame) NRows() int { return f.nrows }
func (f *Frame) NCols() int { return len(f.cols) }

func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name()
	}
	return names
}

func (f *Frame) ColumnAt(i int) datatable.Column { return f.cols[i] }

func (f *Frame) Column(name string) (datatable.Column, bool) {
	for _, c := range f.cols {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Copy returns a shallow copy: a new Frame header sharing every
// Column's underlying storage, per spec.md §3's copy-on-write intent.
func (f *Frame) Copy() datatable.Frame {
	cols := make([]datatable.Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.Clone()
	}
	return &Frame{cols: cols, nrows: f.nrows}
}

func (f *Frame) ApplyRowIndex(ri datatable.RowIndex) datatable.Frame {
	cols := make([]datatable.Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = ApplyRowIndex(c, ri)
	}
	return &Frame{cols: cols, nrows: len(ri)}
}

func (f *Frame) Cbind(others ...datatable.Frame) (datatable.Frame, error) {
	cols := make([]datatable.Column, len(f.cols))
	copy(cols, f.cols)
	names := make(map[string]bool, len(cols))
	for _, c := range cols {
		names[c.Name()] = true
	}
	for _, other := range others {
		if other.NRows() != f.nrows {
			return nil, derrors.InvalidArgumentError{Reason: fmt.Sprintf(
				"cbind: row count mismatch, %d vs %d", other.NRows(), f.nrows)}
		}
		for i := 0; i < other.NCols(); i++ {
			c := other.ColumnAt(i)
			if names[c.Name()] {
				return nil, derrors.InvalidArgumentError{Reason: fmt.Sprintf("cbind: duplicate column name %q", c.Name())}
			}
			names[c.Name()] = true
			cols = append(cols, c)
		}
	}
	return &Frame{cols: cols, nrows: f.nrows}, nil
}

func (f *Frame) SetNRows(n int) datatable.Frame {
	cols := make([]datatable.Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = Resize(c, n)
	}
	return &Frame{cols: cols, nrows: n}
}

func (f *Frame) Group(spec ...datatable.SortSpec) (datatable.RowIndex, datatable.Groupby, error) {
	return Group(f, spec)
}

func invalidColumnIndex(i int) error {
	return derrors.InvalidArgumentError{Reason: fmt.Sprintf("column index %d out of range", i)}
}
