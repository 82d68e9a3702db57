// Package nff defines the narrow interface boundary to the on-disk NFF
// column format, per spec.md §6 and §1's explicit scoping: the mmap-backed
// loader, the Python-facing bindings, and the column hasher hierarchy
// that would sit behind these interfaces are external collaborators and
// are not implemented in this repository.
package nff

import "github.com/imera88/datatable"

// Colspec describes one on-disk column: its name and its three-character
// stype code (see datatable.ColumnType.String), as found in an NFF
// file's column directory.
type Colspec struct {
	Name  string
	Stype string
}

// Type resolves this Colspec's stype code to a datatable.ColumnType,
// returning ok=false for an unrecognized code.
func (c Colspec) Type() (datatable.ColumnType, bool) {
	return datatable.StypeFromString(c.Stype)
}

// ColumnLoader loads one column's worth of data for a Colspec from
// whatever backing store an implementation wraps (a memory-mapped NFF
// file, in the original system). Column data for row i is missing iff
// Column(spec).IsMissing(i) reports true on the returned column.
type ColumnLoader interface {
	// Colspecs lists the columns available from this loader, in
	// on-disk order.
	Colspecs() []Colspec
	// Column loads the full column named by spec, or an error if spec
	// is not one of Colspecs().
	Column(spec Colspec) (datatable.Column, error)
}
