package datatable

// Frame is a columnar table: an ordered sequence of typed Columns
// sharing a row count. Every Column has length nrows; a Column's type
// is immutable after creation. See spec.md §3 for the full invariant
// set.
type Frame interface {
	NRows() int                          // NRows returns the number of rows
	NCols() int                          // NCols returns the number of columns
	ColumnNames() []string               // ColumnNames returns column names in position order
	ColumnAt(i int) Column               // ColumnAt returns the column at position i
	Column(name string) (Column, bool)   // Column looks up a column by name
	Copy() Frame                         // Copy produces a shallow copy sharing underlying column storage
	ApplyRowIndex(ri RowIndex) Frame      // ApplyRowIndex produces a view of this Frame re-ordered/filtered by ri, without copying data
	Cbind(others ...Frame) (Frame, error) // Cbind appends the columns of others to this Frame, requiring equal row counts and disjoint names
	SetNRows(n int) Frame                 // SetNRows reallocates every column to the given row count, preserving the overlap and extending with missing values
	Group(spec ...SortSpec) (RowIndex, Groupby, error) // Group sorts and groups the Frame per spec, returning a permutation and its group boundaries
}

// SortSpec describes one column to sort/group by.
type SortSpec struct {
	ColumnIndex  int  // ColumnIndex is the position of the column to sort by
	Descending   bool // Descending reverses sort order
	NALast       bool // NALast places missing values after all present values instead of before
	RemoveGroups bool // RemoveGroups requests a pure sort (RowIndex only; Groupby may be a single group)
}

// RowIndex is a permutation ri[j] of input row numbers: it maps output
// position j to the input row that belongs there. See spec.md §3.
type RowIndex []int32

// Groupby partitions the rows addressed by a RowIndex into contiguous
// groups: group g occupies ri[Offsets[g]:Offsets[g+1]]. Offsets[0]==0
// and Offsets[len(Offsets)-1]==nrows, per spec.md §3.
type Groupby struct {
	Offsets []int32
}

// NGroups returns the number of groups.
func (g Groupby) NGroups() int {
	if len(g.Offsets) == 0 {
		return 0
	}
	return len(g.Offsets) - 1
}

// GroupLen returns the number of rows in group i.
func (g Groupby) GroupLen(i int) int {
	return int(g.Offsets[i+1] - g.Offsets[i])
}
