package datatable

// ColumnFloat is the set of floating-point types a ColumnConvertor can
// present: T ∈ {float32, float64}, per spec.md §4.1. Templating over T
// is exposed at the boundary as a Go type parameter rather than as a
// runtime-switched interface, per the design notes in spec.md §9.
type ColumnFloat interface {
	~float32 | ~float64
}

// ColumnConvertor provides a uniform T-typed, random-access read view
// over a heterogeneous numeric Column. It never materializes the full
// converted column -- Read is an index function, not a cache -- and its
// extrema are computed once at construction. Creation fails (returns a
// non-nil error from the constructor) if the source Column is
// non-numeric.
type ColumnConvertor[T ColumnFloat] interface {
	Min() T       // Min returns the column minimum over non-missing values
	Max() T       // Max returns the column maximum over non-missing values
	NRows() int   // NRows returns the row count
	Read(row int) T // Read returns the T-typed value at row, or the canonical T-missing sentinel
}
