package frame

import "github.com/imera88/datatable"

// viewColumn is a read-only re-ordering/filtering view over a base
// Column, addressed by a RowIndex: viewColumn.Get(j) reads
// base.Get(ri[j]). It never copies the base column's storage, which is
// how ApplyRowIndex satisfies the "view, not copy" invariant in
// spec.md §3. One generic instantiation serves every value kind; V is
// fixed by whichever typed Get closure the factory below selects.
type viewColumn[V any] struct {
	name string
	typ  datatable.ColumnType
	base datatable.Column
	ri   datatable.RowIndex
	get  func(base datatable.Column, row int) (V, bool)
}

func (v *viewColumn[V]) Name() string               { return v.name }
func (v *viewColumn[V]) Type() datatable.ColumnType { return v.typ }
func (v *viewColumn[V]) Len() int                    { return len(v.ri) }
func (v *viewColumn[V]) Clone() datatable.Column {
	cp := *v
	return &cp
}
func (v *viewColumn[V]) IsMissing(row int) bool {
	_, missing := v.get(v.base, int(v.ri[row]))
	return missing
}
func (v *viewColumn[V]) Get(row int) (V, bool) {
	return v.get(v.base, int(v.ri[row]))
}

// ApplyRowIndex wraps col in a viewColumn matching col's concrete type,
// reordered/filtered by ri. It panics on a Column type this package did
// not create, which can only happen if a caller hand-rolls a
// datatable.Column outside this package.
func ApplyRowIndex(col datatable.Column, ri datatable.RowIndex) datatable.Column {
	switch base := col.(type) {
	case *BoolColumn:
		return &viewColumn[bool]{name: base.ColName, typ: datatable.ColumnBool, base: base, ri: ri,
			get: func(c datatable.Column, row int) (bool, bool) { return c.(*BoolColumn).Get(row) }}
	case *Int8Column:
		return &viewColumn[int8]{name: base.ColName, typ: datatable.ColumnInt8, base: base, ri: ri,
			get: func(c datatable.Column, row int) (int8, bool) { return c.(*Int8Column).Get(row) }}
	case *Int16Column:
		return &viewColumn[int16]{name: base.ColName, typ: datatable.ColumnInt16, base: base, ri: ri,
			get: func(c datatable.Column, row int) (int16, bool) { return c.(*Int16Column).Get(row) }}
	case *Int32Column:
		return &viewColumn[int32]{name: base.ColName, typ: datatable.ColumnInt32, base: base, ri: ri,
			get: func(c datatable.Column, row int) (int32, bool) { return c.(*Int32Column).Get(row) }}
	case *Int64Column:
		return &viewColumn[int64]{name: base.ColName, typ: datatable.ColumnInt64, base: base, ri: ri,
			get: func(c datatable.Column, row int) (int64, bool) { return c.(*Int64Column).Get(row) }}
	case *Float32Column:
		return &viewColumn[float32]{name: base.ColName, typ: datatable.ColumnFloat32, base: base, ri: ri,
			get: func(c datatable.Column, row int) (float32, bool) { return c.(*Float32Column).Get(row) }}
	case *Float64Column:
		return &viewColumn[float64]{name: base.ColName, typ: datatable.ColumnFloat64, base: base, ri: ri,
			get: func(c datatable.Column, row int) (float64, bool) { return c.(*Float64Column).Get(row) }}
	case *StringColumn32:
		return &viewColumn[string]{name: base.ColName, typ: datatable.ColumnString32, base: base, ri: ri,
			get: func(c datatable.Column, row int) (string, bool) { return c.(*StringColumn32).Get(row) }}
	case *StringColumn64:
		return &viewColumn[string]{name: base.ColName, typ: datatable.ColumnString64, base: base, ri: ri,
			get: func(c datatable.Column, row int) (string, bool) { return c.(*StringColumn64).Get(row) }}
	case *viewColumn[bool]:
		return composeView(base, ri, func(c datatable.Column, row int) (bool, bool) { return c.(*viewColumn[bool]).Get(row) })
	case *viewColumn[int8]:
		return composeView(base, ri, func(c datatable.Column, row int) (int8, bool) { return c.(*viewColumn[int8]).Get(row) })
	case *viewColumn[int16]:
		return composeView(base, ri, func(c datatable.Column, row int) (int16, bool) { return c.(*viewColumn[int16]).Get(row) })
	case *viewColumn[int32]:
		return composeView(base, ri, func(c datatable.Column, row int) (int32, bool) { return c.(*viewColumn[int32]).Get(row) })
	case *viewColumn[int64]:
		return composeView(base, ri, func(c datatable.Column, row int) (int64, bool) { return c.(*viewColumn[int64]).Get(row) })
	case *viewColumn[float32]:
		return composeView(base, ri, func(c datatable.Column, row int) (float32, bool) { return c.(*viewColumn[float32]).Get(row) })
	case *viewColumn[float64]:
		return composeView(base, ri, func(c datatable.Column, row int) (float64, bool) { return c.(*viewColumn[float64]).Get(row) })
	case *viewColumn[string]:
		return composeView(base, ri, func(c datatable.Column, row int) (string, bool) { return c.(*viewColumn[string]).Get(row) })
	default:
		panic("frame: ApplyRowIndex called on an unrecognized Column implementation")
	}
}

func composeView[V any](base interface {
	datatable.Column
}, ri datatable.RowIndex, get func(datatable.Column, int) (V, bool)) datatable.Column {
	return &viewColumn[V]{name: base.Name(), typ: base.Type(), base: base, ri: ri, get: get}
}
