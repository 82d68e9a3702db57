package frame

import (
	"testing"

	"github.com/imera88/datatable"
	"github.com/stretchr/testify/require"
)

func intCol(name string, vals ...int32) *Int32Column {
	return &Int32Column{ColName: name, Data: vals}
}

func TestFrameBasics(t *testing.T) {
	a := intCol("a", 3, 1, NAInt32, 2)
	f, err := New(a)
	require.NoError(t, err)
	require.Equal(t, 4, f.NRows())
	require.Equal(t, 1, f.NCols())
	require.Equal(t, []string{"a"}, f.ColumnNames())

	col, ok := f.Column("a")
	require.True(t, ok)
	require.Equal(t, datatable.ColumnInt32, col.Type())
	require.True(t, col.IsMissing(2))
}

func TestApplyRowIndexIsAView(t *testing.T) {
	a := intCol("a", 10, 20, 30)
	f, err := New(a)
	require.NoError(t, err)

	view := f.ApplyRowIndex(datatable.RowIndex{2, 0})
	require.Equal(t, 2, view.NRows())
	vc := view.ColumnAt(0).(datatable.Int32Column)
	v0, m0 := vc.Get(0)
	require.False(t, m0)
	require.Equal(t, int32(30), v0)
	v1, _ := vc.Get(1)
	require.Equal(t, int32(10), v1)

	a.Data[0] = 999
	v1b, _ := vc.Get(1)
	require.Equal(t, int32(999), v1b, "view must read through to mutated backing storage, not a copy")
}

func TestCbindRejectsDuplicateNames(t *testing.T) {
	a, _ := New(intCol("a", 1, 2))
	b, _ := New(intCol("a", 3, 4))
	_, err := a.Cbind(b)
	require.Error(t, err)
}

func TestCbindRejectsRowCountMismatch(t *testing.T) {
	a, _ := New(intCol("a", 1, 2))
	b, _ := New(intCol("b", 3, 4, 5))
	_, err := a.Cbind(b)
	require.Error(t, err)
}

func TestSetNRowsGrowsWithMissing(t *testing.T) {
	a, _ := New(intCol("a", 1, 2))
	grown := a.SetNRows(4)
	require.Equal(t, 4, grown.NRows())
	c := grown.ColumnAt(0).(datatable.Int32Column)
	v, m := c.Get(2)
	require.True(t, m)
	require.Equal(t, NAInt32, v)
}

func TestGroupSortsAndPartitions(t *testing.T) {
	a := intCol("a", 2, 1, 2, 1, 3)
	f, err := New(a)
	require.NoError(t, err)

	ri, gb, err := f.Group(datatable.SortSpec{ColumnIndex: 0})
	require.NoError(t, err)
	require.Equal(t, 3, gb.NGroups())

	ordered := f.ApplyRowIndex(ri).ColumnAt(0).(datatable.Int32Column)
	prev := int32(-1 << 30)
	for i := 0; i < ordered.Len(); i++ {
		v, _ := ordered.Get(i)
		require.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestGroupMissingSortsFirstByDefault(t *testing.T) {
	a := intCol("a", 5, NAInt32, 1)
	f, _ := New(a)
	ri, _, err := f.Group(datatable.SortSpec{ColumnIndex: 0})
	require.NoError(t, err)
	require.Equal(t, int32(1), ri[0])
}

func TestStringColumnMissingEncoding(t *testing.T) {
	b := &StringBuilder{}
	b.AppendValue("hello")
	b.AppendMissing()
	b.AppendValue("world")
	col := b.Build("s").(*StringColumn32)

	v0, m0 := col.Get(0)
	require.False(t, m0)
	require.Equal(t, "hello", v0)

	_, m1 := col.Get(1)
	require.True(t, m1)

	v2, m2 := col.Get(2)
	require.False(t, m2)
	require.Equal(t, "world", v2)
}
