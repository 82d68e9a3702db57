package frame

import (
	"bytes"
	"testing"

	"github.com/imera88/datatable"
	"github.com/stretchr/testify/require"
)

func TestLZ4SerializerRoundTrip(t *testing.T) {
	sb := &StringBuilder{}
	sb.AppendValue("foo")
	sb.AppendMissing()
	f, err := New(intCol("a", 1, NAInt32), sb.Build("s"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewLZ4Serializer().Compress(&buf, f))

	out, err := NewLZ4Serializer().Decompress(&buf)
	require.NoError(t, err)
	require.Equal(t, f.NRows(), out.NRows())
	require.Equal(t, f.NCols(), out.NCols())

	oc := out.ColumnAt(1).(interface{ Get(int) (string, bool) })
	v, m := oc.Get(0)
	require.False(t, m)
	require.Equal(t, "foo", v)
	_, m1 := oc.Get(1)
	require.True(t, m1)
}

func TestGroupCacheComputesOnceAndHitsCache(t *testing.T) {
	cache, err := NewGroupCache(2, 2)
	require.NoError(t, err)

	calls := 0
	compute := func() (datatable.RowIndex, datatable.Groupby, error) {
		calls++
		return datatable.RowIndex{0, 1}, datatable.Groupby{Offsets: []int32{0, 2}}, nil
	}

	ri1, gb1, err := cache.GetOrCompute("k", compute)
	require.NoError(t, err)
	require.Equal(t, datatable.RowIndex{0, 1}, ri1)
	require.Equal(t, 1, gb1.NGroups())

	_, _, err = cache.GetOrCompute("k", compute)
	require.NoError(t, err)
	require.Equal(t, 1, calls, "second call for the same key must hit the cache, not recompute")
}
