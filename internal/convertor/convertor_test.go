package convertor

import (
	"math"
	"testing"

	"github.com/imera88/datatable/internal/frame"
	"github.com/stretchr/testify/require"
)

func TestConvertorMinMaxOverIntColumn(t *testing.T) {
	col := &frame.Int32Column{ColName: "x", Data: []int32{5, -3, frame.NAInt32, 10}}
	c, err := New[float64](col)
	require.NoError(t, err)

	require.Equal(t, 4, c.NRows())
	require.Equal(t, -3.0, c.Min())
	require.Equal(t, 10.0, c.Max())
	require.True(t, math.IsNaN(float64(c.Read(2))))
	require.Equal(t, 5.0, c.Read(0))
}

func TestConvertorRejectsStringColumn(t *testing.T) {
	sb := &frame.StringBuilder{}
	sb.AppendValue("a")
	col := sb.Build("s")
	_, err := New[float32](col)
	require.Error(t, err)
}

func TestConvertorAllMissingYieldsNaNExtrema(t *testing.T) {
	col := &frame.Int8Column{ColName: "x", Data: []int8{frame.NAInt8, frame.NAInt8}}
	c, err := New[float32](col)
	require.NoError(t, err)
	require.True(t, math.IsNaN(float64(c.Min())))
	require.True(t, math.IsNaN(float64(c.Max())))
}
