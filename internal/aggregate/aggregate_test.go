package aggregate

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imera88/datatable"
	"github.com/imera88/datatable/internal/frame"
)

func mustNewFrame(t *testing.T, cols ...datatable.Column) datatable.Frame {
	t.Helper()
	f, err := frame.New(cols...)
	require.NoError(t, err)
	return f
}

func baseConfig() datatable.AggregatorConfig {
	return datatable.AggregatorConfig{
		MinRows:       4,
		NBins:         4,
		NXBins:        4,
		NYBins:        4,
		NDMaxBins:     16,
		MaxDimensions: 8,
		Seed:          42,
		NThreads:      2,
	}
}

// Scenario 1: a 0-column frame falls back to rank-by-original-order,
// one exemplar per row.
func TestAggregate0DRankFallback(t *testing.T) {
	input := mustNewFrame(t)
	input = input.SetNRows(5)

	a := New[float64](baseConfig())
	exemplars, members, warnings, err := a.Aggregate(input)
	require.NoError(t, err)
	require.NoError(t, warnings)
	assert.Equal(t, 5, exemplars.NRows())
	assert.Equal(t, 5, members.NRows())
}

// Scenario 2: a single continuous column bins rows by value, with a
// missing value excluded from the exemplar set and left missing in
// members.
func TestAggregate1DContinuousExcludesMissingRow(t *testing.T) {
	cfg := baseConfig()
	col := &frame.Float64Column{ColName: "x", Data: []float64{0, 1, 2, 3, math.NaN()}}
	input := mustNewFrame(t, col)

	a := New[float64](cfg)
	exemplars, members, warnings, err := a.Aggregate(input)
	require.NoError(t, err)
	require.NoError(t, warnings)
	require.Equal(t, 5, members.NRows())

	memberCol := members.ColumnAt(0).(datatable.Int32Column)
	_, missingLast := memberCol.Get(4)
	assert.True(t, missingLast, "the NaN input row must remain missing in members")

	for i := 0; i < 4; i++ {
		_, missing := memberCol.Get(i)
		assert.False(t, missing, "row %d should have been assigned an exemplar", i)
	}
	assert.LessOrEqual(t, exemplars.NRows(), cfg.NBins)
}

// Scenario 3: a 2-D continuous frame assigns NA bins -1/-2/-3 (all
// distinct exemplars from the real bins and from each other), and
// counts every row.
func TestAggregate2DContinuousNABins(t *testing.T) {
	cfg := baseConfig()
	x := &frame.Float64Column{ColName: "x", Data: []float64{0, 1, 2, 3, math.NaN(), 1, math.NaN()}}
	y := &frame.Float64Column{ColName: "y", Data: []float64{0, 1, 2, 3, 1, math.NaN(), math.NaN()}}
	input := mustNewFrame(t, x, y)

	a := New[float64](cfg)
	exemplars, members, warnings, err := a.Aggregate(input)
	require.NoError(t, err)
	require.NoError(t, warnings)
	require.Equal(t, 7, members.NRows())

	totalMembers := 0
	countsCol := exemplars.ColumnAt(exemplars.NCols() - 1).(datatable.Int32Column)
	for i := 0; i < exemplars.NRows(); i++ {
		v, missing := countsCol.Get(i)
		require.False(t, missing)
		totalMembers += int(v)
	}
	assert.Equal(t, 7, totalMembers)
}

// Scenario 4: an ND (>=3 continuous columns) frame of two well-separated
// groups of repeated rows collapses identical rows onto shared
// exemplars: at least two exemplars, and fewer than one per row.
func TestAggregateNDClustersNearbyRows(t *testing.T) {
	cfg := baseConfig()
	cfg.MinRows = 1
	x := &frame.Float64Column{ColName: "x", Data: []float64{}}
	y := &frame.Float64Column{ColName: "y", Data: []float64{}}
	z := &frame.Float64Column{ColName: "z", Data: []float64{}}
	for i := 0; i < 20; i++ {
		x.Data = append(x.Data, 0.001*float64(i%3))
		y.Data = append(y.Data, 0.001*float64(i%3))
		z.Data = append(z.Data, 0.001*float64(i%3))
	}
	for i := 0; i < 20; i++ {
		x.Data = append(x.Data, 1000+0.001*float64(i%3))
		y.Data = append(y.Data, 1000+0.001*float64(i%3))
		z.Data = append(z.Data, 1000+0.001*float64(i%3))
	}
	input := mustNewFrame(t, x, y, z)

	a := New[float64](cfg)
	exemplars, members, warnings, err := a.Aggregate(input)
	require.NoError(t, err)
	require.NoError(t, warnings)
	assert.Equal(t, 40, members.NRows())
	assert.GreaterOrEqual(t, exemplars.NRows(), 2)
	assert.Less(t, exemplars.NRows(), 40)
}

// Scenario 5: when a 1-D categorical column's group count exceeds
// n_bins+1 (the cap the ncols==1 dispatch uses, with one NA slot),
// sub-sampling reduces the exemplar count to exactly n_bins.
func TestAggregate1DCategoricalSubsamples(t *testing.T) {
	cfg := baseConfig()
	cfg.MinRows = 1
	cat := &frame.StringBuilder{}
	for i := 0; i < 1000; i++ {
		cat.AppendValue(strconv.Itoa(i))
	}
	input := mustNewFrame(t, cat.Build("c"))

	a := New[float64](cfg)
	exemplars, members, warnings, err := a.Aggregate(input)
	require.NoError(t, err)
	require.NoError(t, warnings)
	assert.Equal(t, cfg.NBins, exemplars.NRows())
	assert.Equal(t, 1000, members.NRows())
}

// Scenario 6: a frame with 3+ columns where only one is numeric drops
// the categorical columns and warns, then proceeds as 1-D continuous.
func TestAggregateDropsCategoricalAtThreeColumns(t *testing.T) {
	cfg := baseConfig()
	x := &frame.Float64Column{ColName: "x", Data: []float64{0, 1, 2, 3}}
	c1 := &frame.StringColumn32{ColName: "c1", Offsets: []int32{1, 2, 3, 4}, Blob: []byte("abab")}
	c2 := &frame.StringColumn32{ColName: "c2", Offsets: []int32{1, 2, 3, 4}, Blob: []byte("baba")}
	input := mustNewFrame(t, x, c1, c2)

	a := New[float64](cfg)
	exemplars, members, warnings, err := a.Aggregate(input)
	require.NoError(t, err)
	require.Error(t, warnings, "dropping categorical columns at >=3 total columns must warn")
	assert.Equal(t, 4, members.NRows())
	assert.Equal(t, 4, exemplars.NCols(), "exemplars keep every original input column (including the dropped-from-grouping categoricals) plus members_count")
}

// Below MinRows, the 0-D fallback assigns each row a distinct rank
// based on sorting by column 0.
func TestAggregateBelowMinRowsUsesRankFallback(t *testing.T) {
	cfg := baseConfig()
	cfg.MinRows = 100
	x := &frame.Float64Column{ColName: "x", Data: []float64{3, 1, 2}}
	input := mustNewFrame(t, x)

	a := New[float64](cfg)
	exemplars, members, warnings, err := a.Aggregate(input)
	require.NoError(t, err)
	require.NoError(t, warnings)
	assert.Equal(t, 3, exemplars.NRows())
	assert.Equal(t, 3, members.NRows())
}

func TestAggregateEmptyFrameYieldsEmptyOutputs(t *testing.T) {
	cfg := baseConfig()
	x := &frame.Float64Column{ColName: "x", Data: []float64{}}
	input := mustNewFrame(t, x)

	a := New[float64](cfg)
	exemplars, members, warnings, err := a.Aggregate(input)
	require.NoError(t, err)
	require.NoError(t, warnings)
	assert.Equal(t, 0, exemplars.NRows())
	assert.Equal(t, 0, members.NRows())
}

func TestAggregateRejectsInvalidConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.NBins = 0
	a := New[float64](cfg)
	x := &frame.Float64Column{ColName: "x", Data: []float64{1, 2, 3}}
	input := mustNewFrame(t, x)

	_, _, _, err := a.Aggregate(input)
	require.Error(t, err)
}
