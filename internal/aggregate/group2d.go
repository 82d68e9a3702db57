package aggregate

import "github.com/imera88/datatable"

// group2DContinuous implements spec.md §4.2.3. NA-only rows occupy
// bins -1, -2, -3 (is_missing(v0) + 2*is_missing(v1)), kept disjoint
// from every non-NA bin by negating them.
func group2DContinuous[T datatable.ColumnFloat](x, y datatable.ColumnConvertor[T], nxBins, nyBins int) []int32 {
	cx := setNormCoeffs(x.Min(), x.Max(), float64(nxBins))
	cy := setNormCoeffs(y.Min(), y.Max(), float64(nyBins))
	n := x.NRows()
	members := make([]int32, n)
	for i := 0; i < n; i++ {
		vx, vy := x.Read(i), y.Read(i)
		mx, my := isNaN(vx), isNaN(vy)
		na := 0
		if mx {
			na++
		}
		if my {
			na += 2
		}
		if na != 0 {
			members[i] = int32(-na)
			continue
		}
		members[i] = int32(cy.apply(vy))*int32(nxBins) + int32(cx.apply(vx))
	}
	return members
}

// group2DCategorical implements spec.md §4.2.5's pure-categorical
// case: sort-group by both categorical columns, emitting group_id for
// non-NA pairs and -naCase for any row with a missing key.
func group2DCategorical(input datatable.Frame, col0, col1 int) ([]int32, error) {
	ri, gb, err := input.Group(
		datatable.SortSpec{ColumnIndex: col0},
		datatable.SortSpec{ColumnIndex: col1},
	)
	if err != nil {
		return nil, err
	}
	members := make([]int32, input.NRows())
	c0, c1 := input.ColumnAt(col0), input.ColumnAt(col1)
	for g := 0; g < gb.NGroups(); g++ {
		start, end := gb.Offsets[g], gb.Offsets[g+1]
		row := int(ri[start])
		m0, m1 := c0.IsMissing(row), c1.IsMissing(row)
		na := 0
		if m0 {
			na++
		}
		if m1 {
			na += 2
		}
		for _, origRow := range ri[start:end] {
			if na != 0 {
				members[origRow] = int32(-na)
			} else {
				members[origRow] = int32(g)
			}
		}
	}
	return members, nil
}

// group2DMixed implements spec.md §4.2.5's mixed case: one continuous
// column, one categorical column. Groups by the categorical column
// first; within each group, non-NA rows get g*nxBins + bin(v), and any
// row missing either key gets -naCase.
func group2DMixed[T datatable.ColumnFloat](input datatable.Frame, catCol int, x datatable.ColumnConvertor[T], nxBins int) ([]int32, error) {
	ri, gb, err := input.Group(datatable.SortSpec{ColumnIndex: catCol})
	if err != nil {
		return nil, err
	}
	cx := setNormCoeffs(x.Min(), x.Max(), float64(nxBins))
	catColumn := input.ColumnAt(catCol)
	members := make([]int32, input.NRows())
	for g := 0; g < gb.NGroups(); g++ {
		start, end := gb.Offsets[g], gb.Offsets[g+1]
		for _, origRow := range ri[start:end] {
			vx := x.Read(int(origRow))
			mCat := catColumn.IsMissing(int(origRow))
			mX := isNaN(vx)
			na := 0
			if mX {
				na++
			}
			if mCat {
				na += 2
			}
			if na != 0 {
				members[origRow] = int32(-na)
				continue
			}
			members[origRow] = int32(g)*int32(nxBins) + int32(cx.apply(vx))
		}
	}
	return members, nil
}
