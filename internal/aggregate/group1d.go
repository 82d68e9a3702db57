package aggregate

import (
	"github.com/imera88/datatable"
	"github.com/imera88/datatable/internal/frame"
)

// group1DContinuous implements spec.md §4.2.2.
func group1DContinuous[T datatable.ColumnFloat](conv datatable.ColumnConvertor[T], nBins int) []int32 {
	coeffs := setNormCoeffs(conv.Min(), conv.Max(), float64(nBins))
	n := conv.NRows()
	members := make([]int32, n)
	for i := 0; i < n; i++ {
		v := conv.Read(i)
		if isNaN(v) {
			members[i] = missingMember
			continue
		}
		members[i] = int32(coeffs.apply(v))
	}
	return members
}

// missingMember is the sentinel a binning strategy writes into members
// for a missing input value: the same sentinel internal/frame uses for
// a missing Int32Column cell, since members is ultimately stored as one.
const missingMember = frame.NAInt32

// group1DCategorical implements spec.md §4.2.4: sort-group by column
// 0 and assign each row its group index.
func group1DCategorical(input datatable.Frame, columnIndex int) ([]int32, error) {
	ri, gb, err := input.Group(datatable.SortSpec{ColumnIndex: columnIndex})
	if err != nil {
		return nil, err
	}
	members := make([]int32, input.NRows())
	for g := 0; g < gb.NGroups(); g++ {
		start := gb.Offsets[g]
		end := gb.Offsets[g+1]
		for _, origRow := range ri[start:end] {
			members[origRow] = int32(g)
		}
	}
	return members, nil
}
