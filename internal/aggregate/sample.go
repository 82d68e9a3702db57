package aggregate

import (
	"github.com/imera88/datatable"
	"github.com/imera88/datatable/internal/concurrent"
	"github.com/imera88/datatable/internal/frame"
)

// subsampleIfNeeded implements spec.md §4.2.7. If the number of
// observed member groups exceeds maxBins+naBins, it overwrites members
// in place: every row starts missing, then maxBins groups chosen
// uniformly at random (via an instance-scoped LCG seeded by seed, per
// spec.md §9's replacement of the process-wide PRNG) are reassigned
// sequential ids 0..maxBins-1 in selection order. It reports whether
// sub-sampling occurred.
func subsampleIfNeeded(members []int32, maxBins, naBins int, seed uint32) (bool, error) {
	mf, err := frame.New(&frame.Int32Column{ColName: "exemplar_id", Data: members})
	if err != nil {
		return false, err
	}
	ri, gb, err := mf.Group(datatable.SortSpec{ColumnIndex: 0})
	if err != nil {
		return false, err
	}
	ngroups := gb.NGroups()
	if ngroups <= maxBins+naBins {
		return false, nil
	}

	rnd := concurrent.NewRand(seed, 0)
	selected := make([]int, 0, maxBins)
	chosen := make(map[int]bool, maxBins)
	for len(selected) < maxBins {
		g := rnd.Intn(ngroups)
		if chosen[g] {
			continue
		}
		chosen[g] = true
		selected = append(selected, g)
	}

	for i := range members {
		members[i] = frame.NAInt32
	}
	for k, g := range selected {
		start, end := gb.Offsets[g], gb.Offsets[g+1]
		for _, origRow := range ri[start:end] {
			members[origRow] = int32(k)
		}
	}
	return true, nil
}
