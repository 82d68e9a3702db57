package aggregate

import (
	"github.com/imera88/datatable"
	"github.com/imera88/datatable/accumulators"
	"github.com/imera88/datatable/internal/frame"
)

// buildExemplars implements spec.md §4.2 step 6: re-sort members,
// count each group's cardinality, pick its first row as the exemplar,
// and renumber exemplar_id to a dense 0..n_exemplars-1 range in
// ascending order of the original bin/cluster value. Any group whose
// representative row is the missing sentinel (an input row that never
// got assigned -- either genuinely missing in the 1-D continuous case,
// or dropped by sub-sampling) is excluded from the exemplar set; its
// rows keep a missing exemplar_id in the returned members Frame.
func buildExemplars(input datatable.Frame, members []int32) (exemplars, membersOut datatable.Frame, err error) {
	mf, err := frame.New(&frame.Int32Column{ColName: "exemplar_id", Data: members})
	if err != nil {
		return nil, nil, err
	}
	ri, gb, err := mf.Group(datatable.SortSpec{ColumnIndex: 0})
	if err != nil {
		return nil, nil, err
	}
	col := mf.ColumnAt(0)

	exemplarRows := make(datatable.RowIndex, 0, gb.NGroups())
	counts := make([]int32, 0, gb.NGroups())
	finalMembers := make([]int32, len(members))
	for i := range finalMembers {
		finalMembers[i] = frame.NAInt32
	}

	idx := int32(0)
	for g := 0; g < gb.NGroups(); g++ {
		start, end := gb.Offsets[g], gb.Offsets[g+1]
		firstRow := int(ri[start])
		if col.IsMissing(firstRow) {
			continue
		}
		counter := accumulators.Counter()
		for _, origRow := range ri[start:end] {
			finalMembers[origRow] = idx
			if err := counter.Accumulate(int(origRow)); err != nil {
				return nil, nil, err
			}
		}
		exemplarRows = append(exemplarRows, ri[start])
		counts = append(counts, int32(counter.(*accumulators.Count).GetCount()))
		idx++
	}

	restricted := input.ApplyRowIndex(exemplarRows)
	exemplars, err = restricted.Cbind(mustFrame(frame.New(&frame.Int32Column{ColName: "members_count", Data: counts})))
	if err != nil {
		return nil, nil, err
	}
	membersOut, err = frame.New(&frame.Int32Column{ColName: "exemplar_id", Data: finalMembers})
	if err != nil {
		return nil, nil, err
	}
	return exemplars, membersOut, nil
}

func mustFrame(f *frame.Frame, err error) datatable.Frame {
	if err != nil {
		panic(err)
	}
	return f
}
