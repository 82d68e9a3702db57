package aggregate

import "github.com/imera88/datatable"

// group0D implements spec.md §4.2.1: sort the input by column 0
// ascending, missing first, and assign each row its sorted rank.
// Called both for the nrows<min_rows fallback and for the ncols==0
// dispatch case, in which every original column was numeric-absent and
// non-numeric-dropped (the categorical-inclusion rule in spec.md §9's
// Open Questions). A frame with zero columns has no column 0 to sort
// by; such rows keep their original order as a degenerate fallback.
func group0D(input datatable.Frame) ([]int32, error) {
	members := make([]int32, input.NRows())
	if input.NCols() == 0 {
		for i := range members {
			members[i] = int32(i)
		}
		return members, nil
	}
	ri, _, err := input.Group(datatable.SortSpec{ColumnIndex: 0})
	if err != nil {
		return nil, err
	}
	for rank, origRow := range ri {
		members[origRow] = int32(rank)
	}
	return members, nil
}
