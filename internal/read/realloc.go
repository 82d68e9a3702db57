package read

import "math"

// nextAllocation implements spec.md §4.3.3 step 6's reallocation
// formula for a non-final chunk: at least 1.2x the new row count scaled
// by how much of the plan remains, floored at the current allocation
// plus 1024, and capped at nrowsMax when nrowsMax is bounded.
func nextAllocation(nrowsNew, chunkCount, chunkIndex, nrowsAllocated, nrowsMax int) int {
	scaled := int(math.Ceil(1.2 * float64(nrowsNew) * float64(chunkCount) / float64(chunkIndex+1)))
	floor := nrowsAllocated + 1024
	next := scaled
	if floor > next {
		next = floor
	}
	if nrowsMax > 0 && next > nrowsMax {
		next = nrowsMax
	}
	return next
}
