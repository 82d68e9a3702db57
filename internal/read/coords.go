package read

import "github.com/imera88/datatable"

// expectedCoordinates implements spec.md §4.3.2. endOfLastChunk is only
// consulted for i==0 or a single-threaded plan, where the start is
// exactly known rather than estimated.
func expectedCoordinates(plan Plan, sof, eof int64, i int, endOfLastChunk int64) datatable.ChunkCoordinates {
	var start datatable.ChunkBoundary
	if i == 0 || plan.NThreads == 1 {
		start = datatable.ChunkBoundary{Pos: endOfLastChunk, Exact: true}
	} else {
		start = datatable.ChunkBoundary{Pos: sof + int64(i)*plan.ChunkSize, Exact: false}
	}

	computedEnd := start.Pos + plan.ChunkSize
	var end datatable.ChunkBoundary
	isLast := i == plan.ChunkCount-1
	if isLast || computedEnd >= eof {
		end = datatable.ChunkBoundary{Pos: eof, Exact: true}
	} else {
		end = datatable.ChunkBoundary{Pos: computedEnd, Exact: false}
	}
	return datatable.ChunkCoordinates{Start: start, End: end}
}
