// Package read implements datatable.ParallelReader: chunk planning,
// ordered parallel execution, reconciliation, and dynamic output
// reallocation, per spec.md §4.3.
package read

// Plan is the chunk-planning decision for one ReadAll call, per
// spec.md §4.3.1.
type Plan struct {
	InputSize  int64
	ChunkSize  int64
	ChunkCount int
	NThreads   int
	Reduced    bool
}

const (
	minChunkSize int64 = 1 << 16
	maxChunkSize int64 = 1 << 20
)

// BuildPlan implements spec.md §4.3.1 verbatim.
func BuildPlan(sof, eof int64, meanLineLength float64, nthreads, nrowsMax int) Plan {
	if meanLineLength < 1.0 {
		meanLineLength = 1.0
	}
	if nthreads <= 0 {
		nthreads = 1
	}

	inputSize := eof - sof
	reduced := false
	if nrowsMax > 0 && nrowsMax < 1_000_000 && float64(nrowsMax)*meanLineLength < float64(inputSize) {
		inputSize = int64(1.5*float64(nrowsMax)*meanLineLength) + 1
		reduced = true
	}

	chunkSize := clampInt64(int64(1000*meanLineLength), minChunkSize, maxChunkSize)
	floor := int64(10 * meanLineLength)
	if chunkSize < floor {
		chunkSize = floor
	}

	chunkCount := int(inputSize / chunkSize)
	if chunkCount < 1 {
		chunkCount = 1
	}

	if chunkCount > nthreads {
		chunkCount = roundUpToMultiple(chunkCount, nthreads)
		chunkSize = inputSize / int64(chunkCount)
	} else {
		nthreads = chunkCount
		chunkSize = inputSize / int64(chunkCount)
		if reduced {
			chunkCount += 2
		}
	}
	if chunkSize < 1 {
		chunkSize = 1
	}

	return Plan{
		InputSize:  inputSize,
		ChunkSize:  chunkSize,
		ChunkCount: chunkCount,
		NThreads:   nthreads,
		Reduced:    reduced,
	}
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundUpToMultiple(n, m int) int {
	if m <= 0 {
		return n
	}
	if n%m == 0 {
		return n
	}
	return (n/m + 1) * m
}
