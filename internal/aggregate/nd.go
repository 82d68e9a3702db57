package aggregate

import (
	"math"

	"github.com/imera88/datatable/internal/concurrent"

	"github.com/imera88/datatable"
)

// exemplar is the aggregator-local cluster representative from
// spec.md §3: id is a union-find-stable integer handle, coords is its
// position in the (possibly projected) feature space. A NaN coordinate
// marks a dimension this exemplar's originating row did not have
// present -- only meaningful in the unprojected case.
type exemplar[T datatable.ColumnFloat] struct {
	id     int32
	coords []T
}

// ndState is the shared, lock-guarded state of one ND clustering run:
// the live exemplar set, the union-find parent array, the structural
// mutation counter, the current merge radius, and the coprime table
// used for quasi-random probing. Exactly one *sync.RWMutex guards all
// of it, per spec.md §5.
type ndState[T datatable.ColumnFloat] struct {
	lock      concurrent.SharedLock
	exemplars []exemplar[T]
	ids       []int32
	ecounter  uint64
	delta     T
	coprimes  []int
	ndMaxBins int
}

func newNDState[T datatable.ColumnFloat](ndMaxBins int) *ndState[T] {
	return &ndState[T]{delta: T(epsilon[T]()), ndMaxBins: ndMaxBins}
}

func epsilon[T datatable.ColumnFloat]() T {
	var zero T
	switch any(zero).(type) {
	case float32:
		return T(float32(1.1920929e-07))
	default:
		return T(2.220446049250313e-16)
	}
}

func isNaN[T datatable.ColumnFloat](v T) bool { return float64(v) != float64(v) }

// coprimesOf returns every c in [1,n) with gcd(c,n)==1, via a trivial
// sieve (spec.md §6's calculate_coprimes external collaborator,
// realized directly since it is a pure function with no I/O). For
// n<=1 it returns {0}, so a draw from the table is always valid.
func coprimesOf(n int) []int {
	if n <= 1 {
		return []int{0}
	}
	out := make([]int, 0, n)
	for c := 1; c < n; c++ {
		if gcd(c, n) == 1 {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		out = []int{1}
	}
	return out
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// calculateDistance computes the squared Euclidean distance between a
// and b as defined in spec.md §4.2.6: weighted by n_effective /
// n_considered over dimensions present in both vectors. With
// earlyExit, it returns the unnormalized running sum as soon as it
// exceeds delta -- the caller's `d2 < delta` test is still correct
// because the true weighted distance can only be >= the running sum
// (the weight is always >= 1).
func calculateDistance[T datatable.ColumnFloat](a, b []T, delta T, earlyExit bool) T {
	var sum T
	considered := 0
	for i := range a {
		if isNaN(a[i]) || isNaN(b[i]) {
			continue
		}
		d := a[i] - b[i]
		sum += d * d
		considered++
		if earlyExit && sum > delta {
			return sum
		}
	}
	if considered == 0 {
		// Matches the ground truth's sum*ndims/n with n=0: 0.0/0 is
		// NaN, not +Inf. NaN poisons every downstream d2 < delta
		// comparison to false, freezing this pair apart rather than
		// collapsing it -- the opposite of what +Inf would do.
		return T(math.NaN())
	}
	weight := T(len(a)) / T(considered)
	return weight * sum
}

// probeAndAssign implements one row of spec.md §4.2.6's per-row loop:
// probe the live exemplar set under a shared lock using coprime
// modular probing; on a miss, retry the probe if the structural
// counter advanced underneath it, else insert a new exemplar under the
// exclusive lock.
func probeAndAssign[T datatable.ColumnFloat](s *ndState[T], vec []T, rnd *concurrent.Rand) int32 {
	for {
		var matched bool
		var assigned int32
		var ecSnapshot uint64
		s.lock.Shared(func() {
			ecSnapshot = s.ecounter
			n := len(s.exemplars)
			if n == 0 {
				return
			}
			m := len(s.coprimes)
			x := rnd.Intn(n)
			c := s.coprimes[rnd.Intn(m)]
			for k := 0; k < n; k++ {
				j := (k*c + x) % n
				d2 := calculateDistance(vec, s.exemplars[j].coords, s.delta, true)
				if d2 < s.delta {
					assigned = s.exemplars[j].id
					matched = true
					return
				}
			}
		})
		if matched {
			return assigned
		}

		var inserted bool
		var needRetry bool
		s.lock.Exclusive(func() {
			if s.ecounter != ecSnapshot {
				needRetry = true
				return
			}
			newID := int32(len(s.ids))
			s.ids = append(s.ids, newID)
			newExemplars := make([]exemplar[T], len(s.exemplars)+1)
			copy(newExemplars, s.exemplars)
			newExemplars[len(s.exemplars)] = exemplar[T]{id: newID, coords: vec}
			s.exemplars = newExemplars
			s.ecounter++
			assigned = newID
			inserted = true
			if len(s.exemplars) > s.ndMaxBins {
				adjustDelta(s)
			}
			s.coprimes = coprimesOf(len(s.exemplars))
		})
		if needRetry {
			continue
		}
		if inserted {
			return assigned
		}
	}
}

// adjustDelta implements spec.md §4.2.6's merge step. Callers must
// hold s.lock exclusively.
func adjustDelta[T datatable.ColumnFloat](s *ndState[T]) {
	n := len(s.exemplars)
	if n < 2 {
		return
	}
	pairs := n * (n - 1) / 2
	dist := make([][]T, n)
	for i := range dist {
		dist[i] = make([]T, n)
	}
	var sumSqrt float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d2 := calculateDistance(s.exemplars[i].coords, s.exemplars[j].coords, s.delta, false)
			dist[i][j] = d2
			sumSqrt += math.Sqrt(float64(d2))
		}
	}
	meanD := sumSqrt / float64(pairs)
	deltaMerge := T((meanD / 2) * (meanD / 2))
	s.delta = s.delta + deltaMerge + T(2*math.Sqrt(float64(s.delta)*float64(deltaMerge)))

	dead := make([]bool, n)
	for i := 0; i < n; i++ {
		if dead[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if dead[j] {
				continue
			}
			if dist[i][j] < deltaMerge {
				s.ids[s.exemplars[j].id] = s.exemplars[i].id
				dead[j] = true
			}
		}
	}
	compacted := make([]exemplar[T], 0, n)
	for i, e := range s.exemplars {
		if !dead[i] {
			compacted = append(compacted, e)
		}
	}
	s.exemplars = compacted
}

// find resolves id to its union-find root with iterative path
// compression, per spec.md §9.
func find(ids []int32, id int32) int32 {
	root := id
	for ids[root] != root {
		root = ids[root]
	}
	for ids[id] != root {
		next := ids[id]
		ids[id] = root
		id = next
	}
	return root
}
