package frame

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/imera88/datatable"
)

// sortKey is a per-row, per-spec comparison key: present orders rows
// with a real value before/after missing ones per NALast, num holds a
// float64-comparable projection of numeric columns, and strHash/str
// disambiguate string columns (hash first, for speed; raw bytes break
// any collision).
type sortKey struct {
	present bool
	num     float64
	strHash uint64
	str     string
}

func keyFor(col datatable.Column, row int) sortKey {
	switch c := col.(type) {
	case interface{ Get(int) (bool, bool) }:
		v, missing := c.Get(row)
		if missing {
			return sortKey{}
		}
		n := 0.0
		if v {
			n = 1.0
		}
		return sortKey{present: true, num: n}
	case interface{ Get(int) (int8, bool) }:
		v, missing := c.Get(row)
		return numKey(float64(v), missing)
	case interface{ Get(int) (int16, bool) }:
		v, missing := c.Get(row)
		return numKey(float64(v), missing)
	case interface{ Get(int) (int32, bool) }:
		v, missing := c.Get(row)
		return numKey(float64(v), missing)
	case interface{ Get(int) (int64, bool) }:
		v, missing := c.Get(row)
		return numKey(float64(v), missing)
	case interface{ Get(int) (float32, bool) }:
		v, missing := c.Get(row)
		return numKey(float64(v), missing)
	case interface{ Get(int) (float64, bool) }:
		v, missing := c.Get(row)
		return numKey(v, missing)
	case interface{ Get(int) (string, bool) }:
		v, missing := c.Get(row)
		if missing {
			return sortKey{}
		}
		return sortKey{present: true, strHash: xxhash.Sum64String(v), str: v}
	default:
		panic("frame: Group called on an unrecognized Column implementation")
	}
}

func numKey(v float64, missing bool) sortKey {
	if missing {
		return sortKey{}
	}
	return sortKey{present: true, num: v}
}

// less orders two keys for one SortSpec: missing values sort first
// unless NALast, present values compare by value/hash, and Descending
// flips only the present/present comparison, so missing values stay at
// the same end whichever direction is requested.
func less(a, b sortKey, spec datatable.SortSpec) int {
	if a.present != b.present {
		if !a.present {
			if spec.NALast {
				return 1
			}
			return -1
		}
		if spec.NALast {
			return -1
		}
		return 1
	}
	if !a.present {
		return 0
	}
	cmp := 0
	if a.strHash != 0 || b.strHash != 0 || a.str != "" || b.str != "" {
		switch {
		case a.strHash < b.strHash || (a.strHash == b.strHash && a.str < b.str):
			cmp = -1
		case a.strHash > b.strHash || (a.strHash == b.strHash && a.str > b.str):
			cmp = 1
		}
	} else {
		switch {
		case a.num < b.num:
			cmp = -1
		case a.num > b.num:
			cmp = 1
		}
	}
	if spec.Descending {
		cmp = -cmp
	}
	return cmp
}

func equalKey(a, b sortKey) bool {
	if a.present != b.present {
		return false
	}
	if !a.present {
		return true
	}
	if a.strHash != 0 || b.strHash != 0 || a.str != "" || b.str != "" {
		return a.strHash == b.strHash && a.str == b.str
	}
	return a.num == b.num
}

// defaultGroupCache memoizes Group results keyed by a content hash of
// the sorted columns plus SortSpec: the aggregator's pipeline calls
// Group repeatedly on the same members column (sample_exemplars,
// aggregate_exemplars) and on the same categorical columns
// (group_1d_categorical, group_2d_categorical).
var defaultGroupCache = newDefaultGroupCache()

func newDefaultGroupCache() *GroupCache {
	c, err := NewGroupCache(64, 256)
	if err != nil {
		panic(err)
	}
	return c
}

// groupCacheKey hashes the actual row content of each sorted column,
// not the column's address: sample.go and exemplars.go build a fresh
// *Int32Column on every call, and a pointer-based key would alias a
// freed column's address onto an unrelated later one once the
// allocator reuses it. Hashing keyFor's per-row projection costs an
// O(n) pass per spec, but that pass is exactly the work computeGroup
// would do anyway on a miss, so a cache hit is still a net win.
func groupCacheKey(f *Frame, specs []datatable.SortSpec) string {
	var b strings.Builder
	n := f.NRows()
	fmt.Fprintf(&b, "n=%d", n)
	h := xxhash.New()
	for _, spec := range specs {
		col := f.ColumnAt(spec.ColumnIndex)
		h.Reset()
		for row := 0; row < n; row++ {
			k := keyFor(col, row)
			fmt.Fprintf(h, "%t|%g|%x|%s;", k.present, k.num, k.strHash, k.str)
		}
		fmt.Fprintf(&b, "|%x:%v:%d:%t:%t:%t", h.Sum64(), col.Type(), spec.ColumnIndex, spec.Descending, spec.NALast, spec.RemoveGroups)
	}
	return b.String()
}

// Group implements Frame.Group: it builds one sortKey column per
// SortSpec, stable-sorts the row permutation by that tuple, and then
// scans the sorted permutation for key-tuple equality to build group
// boundaries. If any SortSpec requests RemoveGroups, the sort still
// runs but the result is a single group spanning every row, matching
// the source's remove_groups behavior for Frame::sort. Results are
// memoized in defaultGroupCache, keyed by a content hash of the
// sorted columns and spec.
func Group(f *Frame, specs []datatable.SortSpec) (datatable.RowIndex, datatable.Groupby, error) {
	for _, spec := range specs {
		if spec.ColumnIndex < 0 || spec.ColumnIndex >= f.NCols() {
			return nil, datatable.Groupby{}, invalidColumnIndex(spec.ColumnIndex)
		}
	}
	if len(specs) > 0 {
		key := groupCacheKey(f, specs)
		return defaultGroupCache.GetOrCompute(key, func() (datatable.RowIndex, datatable.Groupby, error) {
			return computeGroup(f, specs)
		})
	}
	return computeGroup(f, specs)
}

func computeGroup(f *Frame, specs []datatable.SortSpec) (datatable.RowIndex, datatable.Groupby, error) {
	n := f.NRows()
	ri := make(datatable.RowIndex, n)
	for i := range ri {
		ri[i] = int32(i)
	}
	if len(specs) == 0 {
		if n == 0 {
			return ri, datatable.Groupby{Offsets: []int32{0}}, nil
		}
		return ri, datatable.Groupby{Offsets: []int32{0, int32(n)}}, nil
	}
	keys := make([][]sortKey, len(specs))
	removeGroups := false
	for si, spec := range specs {
		if spec.ColumnIndex < 0 || spec.ColumnIndex >= f.NCols() {
			return nil, datatable.Groupby{}, invalidColumnIndex(spec.ColumnIndex)
		}
		if spec.RemoveGroups {
			removeGroups = true
		}
		col := f.ColumnAt(spec.ColumnIndex)
		ks := make([]sortKey, n)
		for row := 0; row < n; row++ {
			ks[row] = keyFor(col, row)
		}
		keys[si] = ks
	}
	sort.SliceStable(ri, func(i, j int) bool {
		a, b := int(ri[i]), int(ri[j])
		for si, spec := range specs {
			if c := less(keys[si][a], keys[si][b], spec); c != 0 {
				return c < 0
			}
		}
		return false
	})
	if n == 0 {
		return ri, datatable.Groupby{Offsets: []int32{0}}, nil
	}
	if removeGroups {
		return ri, datatable.Groupby{Offsets: []int32{0, int32(n)}}, nil
	}
	offsets := []int32{0}
	for i := 1; i < n; i++ {
		a, b := int(ri[i-1]), int(ri[i])
		same := true
		for si := range specs {
			if !equalKey(keys[si][a], keys[si][b]) {
				same = false
				break
			}
		}
		if !same {
			offsets = append(offsets, int32(i))
		}
	}
	offsets = append(offsets, int32(n))
	return ri, datatable.Groupby{Offsets: offsets}, nil
}
