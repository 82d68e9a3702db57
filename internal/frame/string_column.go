package frame

import "github.com/imera88/datatable"

// StringColumn32 and StringColumn64 store variable-length UTF-8 strings
// as a shared blob plus one end-offset per row, following the
// source's negative-offset missing encoding: row i is missing iff
// Offsets[i] < 0, in which case abs(Offsets[i]) equals the previous
// row's end (no bytes of the blob are consumed for a missing row).
// Row i's start is abs(Offsets[i-1]), or 0 for i==0.

type StringColumn32 struct {
	ColName string
	Offsets []int32
	Blob    []byte
}

func (c *StringColumn32) Name() string               { return c.ColName }
func (c *StringColumn32) Type() datatable.ColumnType { return datatable.ColumnString32 }
func (c *StringColumn32) Len() int                    { return len(c.Offsets) }
func (c *StringColumn32) Clone() datatable.Column {
	return &StringColumn32{ColName: c.ColName, Offsets: c.Offsets, Blob: c.Blob}
}
func (c *StringColumn32) IsMissing(row int) bool { return c.Offsets[row] < 0 }
func (c *StringColumn32) start(row int) int32 {
	if row == 0 {
		return 0
	}
	o := c.Offsets[row-1]
	if o < 0 {
		return -o
	}
	return o
}
func (c *StringColumn32) Get(row int) (string, bool) {
	o := c.Offsets[row]
	if o < 0 {
		return "", true
	}
	return string(c.Blob[c.start(row):o]), false
}
func (c *StringColumn32) resize(n int) datatable.Column {
	out := make([]int32, n)
	var last int32
	if len(c.Offsets) > 0 {
		last = abs32(c.Offsets[len(c.Offsets)-1])
	}
	for i := range out {
		if i < len(c.Offsets) {
			out[i] = c.Offsets[i]
		} else {
			out[i] = -last
		}
	}
	return &StringColumn32{ColName: c.ColName, Offsets: out, Blob: c.Blob}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

type StringColumn64 struct {
	ColName string
	Offsets []int64
	Blob    []byte
}

func (c *StringColumn64) Name() string               { return c.ColName }
func (c *StringColumn64) Type() datatable.ColumnType { return datatable.ColumnString64 }
func (c *StringColumn64) Len() int                    { return len(c.Offsets) }
func (c *StringColumn64) Clone() datatable.Column {
	return &StringColumn64{ColName: c.ColName, Offsets: c.Offsets, Blob: c.Blob}
}
func (c *StringColumn64) IsMissing(row int) bool { return c.Offsets[row] < 0 }
func (c *StringColumn64) start(row int) int64 {
	if row == 0 {
		return 0
	}
	o := c.Offsets[row-1]
	if o < 0 {
		return -o
	}
	return o
}
func (c *StringColumn64) Get(row int) (string, bool) {
	o := c.Offsets[row]
	if o < 0 {
		return "", true
	}
	return string(c.Blob[c.start(row):o]), false
}
func (c *StringColumn64) resize(n int) datatable.Column {
	out := make([]int64, n)
	var last int64
	if len(c.Offsets) > 0 {
		last = abs64(c.Offsets[len(c.Offsets)-1])
	}
	for i := range out {
		if i < len(c.Offsets) {
			out[i] = c.Offsets[i]
		} else {
			out[i] = -last
		}
	}
	return &StringColumn64{ColName: c.ColName, Offsets: out, Blob: c.Blob}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// StringBuilder accumulates rows for a StringColumn32 or StringColumn64
// one value at a time, then materializes the column with Build.
type StringBuilder struct {
	blob    []byte
	offsets []int64
}

func (b *StringBuilder) AppendValue(s string) {
	b.blob = append(b.blob, s...)
	b.offsets = append(b.offsets, int64(len(b.blob)))
}

func (b *StringBuilder) AppendMissing() {
	var last int64
	if len(b.offsets) > 0 {
		last = abs64(b.offsets[len(b.offsets)-1])
	}
	b.offsets = append(b.offsets, -last)
}

func (b *StringBuilder) Len() int { return len(b.offsets) }

// Build materializes a StringColumn32 if the blob fits in 32 bits,
// else falls back to a StringColumn64 -- mirroring the source's
// widening-on-overflow string stype promotion.
func (b *StringBuilder) Build(name string) datatable.Column {
	if len(b.blob) <= (1<<31)-1 {
		offs := make([]int32, len(b.offsets))
		for i, o := range b.offsets {
			offs[i] = int32(o)
		}
		return &StringColumn32{ColName: name, Offsets: offs, Blob: b.blob}
	}
	return &StringColumn64{ColName: name, Offsets: b.offsets, Blob: b.blob}
}
