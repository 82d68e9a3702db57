package accumulators

import (
	"encoding/binary"
	"fmt"

	"github.com/imera88/datatable"
)

// Counter returns a new Count GroupAccumulator, used to compute
// members_count while walking a Groupby (see internal/aggregate).
func Counter() datatable.GroupAccumulator {
	return new(Count)
}

// Count counts the rows assigned to a group.
type Count struct {
	count uint64
}

// GetCount returns the row count accumulated so far.
func (a *Count) GetCount() uint64 {
	return a.count
}

// Accumulate adds a row to this Count.
func (a *Count) Accumulate(rowIndex int) error {
	a.count++
	return nil
}

// Merge merges another Count into this one.
func (a *Count) Merge(o datatable.GroupAccumulator) error {
	ca, ok := o.(*Count)
	if !ok {
		return fmt.Errorf("incoming accumulator is not a Count accumulator")
	}
	a.count += ca.count
	return nil
}

// ToBytes serializes this Count.
func (a *Count) ToBytes() ([]byte, error) {
	buff := make([]byte, 8)
	binary.LittleEndian.PutUint64(buff, a.count)
	return buff, nil
}

// FromBytes produces a new Count from serialized data.
func (a *Count) FromBytes(buff []byte) (datatable.GroupAccumulator, error) {
	return &Count{count: binary.LittleEndian.Uint64(buff)}, nil
}
