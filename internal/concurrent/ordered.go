package concurrent

import "sync"

// OrderedGate serializes a critical section across concurrently
// running iterations so that, even though the iterations themselves
// may complete out of order, the gated section for iteration i always
// runs strictly after the gated section for iteration i-1 and strictly
// before i+1's. This is the single-slot simulation of an OpenMP
// "ordered" clause that the source's ParallelReader::read_all and
// order_chunk rely on: the gated section is the sole writer of
// nrows_written / end_of_last_chunk.
type OrderedGate struct {
	mu   sync.Mutex
	cond *sync.Cond
	next int
}

// NewOrderedGate returns a gate whose first admitted index is 0.
func NewOrderedGate() *OrderedGate {
	g := &OrderedGate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Enter blocks until index i is next in line, then returns holding the
// gate. The caller must call Leave(i) when its critical section is
// done, exactly once, to admit i+1.
func (g *OrderedGate) Enter(i int) {
	g.mu.Lock()
	for g.next != i {
		g.cond.Wait()
	}
}

// Leave admits i+1 and releases the gate acquired by Enter(i).
func (g *OrderedGate) Leave(i int) {
	g.next = i + 1
	g.mu.Unlock()
	g.cond.Broadcast()
}
