package flowcache

import (
	"github.com/rpcpool/relidx/ridx"
	"github.com/rpcpool/relidx/tailq"
)

// pool owns the free list and the used-FIFO for a cache's flat node arena.
// oldest reports the longest-resident node, following the original's
// idx_pool FIFO discipline rather than any recency policy; the pool itself
// never evicts.
type pool struct {
	free []uint32
	used tailq.Head
}

func newPool(capacity int) *pool {
	p := &pool{free: make([]uint32, capacity)}
	for i := range p.free {
		// Populate back-to-front so index 0 is allocated first.
		p.free[capacity-1-i] = uint32(i)
	}
	p.used.Init()
	return p
}

func (p *pool) len() int { return len(p.free) }

// alloc removes one index from the free list and threads it onto the used
// FIFO. Returns NodeInvalid, false if the pool is exhausted.
func (p *pool) alloc(nodes []node) (uint32, bool) {
	if len(p.free) == 0 {
		return NodeInvalid, false
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	tailq.InsertTail[node](&p.used, nodes, ridx.FromSlot(int(idx)))
	return idx, true
}

// release unthreads idx from the used FIFO and returns it to the free list.
func (p *pool) release(nodes []node, idx uint32) {
	tailq.Remove[node](&p.used, nodes, ridx.FromSlot(int(idx)))
	p.free = append(p.free, idx)
}

// oldest returns the least-recently-allocated live node, or NodeInvalid,
// false when no node is allocated.
func (p *pool) oldest() (uint32, bool) {
	first := p.used.First()
	if first == ridx.Nil {
		return NodeInvalid, false
	}
	return uint32(ridx.ToSlot(first)), true
}
