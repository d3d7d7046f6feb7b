package flowcache

import (
	"math/bits"
	"time"

	"github.com/rpcpool/relidx/metrics"
)

// ctxState is one stage of the pipelined lookup state machine.
type ctxState int

const (
	stateWait2 ctxState = iota
	stateWait1
	statePrefetchKey
	stateFetchBucket
	stateFetchNode
	stateRefetchNode
	stateCmpKey
	stateIdle // no request assigned; context is spare capacity
)

// pipeCtx is one in-flight request as it moves through the state machine.
// bk0/bk1, hit0/hit1 and gen0/gen1 are the bucket snapshot taken at
// FETCH_NODE/REFETCH_NODE time; CMP_KEY re-validates gen0/gen1 against the
// cache's live generation counters before trusting hit0/hit1.
type pipeCtx struct {
	state      ctxState
	reqIdx     int
	key        *Key
	h0, h1, fp uint32
	bk0, bk1   uint32
	hit0, hit1 uint16
	gen0, gen1 uint64
}

// DefaultPipelineWidth is the context-pool size used by FindBulk when
// Config.PipelineWidth is left at zero, expressed as 3*k for a modest k —
// enough to keep three independent memory accesses in flight at once.
const DefaultPipelineWidth = 3 * 4

// FindBulk resolves every key in keys, in order, writing each result's
// payload (or nil on failure) to the matching slot of out. len(out) must
// equal len(keys). Returns the number of requests that failed (pool
// exhaustion or kick-out exhaustion). Each result is written to the slot of
// its own request, so out follows the order of keys regardless of how the
// pipeline interleaves their internal stages; a demoted context may finish
// after a request started later.
func (c *Cache) FindBulk(keys []*Key, out []any) (fails int) {
	if len(keys) == 0 {
		return 0
	}
	start := time.Now()
	defer func() {
		metrics.FlowCacheBulkLatency.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
	}()

	width := c.pipelineWidth
	if width <= 0 {
		width = DefaultPipelineWidth
	}
	if width > len(keys) {
		width = len(keys)
	}

	ctxs := make([]pipeCtx, width)
	for i := range ctxs {
		// Stagger initial contexts across WAIT_2/WAIT_1/PREFETCH_KEY so the
		// first three enter PREFETCH_KEY on successive outer-loop passes,
		// maximizing overlap of independent memory accesses at startup.
		switch i % 3 {
		case 0:
			ctxs[i].state = stateWait2
		case 1:
			ctxs[i].state = stateWait1
		default:
			ctxs[i].state = statePrefetchKey
		}
		ctxs[i].reqIdx = -1
	}

	nextReq := 0
	completed := 0
	for completed < len(keys) {
		for i := range ctxs {
			ctx := &ctxs[i]
			switch ctx.state {
			case stateWait2:
				ctx.state = stateWait1
			case stateWait1:
				ctx.state = statePrefetchKey
			case statePrefetchKey:
				if nextReq >= len(keys) {
					ctx.state = stateIdle
					continue
				}
				ctx.reqIdx = nextReq
				ctx.key = keys[nextReq]
				nextReq++
				ctx.state = stateFetchBucket
			case stateFetchBucket:
				ctx.h0, ctx.h1 = c.hashOf(ctx.key)
				ctx.fp = ctx.h0 ^ ctx.h1
				ctx.bk0 = c.bucketIdx(ctx.h0)
				ctx.bk1 = c.bucketIdx(ctx.h1)
				ctx.state = stateFetchNode
			case stateFetchNode, stateRefetchNode:
				ctx.hit0 = c.buckets[ctx.bk0].findFingerprint(c.simdK, ctx.fp)
				ctx.hit1 = c.buckets[ctx.bk1].findFingerprint(c.simdK, ctx.fp)
				ctx.gen0 = c.genOf(ctx.bk0)
				ctx.gen1 = c.genOf(ctx.bk1)
				ctx.state = stateCmpKey
			case stateCmpKey:
				if c.genOf(ctx.bk0) != ctx.gen0 || c.genOf(ctx.bk1) != ctx.gen1 {
					// A sibling context's insert added or relocated a lane
					// in one of our candidate buckets since we snapshotted it.
					metrics.FlowCacheDemotions.WithLabelValues(c.name).Inc()
					ctx.state = stateRefetchNode
					continue
				}
				payload, failed := c.resolveCmpKey(ctx)
				out[ctx.reqIdx] = payload
				if failed {
					fails++
				}
				completed++
				ctx.reqIdx = -1
				ctx.state = statePrefetchKey
			case stateIdle:
				// no more requests to pull; leave the context parked.
			}
		}
	}
	return fails
}

// resolveCmpKey compares keys against the hit masks snapshotted at
// FETCH_NODE/REFETCH_NODE time, falling back to lookupOrInsert on a miss.
func (c *Cache) resolveCmpKey(ctx *pipeCtx) (payload any, failed bool) {
	if nodeIdx := c.matchInHits(ctx.bk0, ctx.hit0, ctx.key); nodeIdx != NodeInvalid {
		return c.nodes[nodeIdx].payload, false
	}
	if nodeIdx := c.matchInHits(ctx.bk1, ctx.hit1, ctx.key); nodeIdx != NodeInvalid {
		return c.nodes[nodeIdx].payload, false
	}
	payload, outcome := c.lookupOrInsert(ctx.key)
	return payload, outcome == "full" || outcome == "kickout_exhausted"
}

func (c *Cache) matchInHits(bkIdx uint32, hits uint16, key *Key) uint32 {
	b := &c.buckets[bkIdx]
	for hits != 0 {
		pos := bits.TrailingZeros16(hits)
		hits &^= 1 << uint(pos)
		nodeIdx := b.idx[pos]
		if nodeIdx != NodeInvalid && c.nodes[nodeIdx].key.Equal(key) {
			return nodeIdx
		}
	}
	return NodeInvalid
}
