// Package flowcache implements a 2-choice cuckoo hash table over a flat,
// caller-sized arena of nodes: the "flow cache" described by the relative-
// index container family's sibling specification. Buckets hold 16 lanes of
// (fingerprint, node index) pairs; lookups use a pluggable fhash.Kernel to
// derive two candidate bucket indices and a pluggable simdsearch.Kernel to
// scan each bucket's fingerprint lane. Insert relocates existing entries
// via bounded-depth cuckoo kick-out when both candidate buckets are full.
package flowcache

import (
	"fmt"
	"math/bits"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/rpcpool/relidx/fhash"
	"github.com/rpcpool/relidx/metrics"
	"github.com/rpcpool/relidx/simdsearch"
)

// maxKickoutDepth bounds the recursive relocation search performed by
// insert when both of a key's candidate buckets are full. 16-lane buckets
// tolerate load factors well past 90% before kick-out chains lengthen, so a
// modest bound is enough headroom without risking unbounded recursion.
const maxKickoutDepth = 8

// Cache is one flow cache instance: a fixed-capacity bucket table, a flat
// node arena, and the pool tracking which node slots are live.
type Cache struct {
	ID uuid.UUID

	name    string
	buckets []bucket
	nodes   []node
	mask    uint32
	hashK   fhash.Kernel
	simdK   simdsearch.Kernel
	onInit  NodeInit

	pool *pool

	// pipelineWidth is the context-pool size used by FindBulk.
	pipelineWidth int

	// maxLoad is the load ceiling (node_count/16)*13: insert refuses to
	// allocate a new node once NodeCount reaches it, independent of whether
	// the pool still has physically free slots.
	maxLoad int

	// gen counts mutations per bucket. The pipeline engine snapshots gen at
	// FETCH_NODE time and compares it again at CMP_KEY time: a mismatch
	// means some other in-flight context's insert wrote a new lane into this
	// bucket or relocated a lane into or out of it, and the context must be
	// demoted to REFETCH_NODE
	// instead of trusting its stale hit mask.
	gen []uint64
}

// Config selects the pluggable kernels and capacity of a new Cache.
type Config struct {
	// Name labels this cache's metrics and log lines.
	Name string
	// Buckets is the number of 16-lane buckets; must be a power of two.
	Buckets int
	// HashKernel derives candidate bucket pairs from a key. Defaults to
	// fhash.Generic.
	HashKernel fhash.Kernel
	// SearchKernel scans a bucket's fingerprint lane. Defaults to
	// simdsearch.Select().
	SearchKernel simdsearch.Kernel
	// OnNodeInit populates a freshly inserted node's payload. Optional.
	OnNodeInit NodeInit
	// PipelineWidth sets FindBulk's context-pool size (conventionally 3*k
	// for a chosen k). Zero selects DefaultPipelineWidth.
	PipelineWidth int
}

// Sizeof returns the number of bytes a Cache built from cfg would occupy in
// its bucket table and node arena, for capacity planning before Create.
func Sizeof(cfg Config) int {
	nodeCapacity := cfg.Buckets * simdsearch.BucketWidth
	return cfg.Buckets*int(unsafeSizeofBucket) + nodeCapacity*int(unsafeSizeofNode)
}

// Rough, architecture-independent size estimates; exact padding is a
// compiler detail Sizeof need not reproduce precisely, only usefully.
const (
	unsafeSizeofBucket = 16*4 + 16*4
	unsafeSizeofNode   = KeySize + 16 + 8
)

// Create allocates a new Cache. Buckets must be a power of two and at
// least 2.
func Create(cfg Config) (*Cache, error) {
	if cfg.Buckets < 2 || cfg.Buckets&(cfg.Buckets-1) != 0 {
		return nil, fmt.Errorf("flowcache: Buckets must be a power of two >= 2, got %d", cfg.Buckets)
	}
	hashK := cfg.HashKernel
	if hashK == nil {
		hashK = fhash.Generic{}
	}
	simdK := cfg.SearchKernel
	if simdK == nil {
		simdK = simdsearch.Select()
	}
	capacity := cfg.Buckets * simdsearch.BucketWidth
	c := &Cache{
		ID:            uuid.New(),
		name:          cfg.Name,
		buckets:       make([]bucket, cfg.Buckets),
		nodes:         make([]node, capacity),
		mask:          uint32(cfg.Buckets - 1),
		hashK:         hashK,
		simdK:         simdK,
		onInit:        cfg.OnNodeInit,
		pool:          newPool(capacity),
		gen:           make([]uint64, cfg.Buckets),
		pipelineWidth: cfg.PipelineWidth,
		maxLoad:       (capacity / simdsearch.BucketWidth) * 13,
	}
	c.Reset()
	klog.V(2).Infof("flowcache: created cache %s id=%s buckets=%d capacity=%d", c.name, c.ID, cfg.Buckets, capacity)
	return c, nil
}

// Reset empties the cache in place, without reallocating the bucket table
// or node arena.
func (c *Cache) Reset() {
	for i := range c.buckets {
		c.buckets[i] = emptyBucket()
	}
	c.pool = newPool(len(c.nodes))
	metrics.FlowCacheNodeCount.WithLabelValues(c.name).Set(0)
}

// Free releases the cache's backing storage. After Free the Cache must not
// be used again.
func (c *Cache) Free() {
	c.buckets = nil
	c.nodes = nil
	c.pool = nil
	klog.V(2).Infof("flowcache: freed cache %s id=%s", c.name, c.ID)
}

// NodeCount reports the number of live nodes currently allocated.
func (c *Cache) NodeCount() int {
	return len(c.nodes) - c.pool.len()
}

func (c *Cache) hashOf(key *Key) (h0, h1 uint32) {
	if cached0, cached1, ok := key.CachedHash(); ok {
		return fhash.Remix(cached0, cached1, c.mask)
	}
	return fhash.HashConstrained(c.hashK, key.Payload[:], c.mask)
}

func (c *Cache) bucketIdx(h uint32) uint32 {
	return h & c.mask
}

func (c *Cache) genOf(bk uint32) uint64 {
	return c.gen[bk]
}

func (c *Cache) occupyBucket(bkIdx uint32, pos int, fp uint32, nodeIdx uint32) {
	c.buckets[bkIdx].occupy(pos, fp, nodeIdx)
	c.gen[bkIdx]++
}

func (c *Cache) clearBucket(bkIdx uint32, pos int) {
	c.buckets[bkIdx].clear(pos)
	c.gen[bkIdx]++
}

// otherBucket returns the candidate bucket index on the far side of a given
// occupied lane, derived from that lane's stored fingerprint the same way
// the original computes it from the opposite hash half: bk ^ fp, masked.
func (c *Cache) otherBucket(bkIdx uint32, pos int) uint32 {
	fp := c.buckets[bkIdx].fp[pos]
	return (bkIdx ^ fp) & c.mask
}

// findInBucket scans bucket bkIdx for fp and, among matching lanes, returns
// the first whose node key equals key. Returns NodeInvalid, -1 on miss.
func (c *Cache) findInBucket(bkIdx uint32, fp uint32, key *Key) (uint32, int) {
	b := &c.buckets[bkIdx]
	mask := b.findFingerprint(c.simdK, fp)
	for mask != 0 {
		pos := bits.TrailingZeros16(mask)
		mask &^= 1 << uint(pos)
		nodeIdx := b.idx[pos]
		if nodeIdx != NodeInvalid && c.nodes[nodeIdx].key.Equal(key) {
			return nodeIdx, pos
		}
	}
	return NodeInvalid, -1
}

// FindOneshot performs a direct, non-pipelined lookup of key, returning the
// matching node's payload. This is the simple path used by single lookups
// and by tests; FindBulk below is the pipelined path used for throughput.
func (c *Cache) FindOneshot(key *Key) (payload any, ok bool) {
	h0, h1 := c.hashOf(key)
	bk0 := c.bucketIdx(h0)
	bk1 := c.bucketIdx(h1)
	fp := h0 ^ h1
	if nodeIdx, _ := c.findInBucket(bk0, fp, key); nodeIdx != NodeInvalid {
		return c.nodes[nodeIdx].payload, true
	}
	if nodeIdx, _ := c.findInBucket(bk1, fp, key); nodeIdx != NodeInvalid {
		return c.nodes[nodeIdx].payload, true
	}
	return nil, false
}

// FreeNode evicts the node holding key, if present, returning it to the
// pool's free list.
func (c *Cache) FreeNode(key *Key) bool {
	h0, h1 := c.hashOf(key)
	bk0 := c.bucketIdx(h0)
	bk1 := c.bucketIdx(h1)
	fp := h0 ^ h1
	if nodeIdx, pos := c.findInBucket(bk0, fp, key); nodeIdx != NodeInvalid {
		c.clearBucket(bk0, pos)
		c.pool.release(c.nodes, nodeIdx)
		metrics.FlowCacheNodeCount.WithLabelValues(c.name).Set(float64(c.NodeCount()))
		return true
	}
	if nodeIdx, pos := c.findInBucket(bk1, fp, key); nodeIdx != NodeInvalid {
		c.clearBucket(bk1, pos)
		c.pool.release(c.nodes, nodeIdx)
		metrics.FlowCacheNodeCount.WithLabelValues(c.name).Set(float64(c.NodeCount()))
		return true
	}
	return false
}

// Walk calls fn for every live node's key and payload. fn must not mutate
// the cache.
func (c *Cache) Walk(fn func(key *Key, payload any)) {
	for bkIdx := range c.buckets {
		b := &c.buckets[bkIdx]
		for pos, nodeIdx := range b.idx {
			if nodeIdx == NodeInvalid || b.fp[pos] == fhash.FingerprintInvalid {
				continue
			}
			n := &c.nodes[nodeIdx]
			fn(&n.key, n.payload)
		}
	}
}

// Insert adds key to the cache, allocating a node and populating its
// payload via the cache's NodeInit hook. Returns the outcome: "hit" if key
// was already present, "inserted" on success, "full" if the load ceiling
// was reached or the pool was exhausted, or "kickout_exhausted" if both
// candidate buckets were full and
// relocation could not make room within maxKickoutDepth.
func (c *Cache) Insert(key *Key) string {
	_, outcome := c.lookupOrInsert(key)
	return outcome
}

// lookupOrInsert is the core cuckoo algorithm shared by Insert and the
// pipeline engine's CMP_KEY resolution. FindOneshot does not use it: a
// single-key lookup never inserts on a miss.
func (c *Cache) lookupOrInsert(key *Key) (payload any, outcome string) {
	h0, h1 := c.hashOf(key)
	bk0 := c.bucketIdx(h0)
	bk1 := c.bucketIdx(h1)
	fp := h0 ^ h1

	if nodeIdx, _ := c.findInBucket(bk0, fp, key); nodeIdx != NodeInvalid {
		metrics.FlowCacheInserts.WithLabelValues("hit").Inc()
		return c.nodes[nodeIdx].payload, "hit"
	}
	if nodeIdx, _ := c.findInBucket(bk1, fp, key); nodeIdx != NodeInvalid {
		metrics.FlowCacheInserts.WithLabelValues("hit").Inc()
		return c.nodes[nodeIdx].payload, "hit"
	}

	if c.NodeCount() >= c.maxLoad {
		klog.V(2).Infof("flowcache: cache %s id=%s insert refused: load ceiling %d reached", c.name, c.ID, c.maxLoad)
		metrics.FlowCacheInserts.WithLabelValues("full").Inc()
		return nil, "full"
	}
	nodeIdx, ok := c.pool.alloc(c.nodes)
	if !ok {
		klog.V(2).Infof("flowcache: cache %s id=%s insert refused: node pool exhausted", c.name, c.ID)
		metrics.FlowCacheInserts.WithLabelValues("full").Inc()
		return nil, "full"
	}

	pos := c.buckets[bk0].firstEmpty(c.simdK)
	targetBk := bk0
	if pos < 0 {
		pos = c.buckets[bk1].firstEmpty(c.simdK)
		targetBk = bk1
	}
	if pos < 0 {
		// Both candidate buckets are full: try to relocate an existing
		// occupant out of bk0 to make room.
		pos = c.kickout(bk0, maxKickoutDepth)
		targetBk = bk0
		if pos < 0 {
			pos = c.kickout(bk1, maxKickoutDepth)
			targetBk = bk1
		}
		if pos < 0 {
			c.pool.release(c.nodes, nodeIdx)
			klog.V(2).Infof("flowcache: cache %s id=%s insert refused: kick-out exhausted at depth %d", c.name, c.ID, maxKickoutDepth)
			metrics.FlowCacheInserts.WithLabelValues("kickout_exhausted").Inc()
			return nil, "kickout_exhausted"
		}
	}

	n := &c.nodes[nodeIdx]
	n.key = *key
	if c.onInit != nil {
		n.payload = c.onInit()
	}
	c.occupyBucket(targetBk, pos, fp, nodeIdx)
	metrics.FlowCacheInserts.WithLabelValues("inserted").Inc()
	metrics.FlowCacheNodeCount.WithLabelValues(c.name).Set(float64(c.NodeCount()))
	return n.payload, "inserted"
}

// kickout attempts to free one lane in bucket bkIdx by relocating an
// existing occupant to its other candidate bucket, recursively relocating
// further occupants up to depth times. Returns the freed lane position, or
// -1 if no relocation chain within the depth bound succeeds. This mirrors
// the original's kickout_node/flipflop_bucket pair; an alternative that
// weighs both candidate buckets by emptiness before choosing which lane to
// evict (rather than always trying lane 0 upward) was considered and
// rejected in the same way the original leaves it commented out — see
// DESIGN.md.
func (c *Cache) kickout(bkIdx uint32, depth int) int {
	if depth <= 0 {
		return -1
	}
	depth--
	for pos := 0; pos < simdsearch.BucketWidth; pos++ {
		if c.flipflop(bkIdx, pos) {
			return pos
		}
	}
	for pos := 0; pos < simdsearch.BucketWidth; pos++ {
		otherBk := c.otherBucket(bkIdx, pos)
		if c.kickout(otherBk, depth) < 0 {
			continue
		}
		if c.flipflop(bkIdx, pos) {
			metrics.FlowCacheKickouts.WithLabelValues(c.name).Inc()
			return pos
		}
	}
	return -1
}

// flipflop relocates the occupant at (srcBk, srcPos) into an empty lane of
// its other candidate bucket, leaving srcPos empty. Returns false if that
// other bucket has no empty lane.
func (c *Cache) flipflop(srcBk uint32, srcPos int) bool {
	if c.buckets[srcBk].idx[srcPos] == NodeInvalid {
		return true // already empty, nothing to relocate
	}
	dstBk := c.otherBucket(srcBk, srcPos)
	dstPos := c.buckets[dstBk].firstEmpty(c.simdK)
	if dstPos < 0 {
		return false
	}
	fp := c.buckets[srcBk].fp[srcPos]
	nodeIdx := c.buckets[srcBk].idx[srcPos]
	c.occupyBucket(dstBk, dstPos, fp, nodeIdx)
	c.clearBucket(srcBk, srcPos)
	return true
}
