package flowcache

import "github.com/rpcpool/relidx/tailq"

// NodeInvalid is the reserved "no node" sentinel used throughout the bucket
// and pool index spaces. It is the all-ones uint32, distinct from ridx.Nil
// (0): node slots are addressed 0-origin directly, since buckets store raw
// node indices rather than relative-index handles.
const NodeInvalid uint32 = 0xFFFFFFFF

// NodeInit populates the payload of a freshly allocated node. Called once
// per successful insert, after the key has been written.
type NodeInit func() any

// node is one slot of the cache's flat node arena. Its tailq entry threads
// it onto the pool's used-FIFO, the one production (non-test) consumer of
// package tailq in this module.
type node struct {
	key     Key
	payload any
	used    tailq.Entry
}

func (n *node) TailqEntry() *tailq.Entry { return &n.used }
