package flowcache

import (
	"math/bits"

	"github.com/rpcpool/relidx/fhash"
	"github.com/rpcpool/relidx/simdsearch"
)

// bucket is one 16-slot cuckoo bucket: a fingerprint lane and a parallel
// node-index lane, scanned together by the simdsearch kernel.
type bucket struct {
	fp  [16]uint32
	idx [16]uint32
}

func emptyBucket() bucket {
	b := bucket{}
	for i := range b.fp {
		b.fp[i] = fhash.FingerprintInvalid
		b.idx[i] = NodeInvalid
	}
	return b
}

// findFingerprint returns the bitmask of lanes whose fingerprint equals fp.
func (b *bucket) findFingerprint(k simdsearch.Kernel, fp uint32) uint16 {
	return k.Find16x32(&b.fp, fp)
}

// emptyMask returns the bitmask of lanes currently unused.
func (b *bucket) emptyMask(k simdsearch.Kernel) uint16 {
	return k.Find16x32(&b.fp, fhash.FingerprintInvalid)
}

// firstEmpty returns the lowest-numbered empty lane, or -1 if full.
func (b *bucket) firstEmpty(k simdsearch.Kernel) int {
	mask := b.emptyMask(k)
	if mask == 0 {
		return -1
	}
	return bits.TrailingZeros16(mask)
}

func (b *bucket) occupy(pos int, fp uint32, nodeIdx uint32) {
	b.fp[pos] = fp
	b.idx[pos] = nodeIdx
}

func (b *bucket) clear(pos int) {
	b.fp[pos] = fhash.FingerprintInvalid
	b.idx[pos] = NodeInvalid
}
