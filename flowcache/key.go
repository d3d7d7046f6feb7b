package flowcache

import "github.com/rpcpool/relidx/binpack"

// KeySize is the fixed byte width of a flow key's opaque payload.
const KeySize = 48

// Key is the flow cache's lookup key: a fixed 48-byte opaque payload plus
// an 8-byte cached hash pair, matching the original wire layout exactly.
// Equal only ever compares the payload; the cached hash exists purely to
// avoid re-hashing a key the caller already hashed once.
type Key struct {
	Payload  [KeySize]byte
	cachedH0 uint32
	cachedH1 uint32
	hashSet  bool
}

// Equal reports whether two keys carry the same payload bytes.
func (k *Key) Equal(other *Key) bool {
	return k.Payload == other.Payload
}

// SetCachedHash stores a previously computed hash pair on the key so a
// later lookup can skip re-hashing. The struct keeps h0/h1 as plain uint32
// fields in memory; CachedHashBytes below packs them through binpack into
// the wire form for callers that serialize keys.
func (k *Key) SetCachedHash(h0, h1 uint32) {
	k.cachedH0, k.cachedH1 = h0, h1
	k.hashSet = true
}

// CachedHash returns the previously stored hash pair, if any.
func (k *Key) CachedHash() (h0, h1 uint32, ok bool) {
	return k.cachedH0, k.cachedH1, k.hashSet
}

// CachedHashBytes returns the little-endian 8-byte wire encoding of the
// cached hash pair.
func (k *Key) CachedHashBytes() [8]byte {
	var buf [8]byte
	copy(buf[0:4], binpack.Uint32tob(k.cachedH0))
	copy(buf[4:8], binpack.Uint32tob(k.cachedH1))
	return buf
}
