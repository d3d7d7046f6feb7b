// Package fhash provides the pluggable hash kernels used by the flow cache
// to derive a bucket pair (h0, h1) from a flow key. A kernel must satisfy
// two constraints for a given bucket mask: (h0&mask) != (h1&mask), so a
// key's two candidate buckets are always distinct, and h0^h1 must never
// equal the all-ones fingerprint-invalid sentinel. Remix handles both,
// mirroring the original C implementation's raw hash_fn callback contract —
// the cache engine enforces the constraints at the call site, not the
// kernel itself.
package fhash

import (
	"hash/crc32"

	"github.com/spaolacci/murmur3"
)

// FingerprintInvalid is the reserved "empty slot" fingerprint value; no
// live key may ever hash to it.
const FingerprintInvalid uint32 = 0xFFFFFFFF

// Kernel computes the two bucket-selector halves for a key.
type Kernel interface {
	Hash(key []byte) (h0, h1 uint32)
}

// Remix re-derives (h0, h1) until both of the flow cache's constraints hold
// for the given bucket mask: distinct candidate buckets and a valid
// fingerprint. It is shared by every Kernel implementation so a future
// kernel only needs to supply the initial mixing step.
func Remix(h0, h1, mask uint32) (uint32, uint32) {
	for (h0&mask) == (h1&mask) || h0^h1 == FingerprintInvalid {
		h0, h1 = h1, rotl32(h0)^0x9e3779b9
	}
	return h0, h1
}

func rotl32(v uint32) uint32 {
	return (v << 13) | (v >> 19)
}

// Generic is the default kernel: a Murmur3 pass over the key, split into
// its upper and lower halves.
type Generic struct{}

func (Generic) Hash(key []byte) (uint32, uint32) {
	h64 := murmur3.Sum64(key)
	return uint32(h64), uint32(h64 >> 32)
}

// Fast is a cheaper kernel built on the CRC32 Castagnoli polynomial, which
// on amd64/arm64 the Go runtime dispatches to a hardware CRC32 instruction
// without any third-party package: this is the literal "SSE4.2-CRC" kernel
// the original names, expressed with the standard library's own dispatch
// rather than reimplemented.
type Fast struct{}

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

func (Fast) Hash(key []byte) (uint32, uint32) {
	h0 := crc32.Checksum(key, castagnoliTable)
	rotated := make([]byte, len(key))
	copy(rotated, key[len(key)/2:])
	copy(rotated[len(key)-len(key)/2:], key[:len(key)/2])
	h1 := crc32.Checksum(rotated, castagnoliTable)
	return h0, h1
}

// HashConstrained runs kernel then Remix against mask, returning halves
// that satisfy both flow cache constraints.
func HashConstrained(k Kernel, key []byte, mask uint32) (uint32, uint32) {
	h0, h1 := k.Hash(key)
	return Remix(h0, h1, mask)
}
