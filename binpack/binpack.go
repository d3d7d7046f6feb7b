// Package binpack provides small, allocation-light helpers for packing
// fixed-width integers into little-endian byte layouts. It backs the flow
// key's cached-hash encoding.
package binpack

import "encoding/binary"

// Uint32tob converts a uint32 to a 4-byte little-endian slice.
func Uint32tob(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}

// BtoUint32 converts a 4-byte little-endian slice to a uint32.
func BtoUint32(buf []byte) uint32 {
	_ = buf[3] // bounds check hint to compiler
	return binary.LittleEndian.Uint32(buf)
}

// Uint64tob converts a uint64 to an 8-byte little-endian slice.
func Uint64tob(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// BtoUint64 converts an 8-byte little-endian slice to a uint64.
func BtoUint64(buf []byte) uint64 {
	_ = buf[7] // bounds check hint to compiler
	return binary.LittleEndian.Uint64(buf)
}

// PutUint64 writes v into buf[off:off+8] in little-endian order.
func PutUint64(buf []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(buf[off:off+8], v)
}

// PutUint32 writes v into buf[off:off+4] in little-endian order.
func PutUint32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], v)
}
