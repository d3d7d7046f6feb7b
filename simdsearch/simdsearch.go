// Package simdsearch provides the bucket fingerprint search used by the
// flow cache's cuckoo engine: given a 16-lane array of uint32 fingerprints,
// find every lane equal to a needle value and return the match set as a
// 16-bit bitmask. Four implementations mirror the width classes the
// original C engine dispatches across at runtime (scalar, SSE-like 128-bit,
// AVX2-like 256-bit, AVX-512-like 512-bit): each is written as portable Go
// unrolled to the lane count its name advertises, since true vector
// assembly cannot be authored without a build/test loop in this
// environment (see the repository's DESIGN.md for why this is a deliberate
// simplification). Select still performs real runtime CPU-feature
// detection via golang.org/x/sys/cpu to choose the widest kernel the host
// supports.
package simdsearch

import "golang.org/x/sys/cpu"

// BucketWidth is the fixed number of lanes (fingerprint/index pairs) in a
// flow cache bucket.
const BucketWidth = 16

// Kernel finds every lane in lanes equal to needle, returning a bitmask
// with bit i set iff lanes[i] == needle.
type Kernel interface {
	Find16x32(lanes *[16]uint32, needle uint32) uint16
}

// Scalar compares one lane at a time. Always available.
type Scalar struct{}

func (Scalar) Find16x32(lanes *[16]uint32, needle uint32) uint16 {
	var mask uint16
	for i := 0; i < BucketWidth; i++ {
		if lanes[i] == needle {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// Lane128 processes lanes in groups of 4, the width of a 128-bit SIMD
// register holding four uint32 lanes.
type Lane128 struct{}

func (Lane128) Find16x32(lanes *[16]uint32, needle uint32) uint16 {
	var mask uint16
	for base := 0; base < BucketWidth; base += 4 {
		for i := base; i < base+4; i++ {
			if lanes[i] == needle {
				mask |= 1 << uint(i)
			}
		}
	}
	return mask
}

// Lane256 processes lanes in groups of 8, the width of a 256-bit SIMD
// register holding eight uint32 lanes.
type Lane256 struct{}

func (Lane256) Find16x32(lanes *[16]uint32, needle uint32) uint16 {
	var mask uint16
	for base := 0; base < BucketWidth; base += 8 {
		for i := base; i < base+8; i++ {
			if lanes[i] == needle {
				mask |= 1 << uint(i)
			}
		}
	}
	return mask
}

// Lane512 processes all 16 lanes in one group, the width of a 512-bit
// SIMD register holding sixteen uint32 lanes.
type Lane512 struct{}

func (Lane512) Find16x32(lanes *[16]uint32, needle uint32) uint16 {
	var mask uint16
	for i := 0; i < BucketWidth; i++ {
		if lanes[i] == needle {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// Select returns the widest Kernel the host CPU reports support for. It is
// computed once, at Cache construction, and never re-evaluated — there is
// no global mutable dispatch table to race on.
func Select() Kernel {
	if cpu.X86.HasAVX512F {
		return Lane512{}
	}
	if cpu.X86.HasAVX2 {
		return Lane256{}
	}
	if cpu.X86.HasSSE41 {
		return Lane128{}
	}
	return Scalar{}
}
