package simdsearch

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var allKernels = []Kernel{Scalar{}, Lane128{}, Lane256{}, Lane512{}}

func TestKernelsAgreeWithScalarReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		var lanes [16]uint32
		for i := range lanes {
			lanes[i] = rng.Uint32() % 8
		}
		needle := rng.Uint32() % 8
		want := Scalar{}.Find16x32(&lanes, needle)
		for _, k := range allKernels {
			got := k.Find16x32(&lanes, needle)
			require.Equal(t, want, got)
		}
	}
}

func TestNoMatchReturnsZero(t *testing.T) {
	var lanes [16]uint32
	for i := range lanes {
		lanes[i] = uint32(i + 1)
	}
	for _, k := range allKernels {
		require.Equal(t, uint16(0), k.Find16x32(&lanes, 0xFFFFFFFF))
	}
}

func TestAllLanesMatch(t *testing.T) {
	var lanes [16]uint32
	for i := range lanes {
		lanes[i] = 7
	}
	for _, k := range allKernels {
		require.Equal(t, uint16(0xFFFF), k.Find16x32(&lanes, 7))
	}
}

func TestSelectReturnsNonNilKernel(t *testing.T) {
	k := Select()
	require.NotNil(t, k)
	var lanes [16]uint32
	lanes[3] = 99
	require.Equal(t, uint16(1<<3), k.Find16x32(&lanes, 99))
}
