package binpack

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint32RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 123, math.MaxUint32} {
		buf := Uint32tob(v)
		require.Len(t, buf, 4)
		require.Equal(t, v, BtoUint32(buf))
	}
}

func TestUint64RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 123, math.MaxUint64, math.MaxUint64 - 1} {
		buf := Uint64tob(v)
		require.Len(t, buf, 8)
		require.Equal(t, v, BtoUint64(buf))
	}
}

func TestPutUint64AtOffset(t *testing.T) {
	buf := make([]byte, 16)
	PutUint64(buf, 4, 0xdeadbeefcafef00d)
	require.Equal(t, uint64(0xdeadbeefcafef00d), BtoUint64(buf[4:12]))
}

func TestPutUint32AtOffset(t *testing.T) {
	buf := make([]byte, 8)
	PutUint32(buf, 2, 0xcafef00d)
	require.Equal(t, uint32(0xcafef00d), BtoUint32(buf[2:6]))
}
