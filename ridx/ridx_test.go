package ridx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilRoundTrip(t *testing.T) {
	require.True(t, IsNil(Nil))
	require.Equal(t, -1, ToSlot(Nil))
	require.Equal(t, Nil, FromSlot(-1))
}

func TestSlotRoundTrip(t *testing.T) {
	for slot := 0; slot < 64; slot++ {
		idx := FromSlot(slot)
		require.False(t, IsNil(idx))
		require.Equal(t, slot, ToSlot(idx))
	}
}

func TestIsValid(t *testing.T) {
	require.False(t, IsValid(Nil, 10))
	require.True(t, IsValid(1, 10))
	require.True(t, IsValid(10, 10))
	require.False(t, IsValid(11, 10))
}

func TestAt(t *testing.T) {
	arena := []int{10, 20, 30}
	require.Nil(t, At(arena, Nil))
	require.Equal(t, 10, *At(arena, FromSlot(0)))
	require.Equal(t, 30, *At(arena, FromSlot(2)))
}
