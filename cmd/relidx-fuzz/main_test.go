package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextPow2(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 15: 16, 16: 16, 17: 32}
	for in, want := range cases {
		require.Equal(t, want, nextPow2(in))
	}
}

func TestRandomKeyDeterministicUnderSameSeed(t *testing.T) {
	a := rand.New(rand.NewSource(99))
	b := rand.New(rand.NewSource(99))
	k1 := randomKey(a)
	k2 := randomKey(b)
	require.Equal(t, k1.Payload, k2.Payload)
}
