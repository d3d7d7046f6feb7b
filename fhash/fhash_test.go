package fhash

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemixSatisfiesConstraints(t *testing.T) {
	const mask = 0xFF
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		h0 := rng.Uint32()
		h1 := rng.Uint32()
		r0, r1 := Remix(h0, h1, mask)
		require.NotEqual(t, r0&mask, r1&mask)
		require.NotEqual(t, FingerprintInvalid, r0^r1)
	}
}

func TestGenericHashConstrainedDistinctBuckets(t *testing.T) {
	var k Generic
	rng := rand.New(rand.NewSource(2))
	const mask = 0x3FF
	for i := 0; i < 200; i++ {
		key := make([]byte, 48)
		rng.Read(key)
		h0, h1 := HashConstrained(k, key, mask)
		require.NotEqual(t, h0&mask, h1&mask)
		require.NotEqual(t, FingerprintInvalid, h0^h1)
	}
}

func TestFastHashConstrainedDistinctBuckets(t *testing.T) {
	var k Fast
	rng := rand.New(rand.NewSource(3))
	const mask = 0x3FF
	for i := 0; i < 200; i++ {
		key := make([]byte, 48)
		rng.Read(key)
		h0, h1 := HashConstrained(k, key, mask)
		require.NotEqual(t, h0&mask, h1&mask)
		require.NotEqual(t, FingerprintInvalid, h0^h1)
	}
}

func TestGenericDeterministic(t *testing.T) {
	var k Generic
	key := []byte("deterministic-flow-key-payload-0123456789ab")
	a0, a1 := k.Hash(key)
	b0, b1 := k.Hash(key)
	require.Equal(t, a0, b0)
	require.Equal(t, a1, b1)
}
