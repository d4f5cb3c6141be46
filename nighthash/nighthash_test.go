package nighthash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashIsDeterministic(t *testing.T) {
	data := []byte("thirty-six-byte-fixed-width-buf!!!!")
	var d1, d2 [DigestLen]byte
	Hash(append([]byte{}, data...), 7, len(data), d1[:])
	Hash(append([]byte{}, data...), 7, len(data), d2[:])
	assert.Equal(t, d1, d2)
}

func TestHashTxlenZeroLeavesInputUntouched(t *testing.T) {
	seed := []byte("1060-byte-jump-seed-placeholder-data")
	original := append([]byte{}, seed...)
	var digest [DigestLen]byte
	Hash(seed, 3, 0, digest[:])
	assert.Equal(t, original, seed, "txlen=0 must not mutate the caller's buffer")
}

func TestHashTxlenNonZeroMutatesInput(t *testing.T) {
	data := make([]byte, 36)
	for i := range data {
		data[i] = byte(i)
	}
	original := append([]byte{}, data...)
	var digest [DigestLen]byte
	Hash(data, 1, len(data), digest[:])
	assert.NotEqual(t, original, data, "txlen=inlen must run the memory transform in place")
}

func TestDispatchCoversAllEightPrimitives(t *testing.T) {
	data := make([]byte, 40)
	for i := range data {
		data[i] = byte(i * 3)
	}
	seen := map[[DigestLen]byte]bool{}
	for idx := uint32(0); idx < 8; idx++ {
		var digest [DigestLen]byte
		dispatch(append([]byte{}, data...), idx, digest[:])
		seen[digest] = true
	}
	assert.Len(t, seen, 8, "each index mod 8 must select a distinguishable primitive")
}

func TestHashTileChainSkipsMemoryTransform(t *testing.T) {
	window := make([]byte, 36)
	for i := range window {
		window[i] = byte(i)
	}
	before := append([]byte{}, window...)
	var digest [32]byte
	HashTileChain(window, 5, digest[:])
	assert.Equal(t, before[:32], window[:32], "HashTileChain must not write back into the dflops input")
}
