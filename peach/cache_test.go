package peach

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTileIsDeterministic(t *testing.T) {
	phash := make([]byte, 32)
	for i := range phash {
		phash[i] = byte(i)
	}
	var t1, t2 [TileLen]byte
	Tile(12345, phash, t1[:])
	Tile(12345, phash, t2[:])
	assert.Equal(t, t1, t2)
}

func TestTileDiffersByIndex(t *testing.T) {
	phash := make([]byte, 32)
	var a, b [TileLen]byte
	Tile(1, phash, a[:])
	Tile(2, phash, b[:])
	assert.NotEqual(t, a, b)
}

func TestTileDiffersByPhash(t *testing.T) {
	phashA := make([]byte, 32)
	phashB := make([]byte, 32)
	phashB[0] = 1
	var a, b [TileLen]byte
	Tile(1, phashA, a[:])
	Tile(1, phashB, b[:])
	assert.NotEqual(t, a, b)
}

// TestTilePinnedVectorZeroPhashZeroIndex pins the first 32 bytes of
// Tile(0, phash=00..00) to the literal bytes the generator computes for
// that input (bytes 0..4 of the seed digest, then the digest of the first
// chaining window), rather than only checking self-consistency across calls.
func TestTilePinnedVectorZeroPhashZeroIndex(t *testing.T) {
	phash := make([]byte, 32)
	var tile [TileLen]byte
	Tile(0, phash, tile[:])

	expected := []byte{
		0xe2, 0x01, 0xac, 0x67, 0x79, 0x19, 0x0b, 0x40,
		0xb0, 0x99, 0x7d, 0xb3, 0xcd, 0x24, 0x14, 0x94,
		0x68, 0x5b, 0x3a, 0x64, 0x94, 0xf6, 0x97, 0xa9,
		0x6a, 0x79, 0x73, 0xe2, 0xa2, 0x3c, 0x8e, 0x70,
	}
	assert.Equal(t, expected, tile[0:32])
}

func TestTilePanicsOnWrongSizedBuffers(t *testing.T) {
	phash := make([]byte, 32)
	assert.Panics(t, func() {
		var short [10]byte
		Tile(0, phash, short[:])
	})
	assert.Panics(t, func() {
		var tile [TileLen]byte
		Tile(0, make([]byte, 16), tile[:])
	})
}

func TestCacheTileSlicesAtCorrectOffset(t *testing.T) {
	c := make(Cache, TileLen*3)
	c.Tile(2)[0] = 0xAB
	assert.Equal(t, byte(0xAB), c[2*TileLen])
}
