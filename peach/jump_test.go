package peach

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJumpStaysWithinCacheMask(t *testing.T) {
	nonce := make([]byte, 32)
	tile := make([]byte, TileLen)
	for i := range tile {
		tile[i] = byte(i)
	}
	index := uint32(0xFFFFFFFF)
	Jump(&index, nonce, tile)
	assert.LessOrEqual(t, index, uint32(CacheMask))
}

func TestJumpIsDeterministic(t *testing.T) {
	nonce := make([]byte, 32)
	tile := make([]byte, TileLen)
	i1, i2 := uint32(7), uint32(7)
	Jump(&i1, nonce, tile)
	Jump(&i2, nonce, tile)
	assert.Equal(t, i1, i2)
}

func TestJumpChangesIndexAcrossRounds(t *testing.T) {
	nonce := make([]byte, 32)
	for i := range nonce {
		nonce[i] = byte(i * 3)
	}
	tile := make([]byte, TileLen)
	for i := range tile {
		tile[i] = byte(i)
	}
	index := uint32(1)
	seen := map[uint32]bool{index: true}
	for r := 0; r < 8; r++ {
		Jump(&index, nonce, tile)
		seen[index] = true
	}
	assert.Greater(t, len(seen), 1, "8 jump rounds should visit more than one index")
}
