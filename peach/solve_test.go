package peach

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeetsDifficultyZeroAlwaysPasses(t *testing.T) {
	digest := make([]byte, 32)
	for i := range digest {
		digest[i] = 0xFF
	}
	assert.True(t, MeetsDifficulty(digest, 0))
}

func TestMeetsDifficultyWholeWordsMustBeZero(t *testing.T) {
	digest := make([]byte, 32)
	binary.BigEndian.PutUint32(digest[0:], 0)
	binary.BigEndian.PutUint32(digest[4:], 1) // non-zero second word
	assert.True(t, MeetsDifficulty(digest, 32), "diff=32 only requires the first word to be zero")
	assert.False(t, MeetsDifficulty(digest, 64), "diff=64 requires the first two words zero")
}

func TestMeetsDifficultyFineBitCheck(t *testing.T) {
	digest := make([]byte, 32)
	binary.BigEndian.PutUint32(digest[0:], 0x0000FFFF) // 16 leading zero bits
	assert.True(t, MeetsDifficulty(digest, 16))
	assert.False(t, MeetsDifficulty(digest, 17))
}

func TestClz32(t *testing.T) {
	assert.Equal(t, uint(32), clz32(0))
	assert.Equal(t, uint(0), clz32(0x80000000))
	assert.Equal(t, uint(31), clz32(1))
}

func TestTrySolveLiveness(t *testing.T) {
	// Difficulty 0 must accept any candidate; this exercises the full
	// pipeline (hash, 8 jumps, final hash) without requiring a real cache.
	var trailer Trailer
	cache := make(Cache, CacheLen*TileLen)
	nonce, ok := TrySolve(&trailer, cache, 0, 1, 2, 3, 4)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), binary.LittleEndian.Uint64(nonce[0:8]))
}

func TestTrySolveSoundness(t *testing.T) {
	// An unreachable difficulty (255 leading zero bits) must never spuriously accept.
	var trailer Trailer
	cache := make(Cache, CacheLen*TileLen)
	_, ok := TrySolve(&trailer, cache, 255, 1, 2, 3, 4)
	assert.False(t, ok)
}
