package peach

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrailerAccessorsRoundtrip(t *testing.T) {
	var tr Trailer
	tr.SetBnumUint64(0x0102030405060708)
	tr.SetTcount(9001)
	tr.SetTime0(1700000000)
	tr.SetDifficulty(37)
	tr.SetStime(1700000100)

	assert.Equal(t, uint64(0x0102030405060708), tr.BnumUint64())
	assert.Equal(t, uint32(9001), tr.Tcount())
	assert.Equal(t, uint32(1700000000), tr.Time0())
	assert.Equal(t, byte(37), tr.Difficulty())
}

func TestTrailerPrefixAndNoncedInputLengths(t *testing.T) {
	var tr Trailer
	assert.Len(t, tr.Prefix(), HashedPrefixLen)
	assert.Len(t, tr.NoncedInput(), HashedPrefixLen+32)
	assert.Len(t, tr.Phash(), 32)
	assert.Len(t, tr.Nonce(), 32)
}

func TestEffectiveDifficulty(t *testing.T) {
	assert.Equal(t, byte(10), EffectiveDifficulty(10, 20), "a lower supplied diff wins")
	assert.Equal(t, byte(20), EffectiveDifficulty(30, 20), "a higher supplied diff loses to the trailer's")
	assert.Equal(t, byte(20), EffectiveDifficulty(0, 20), "a zero supplied diff defers entirely to the trailer")
}
