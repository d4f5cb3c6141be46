package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSha256Abc(t *testing.T) {
	var digest [32]byte
	Sha256([]byte("abc"), digest[:])
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(digest[:]))
}

func TestSha256EmptyString(t *testing.T) {
	var digest [32]byte
	Sha256(nil, digest[:])
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", hex.EncodeToString(digest[:]))
}

func TestSha256OneBlockBoundary(t *testing.T) {
	// 55 'a' bytes is the longest single-byte message that still pads into
	// exactly one 64-byte block; 56 forces a second block.
	msg55 := make([]byte, 55)
	for i := range msg55 {
		msg55[i] = 'a'
	}
	var d55 [32]byte
	Sha256(msg55, d55[:])
	assert.Len(t, d55, 32)

	msg56 := make([]byte, 56)
	for i := range msg56 {
		msg56[i] = 'a'
	}
	var d56 [32]byte
	Sha256(msg56, d56[:])
	assert.NotEqual(t, d55, d56)
}
