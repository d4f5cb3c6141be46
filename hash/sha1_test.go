package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSha1Abc(t *testing.T) {
	var digest [DigestLenSha1]byte
	Sha1([]byte("abc"), digest[:])
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", hex.EncodeToString(digest[:]))
}

func TestSha1EmptyString(t *testing.T) {
	var digest [DigestLenSha1]byte
	Sha1(nil, digest[:])
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", hex.EncodeToString(digest[:]))
}
