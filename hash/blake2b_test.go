package hash

import (
	"testing"

	dchestblake2b "github.com/dchest/blake2b"
	"github.com/stretchr/testify/assert"
)

// TestBlake2bMatchesKeyedReference cross-checks the from-scratch fixed-keylen
// Blake2b against an independent keyed BLAKE2b implementation, confirming
// the "zero-filled key of length 32/64, 32-byte digest" interpretation of
// the primitive's fast-forwarded key setup.
func TestBlake2bMatchesKeyedReference(t *testing.T) {
	for _, keylen := range []int{32, 64} {
		data := []byte("the quick brown fox jumps over the lazy dog")

		var got [32]byte
		Blake2b(data, keylen, got[:])

		h, err := dchestblake2b.New(&dchestblake2b.Config{Size: 32, Key: make([]byte, keylen)})
		assert.NoError(t, err)
		h.Write(data)
		want := h.Sum(nil)

		assert.Equal(t, want, got[:], "keylen %d", keylen)
	}
}

func TestBlake2bRejectsBadKeylen(t *testing.T) {
	assert.Panics(t, func() {
		var digest [32]byte
		Blake2b([]byte("x"), 16, digest[:])
	})
}
