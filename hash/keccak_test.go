package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/sha3"
)

func TestSha3MatchesStandardLibraryOracle(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	var got [32]byte
	Sha3(data, got[:])

	want := sha3.Sum256(data)
	assert.Equal(t, want[:], got[:])
}

func TestKeccakFinalMatchesLegacyOracle(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	var got [32]byte
	KeccakFinal(data, got[:])

	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	want := h.Sum(nil)

	assert.Equal(t, want, got[:])
}

func TestSha3AndKeccakFinalDiffer(t *testing.T) {
	data := []byte("domain separation check")
	var a, b [32]byte
	Sha3(data, a[:])
	KeccakFinal(data, b[:])
	assert.NotEqual(t, a, b)
}
