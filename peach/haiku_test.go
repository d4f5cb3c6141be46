package peach

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackNonceIsDeterministic(t *testing.T) {
	w2a, w3a := PackNonce(123456789)
	w2b, w3b := PackNonce(123456789)
	assert.Equal(t, w2a, w2b)
	assert.Equal(t, w3a, w3b)
}

func TestPackNonceVariesWithSeed(t *testing.T) {
	w2a, w3a := PackNonce(1)
	w2b, w3b := PackNonce(2)
	assert.True(t, w2a != w2b || w3a != w3b)
}

func TestPackNonceCarriesBaseConstants(t *testing.T) {
	w2, _ := PackNonce(0)
	assert.Equal(t, haikuBaseHigh, w2&haikuBaseHigh, "base bits must always be set regardless of table lookups")
}
