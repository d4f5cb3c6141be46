package peach

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedPRNGCombinesAllThreeInputs(t *testing.T) {
	a := SeedPRNG(100, 1, 0)
	b := SeedPRNG(100, 2, 0)
	c := SeedPRNG(100, 1, 1)
	d := SeedPRNG(101, 1, 0)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
}

func TestPRNGNextIsDeterministicAndAdvances(t *testing.T) {
	s1 := SeedPRNG(42, 0, 0)
	s2 := s1
	first := s1.Next()
	second := s1.Next()
	assert.Equal(t, first, s2.Next())
	assert.NotEqual(t, first, second)
}

func TestPRNGNextMutatesStateInPlace(t *testing.T) {
	s := SeedPRNG(1, 1, 1)
	before := s
	s.Next()
	assert.NotEqual(t, before, s)
}
