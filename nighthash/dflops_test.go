package nighthash

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDflopsWithoutWritebackLeavesBufferUnchanged(t *testing.T) {
	data := make([]byte, 16)
	for i := range data {
		data[i] = byte(i * 17)
	}
	before := append([]byte{}, data...)
	dflops(data, len(data), 42, false)
	assert.Equal(t, before, data)
}

func TestDflopsWithWritebackChangesBuffer(t *testing.T) {
	data := make([]byte, 16)
	for i := range data {
		data[i] = byte(i * 17)
	}
	before := append([]byte{}, data...)
	dflops(data, len(data), 42, true)
	assert.NotEqual(t, before, data)
}

func TestDflopsIsDeterministic(t *testing.T) {
	mk := func() []byte {
		data := make([]byte, 20)
		for i := range data {
			data[i] = byte(i + 5)
		}
		return data
	}
	op1 := dflops(mk(), 20, 9, true)
	op2 := dflops(mk(), 20, 9, true)
	assert.Equal(t, op1, op2)
}

// TestDflopsPinnedVector locks in the exact op and mutated buffer for
// len=4, input AA BB CC DD, index=0, txf=true: a regression guard that a
// determinism/self-inverse check alone cannot provide.
func TestDflopsPinnedVector(t *testing.T) {
	data := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	op := dflops(data, 4, 0, true)
	assert.Equal(t, uint32(710), op)
	assert.Equal(t, []byte{0xa8, 0xbb, 0x4c, 0x6d}, data)
}

func TestDflopsNeverProducesNaNInBuffer(t *testing.T) {
	data := make([]byte, 4)
	for v := 0; v < 256; v++ {
		data[0], data[1], data[2], data[3] = 0x7f, 0x80, 0x00, byte(v)
		dflops(data, 4, uint32(v), true)
		f := math.Float32frombits(loadu32le(data))
		assert.False(t, isNaN32(f), "dflops must canonicalize NaN before and after arithmetic")
	}
}
