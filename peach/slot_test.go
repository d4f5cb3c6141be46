package peach

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolveSlotFirstPublishWins(t *testing.T) {
	var slot SolveSlot
	var n1, n2 [32]byte
	n1[0] = 1
	n2[0] = 2

	assert.True(t, slot.TryPublish(1, n1))
	assert.False(t, slot.TryPublish(2, n2), "a slot can only be claimed once")

	nonce, ok := slot.Solved()
	assert.True(t, ok)
	assert.Equal(t, n1, nonce)
}

func TestSolveSlotClearAllowsRepublish(t *testing.T) {
	var slot SolveSlot
	var n [32]byte
	n[0] = 9
	slot.TryPublish(1, n)
	slot.Clear()

	_, ok := slot.Solved()
	assert.False(t, ok)

	assert.True(t, slot.TryPublish(5, n))
}

func TestSolveSlotConcurrentPublishHasExactlyOneWinner(t *testing.T) {
	var slot SolveSlot
	var wg sync.WaitGroup
	wins := make(chan uint32, 64)

	for i := uint32(1); i <= 64; i++ {
		wg.Add(1)
		go func(id uint32) {
			defer wg.Done()
			var nonce [32]byte
			nonce[0] = byte(id)
			if slot.TryPublish(id, nonce) {
				wins <- id
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestSolveSlotRejectsZeroWorkItemID(t *testing.T) {
	var slot SolveSlot
	var n [32]byte
	assert.Panics(t, func() { slot.TryPublish(0, n) })
}
