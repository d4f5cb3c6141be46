package peach

import "sync/atomic"

// SolveSlot is the atomic solve-slot publish primitive shared by every
// work-item targeting one queue. A 32-bit CAS followed by a non-atomic
// 32-byte store is replaced here with
// a dedicated claim word: CAS the claim from 0 to a non-zero work-item id;
// only the CAS winner writes the 32-byte nonce.
type SolveSlot struct {
	claim uint32
	nonce [32]byte
}

// TryPublish attempts to claim the slot for workItemID (which must be
// non-zero) and, on success, stores nonce. Returns true if this call won
// the race.
func (s *SolveSlot) TryPublish(workItemID uint32, nonce [32]byte) bool {
	if workItemID == 0 {
		panic("peach: work-item id must be non-zero")
	}
	if !atomic.CompareAndSwapUint32(&s.claim, 0, workItemID) {
		return false
	}
	s.nonce = nonce
	return true
}

// Clear resets the slot for a new job; must only be called when no
// in-flight work-items can still be racing to publish (i.e. during INIT,
// between cache builds).
func (s *SolveSlot) Clear() {
	atomic.StoreUint32(&s.claim, 0)
	s.nonce = [32]byte{}
}

// Solved reports whether a nonce has been published, and returns it.
func (s *SolveSlot) Solved() ([32]byte, bool) {
	if atomic.LoadUint32(&s.claim) == 0 {
		return [32]byte{}, false
	}
	return s.nonce, true
}
