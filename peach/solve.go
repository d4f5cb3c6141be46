package peach

import (
	"encoding/binary"

	"github.com/lynxx1748/mochimo/hash"
)

// Cache is the 1 GiB Peach tile cache, addressed by tile index.
type Cache []byte

func (c Cache) Tile(index uint32) []byte {
	off := uint64(index) * TileLen
	return c[off : off+TileLen]
}

// TrySolve is the CPU reference implementation of one solve-kernel
// work-item, backed by a real tile cache. It is used by tests and as the
// ground truth the OpenCL solve kernel must reproduce bit for bit; see
// VerifyNonce for the cache-free variant used to recheck a nonce offline.
// nonceWord2/nonceWord3 are the haiku-packed upper 16 bytes already
// computed by PackNonce; nonceWord0/nonceWord1 are the trailer's existing
// lower 16 nonce bytes, carried through unchanged.
//
// Returns the emitted 32-byte nonce and true when the candidate satisfies
// diff; otherwise returns false.
func TrySolve(trailer *Trailer, cache Cache, diff byte, nonceWord0, nonceWord1, nonceWord2, nonceWord3 uint64) (nonce [32]byte, ok bool) {
	binary.LittleEndian.PutUint64(nonce[0:8], nonceWord0)
	binary.LittleEndian.PutUint64(nonce[8:16], nonceWord1)
	binary.LittleEndian.PutUint64(nonce[16:24], nonceWord2)
	binary.LittleEndian.PutUint64(nonce[24:32], nonceWord3)

	var input [HashedPrefixLen + 32]byte
	copy(input[0:HashedPrefixLen], trailer.Prefix())
	copy(input[HashedPrefixLen:], nonce[:])

	var digest [32]byte
	hash.Sha256(input[:], digest[:])

	mario := uint32(digest[0])
	for i := 1; i < 32; i++ {
		mario = mario * uint32(digest[i])
	}
	mario &= CacheMask

	for r := 0; r < 8; r++ {
		Jump(&mario, nonce[:], cache.Tile(mario))
	}

	var final [32 + TileLen]byte
	copy(final[0:32], digest[:])
	copy(final[32:], cache.Tile(mario))
	hash.Sha256(final[:], digest[:])

	if !MeetsDifficulty(digest[:], diff) {
		return nonce, false
	}
	return nonce, true
}

// MeetsDifficulty implements the coarse/fine difficulty check: the hash
// is viewed as eight big-endian u32 words; the top diff>>5 words
// must be zero, and the next word must have at least diff&31 leading zero
// bits.
func MeetsDifficulty(digest []byte, diff byte) bool {
	words := diff >> 5
	bits := diff & 31

	for k := byte(0); k < words; k++ {
		if binary.BigEndian.Uint32(digest[k*4:]) != 0 {
			return false
		}
	}
	if int(words)*4 >= len(digest) {
		return true
	}
	w := binary.BigEndian.Uint32(digest[words*4:])
	return clz32(w) >= uint(bits)
}

func clz32(x uint32) uint {
	if x == 0 {
		return 32
	}
	var n uint
	for x&0x80000000 == 0 {
		x <<= 1
		n++
	}
	return n
}
