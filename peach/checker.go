package peach

import "github.com/lynxx1748/mochimo/hash"

// VerifyNonce is the CPU fallback hash checker. It reproduces TrySolve's
// pipeline without the precomputed 1 GiB tile cache, regenerating each
// visited tile on demand from phash via Tile. This makes it unsuitable
// for mining (every jump costs a full tile build instead of a slice
// lookup) but lets a pool-submitted share, or a GPU result, be rechecked
// with nothing more than the trailer, phash and nonce in hand.
func VerifyNonce(trailer *Trailer, phash []byte, nonce [32]byte, diff byte) bool {
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

	var tile [TileLen]byte
	for r := 0; r < 8; r++ {
		Tile(mario, phash, tile[:])
		Jump(&mario, nonce[:], tile[:])
	}

	var final [32 + TileLen]byte
	copy(final[0:32], digest[:])
	Tile(mario, phash, tile[:])
	copy(final[32:], tile[:])
	hash.Sha256(final[:], digest[:])

	return MeetsDifficulty(digest[:], diff)
}
