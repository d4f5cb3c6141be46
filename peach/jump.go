package peach

import "github.com/lynxx1748/mochimo/nighthash"

// JumpSeedLen is the layout of the cache-jump Nighthash input:
// nonce(32) || index(4, little-endian) || tile(1024) = 1060 bytes.
// The literal 1060 is not independently adjustable.
const JumpSeedLen = 32 + 4 + TileLen

// Jump performs one cache-indexed "jump" round: builds the 1060-byte seed
// nonce||index||tile, Nighthash's it with
// txlen=0 (no memory transform), and folds the eight 32-bit words of the
// resulting digest into a new cache index.
func Jump(index *uint32, nonce []byte, tile []byte) {
	var seed [JumpSeedLen]byte
	copy(seed[0:32], nonce)
	storeu32le(seed[32:36], *index)
	copy(seed[36:36+TileLen], tile)

	var digest [nighthash.DigestLen]byte
	nighthash.Hash(seed[:], *index, 0, digest[:])

	var sum uint32
	for w := 0; w < 8; w++ {
		sum += loadu32le(digest[w*4 : w*4+4])
	}
	*index = sum & CacheMask
}
