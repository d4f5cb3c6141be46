// Package nighthash implements the Peach proof-of-work polyalgorithm
// dispatcher: a deterministic float-op pass, an optional deterministic
// memory transform, and a data-dependent selection among eight primitive
// hash functions from the hash package.
package nighthash

import "github.com/lynxx1748/mochimo/hash"

// DigestLen is the width of every Nighthash output, regardless of which
// underlying primitive was selected; shorter digests are zero-extended.
const DigestLen = 32

// Hash computes the Nighthash digest of data (inlen bytes) seeded with
// index. When txlen is non-zero it must equal inlen, and the deterministic
// memory transform runs (and dflops is allowed to write back into data);
// when txlen is zero, dflops still runs over the full buffer but mutates a
// local scratch copy only, and the memory transform is skipped. This is the
// general two-mode contract used by the tile seed hash (txlen=inlen=36) and
// the cache jump (txlen=0, inlen=1060).
func Hash(data []byte, index uint32, txlen int, digest []byte) {
	inlen := len(data)
	if txlen == 0 {
		scratch := make([]byte, inlen)
		copy(scratch, data)
		idx := dflops(scratch, inlen, index, false)
		dispatch(scratch, idx, digest)
		return
	}

	idx := dflops(data, txlen, index, true)
	idx = dmemtx(data, txlen, idx)
	dispatch(data, idx, digest)
}

// HashTileChain implements the tile generator's per-step chaining call:
// dflops runs over only the first 32 bytes of the 36-byte buffer, without
// writeback, and the memory transform is skipped entirely even though
// txlen for this call site is 32 (non-zero). The primitive is then
// dispatched over the full 36-byte buffer using the resulting index.
func HashTileChain(data36 []byte, index uint32, digest []byte) {
	scratch := make([]byte, 32)
	copy(scratch, data36[:32])
	idx := dflops(scratch, 32, index, false)
	dispatch(data36, idx, digest)
}

func dispatch(data []byte, index uint32, digest []byte) {
	switch index % 8 {
	case 0:
		hash.Blake2b(data, 32, digest)
	case 1:
		hash.Blake2b(data, 64, digest)
	case 2:
		var d [hash.DigestLenSha1]byte
		hash.Sha1(data, d[:])
		zeroExtend(d[:], digest)
	case 3:
		hash.Sha256(data, digest)
	case 4:
		hash.Sha3(data, digest)
	case 5:
		hash.KeccakFinal(data, digest)
	case 6:
		var d [hash.DigestLenMd2]byte
		hash.Md2(data, d[:])
		zeroExtend(d[:], digest)
	case 7:
		var d [hash.DigestLenMd5]byte
		hash.Md5(data, d[:])
		zeroExtend(d[:], digest)
	}
}

func zeroExtend(src, dst []byte) {
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, src)
}
