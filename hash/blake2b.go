package hash

import "encoding/binary"

// Blake2b is a from-scratch, fixed-keylen BLAKE2b (RFC 7693) specialised for
// Nighthash: it is always called with a zero-filled key of length 32 or 64
// bytes and a 32-byte output digest, which lets the key-block compression
// collapse to one of two literal chaining-value states computed once at
// package init instead of being recomputed per call, the "fast-forwarded
// key-setup" freedom the primitive library is allowed to take.
func Blake2b(data []byte, keylen int, digest []byte) {
	var h [8]uint64
	switch keylen {
	case 32:
		h = blake2bKeylen32State
	case 64:
		h = blake2bKeylen64State
	default:
		panic("hash: Blake2b keylen must be 32 or 64")
	}

	t := uint64(128) // the zero-filled key block already folded into h
	n := len(data)
	if n == 0 {
		return // digest is left unwritten for an empty input; every
		// Nighthash call site passes a non-empty buffer, so this only
		// guards against a misuse panic.
	}

	for off := 0; off < n; off += 128 {
		end := off + 128
		final := end >= n
		var block [128]byte
		if final {
			copy(block[:], data[off:])
			t += uint64(n - off)
		} else {
			copy(block[:], data[off:end])
			t += 128
		}
		blake2bCompress(&h, block[:], t, final)
	}

	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(digest[i*8:], h[i])
	}
}

// blake2bInitialState computes the chaining value after compressing the
// parameter block and a single zero-filled key block of length keylen,
// matching the precomputed fast-path states required by the primitive spec.
func blake2bInitialState(keylen int) [8]uint64 {
	var h [8]uint64
	h = blake2bIV
	h[0] ^= 0x01010000 ^ (uint64(keylen) << 8) ^ 32 // digest length fixed at 32

	var key [128]byte
	blake2bCompress(&h, key[:], 128, false)
	return h
}

var blake2bKeylen32State = blake2bInitialState(32)
var blake2bKeylen64State = blake2bInitialState(64)

var blake2bIV = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b,
	0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f,
	0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

var blake2bSigma = [12][16]byte{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
	{11, 8, 12, 0, 5, 2, 15, 13, 10, 14, 3, 6, 7, 1, 9, 4},
	{7, 9, 3, 1, 13, 12, 11, 14, 2, 6, 5, 10, 4, 0, 15, 8},
	{9, 0, 5, 7, 2, 4, 10, 15, 14, 1, 11, 12, 6, 8, 3, 13},
	{2, 12, 6, 10, 0, 11, 8, 3, 4, 13, 7, 5, 15, 14, 1, 9},
	{12, 5, 1, 15, 14, 13, 4, 10, 0, 7, 6, 3, 9, 2, 8, 11},
	{13, 11, 7, 14, 12, 1, 3, 9, 5, 0, 15, 4, 8, 6, 2, 10},
	{6, 15, 14, 9, 11, 3, 0, 8, 12, 2, 13, 7, 1, 4, 10, 5},
	{10, 2, 8, 4, 7, 6, 1, 5, 15, 11, 9, 14, 3, 12, 13, 0},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
}

func blake2bRotr(x uint64, n uint) uint64 {
	return (x >> n) | (x << (64 - n))
}

func blake2bMix(va, vb, vc, vd *uint64, x, y uint64) {
	*va = *va + *vb + x
	*vd = blake2bRotr(*vd^*va, 32)
	*vc = *vc + *vd
	*vb = blake2bRotr(*vb^*vc, 24)
	*va = *va + *vb + y
	*vd = blake2bRotr(*vd^*va, 16)
	*vc = *vc + *vd
	*vb = blake2bRotr(*vb^*vc, 63)
}

func blake2bCompress(h *[8]uint64, block []byte, t uint64, final bool) {
	var v [16]uint64
	copy(v[0:8], h[:])
	copy(v[8:16], blake2bIV[:])
	v[12] ^= t
	if final {
		v[14] ^= ^uint64(0)
	}

	var m [16]uint64
	for i := 0; i < 16; i++ {
		m[i] = binary.LittleEndian.Uint64(block[i*8:])
	}

	for round := 0; round < 12; round++ {
		s := blake2bSigma[round]
		blake2bMix(&v[0], &v[4], &v[8], &v[12], m[s[0]], m[s[1]])
		blake2bMix(&v[1], &v[5], &v[9], &v[13], m[s[2]], m[s[3]])
		blake2bMix(&v[2], &v[6], &v[10], &v[14], m[s[4]], m[s[5]])
		blake2bMix(&v[3], &v[7], &v[11], &v[15], m[s[6]], m[s[7]])
		blake2bMix(&v[0], &v[5], &v[10], &v[15], m[s[8]], m[s[9]])
		blake2bMix(&v[1], &v[6], &v[11], &v[12], m[s[10]], m[s[11]])
		blake2bMix(&v[2], &v[7], &v[8], &v[13], m[s[12]], m[s[13]])
		blake2bMix(&v[3], &v[4], &v[9], &v[14], m[s[14]], m[s[15]])
	}

	for i := 0; i < 8; i++ {
		h[i] ^= v[i] ^ v[i+8]
	}
}
