package hash

import "encoding/binary"

// Sha1 is a from-scratch SHA-1 (FIPS 180-4) for the short fixed-length
// buffers the Nighthash dispatcher feeds it. Digest must be 20 bytes.
func Sha1(data []byte, digest []byte) {
	h0, h1, h2, h3, h4 := sha1H0, sha1H1, sha1H2, sha1H3, sha1H4

	blocks := sha256Pad(data) // identical 0x80/zero/bitlen-64 padding scheme
	var w [80]uint32
	for b := 0; b < len(blocks); b += 64 {
		block := blocks[b : b+64]
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(block[i*4:])
		}
		for i := 16; i < 80; i++ {
			w[i] = rotl32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
		}

		a, b1, c, d, e := h0, h1, h2, h3, h4
		for i := 0; i < 80; i++ {
			var f, k uint32
			switch {
			case i < 20:
				f = (b1 & c) | (^b1 & d)
				k = 0x5a827999
			case i < 40:
				f = b1 ^ c ^ d
				k = 0x6ed9eba1
			case i < 60:
				f = (b1 & c) | (b1 & d) | (c & d)
				k = 0x8f1bbcdc
			default:
				f = b1 ^ c ^ d
				k = 0xca62c1d6
			}
			tmp := rotl32(a, 5) + f + e + k + w[i]
			e = d
			d = c
			c = rotl32(b1, 30)
			b1 = a
			a = tmp
		}
		h0 += a
		h1 += b1
		h2 += c
		h3 += d
		h4 += e
	}

	binary.BigEndian.PutUint32(digest[0:], h0)
	binary.BigEndian.PutUint32(digest[4:], h1)
	binary.BigEndian.PutUint32(digest[8:], h2)
	binary.BigEndian.PutUint32(digest[12:], h3)
	binary.BigEndian.PutUint32(digest[16:], h4)
}

func rotl32(x uint32, n uint) uint32 {
	return (x << n) | (x >> (32 - n))
}

const (
	sha1H0 uint32 = 0x67452301
	sha1H1 uint32 = 0xefcdab89
	sha1H2 uint32 = 0x98badcfe
	sha1H3 uint32 = 0x10325476
	sha1H4 uint32 = 0xc3d2e1f0
)
