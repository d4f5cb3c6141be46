package hash

import "encoding/binary"

// Md5 is a from-scratch MD5 (RFC 1321) for Nighthash's short fixed-length
// buffers. Digest must be 16 bytes.
func Md5(data []byte, digest []byte) {
	a0, b0, c0, d0 := md5A0, md5B0, md5C0, md5D0

	blocks := md5Pad(data)
	var m [16]uint32
	for b := 0; b < len(blocks); b += 64 {
		block := blocks[b : b+64]
		for i := 0; i < 16; i++ {
			m[i] = binary.LittleEndian.Uint32(block[i*4:])
		}

		a, bb, c, d := a0, b0, c0, d0
		for i := 0; i < 64; i++ {
			var f uint32
			var g int
			switch {
			case i < 16:
				f = (bb & c) | (^bb & d)
				g = i
			case i < 32:
				f = (d & bb) | (^d & c)
				g = (5*i + 1) % 16
			case i < 48:
				f = bb ^ c ^ d
				g = (3*i + 5) % 16
			default:
				f = c ^ (bb | ^d)
				g = (7 * i) % 16
			}
			f += a + md5K[i] + m[g]
			a = d
			d = c
			c = bb
			bb += rotl32(f, md5S[i])
		}
		a0 += a
		b0 += bb
		c0 += c
		d0 += d
	}

	binary.LittleEndian.PutUint32(digest[0:], a0)
	binary.LittleEndian.PutUint32(digest[4:], b0)
	binary.LittleEndian.PutUint32(digest[8:], c0)
	binary.LittleEndian.PutUint32(digest[12:], d0)
}

// md5Pad mirrors sha256Pad's shape but with a little-endian bit-length
// suffix, per RFC 1321.
func md5Pad(data []byte) []byte {
	bitLen := uint64(len(data)) * 8
	padLen := 64 - ((len(data) + 9) % 64)
	if padLen == 64 {
		padLen = 0
	}
	out := make([]byte, len(data)+1+padLen+8)
	copy(out, data)
	out[len(data)] = 0x80
	binary.LittleEndian.PutUint64(out[len(out)-8:], bitLen)
	return out
}

const (
	md5A0 uint32 = 0x67452301
	md5B0 uint32 = 0xefcdab89
	md5C0 uint32 = 0x98badcfe
	md5D0 uint32 = 0x10325476
)

var md5S = [64]uint{
	7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22,
	5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20,
	4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23,
	6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21,
}

var md5K = [64]uint32{
	0xd76aa478, 0xe8c7b756, 0x242070db, 0xc1bdceee,
	0xf57c0faf, 0x4787c62a, 0xa8304613, 0xfd469501,
	0x698098d8, 0x8b44f7af, 0xffff5bb1, 0x895cd7be,
	0x6b901122, 0xfd987193, 0xa679438e, 0x49b40821,
	0xf61e2562, 0xc040b340, 0x265e5a51, 0xe9b6c7aa,
	0xd62f105d, 0x02441453, 0xd8a1e681, 0xe7d3fbc8,
	0x21e1cde6, 0xc33707d6, 0xf4d50d87, 0x455a14ed,
	0xa9e3e905, 0xfcefa3f8, 0x676f02d9, 0x8d2a4c8a,
	0xfffa3942, 0x8771f681, 0x6d9d6122, 0xfde5380c,
	0xa4beea44, 0x4bdecfa9, 0xf6bb4b60, 0xbebfbc70,
	0x289b7ec6, 0xeaa127fa, 0xd4ef3085, 0x04881d05,
	0xd9d4d039, 0xe6db99e5, 0x1fa27cf8, 0xc4ac5665,
	0xf4292244, 0x432aff97, 0xab9423a7, 0xfc93a039,
	0x655b59c3, 0x8f0ccc92, 0xffeff47d, 0x85845dd1,
	0x6fa87e4f, 0xfe2ce6e0, 0xa3014314, 0x4e0811a1,
	0xf7537e82, 0xbd3af235, 0x2ad7d2bb, 0xeb86d391,
}
