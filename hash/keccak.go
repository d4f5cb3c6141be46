package hash

import "encoding/binary"

// rate136 is the Keccak-f[1600] rate (in bytes) for a 256-bit capacity,
// used by both the SHA-3 and "Keccak-final" domains below.
const rate136 = 136

// Sha3 computes SHA3-256 (domain padding byte 0x06) over data into a
// 32-byte digest.
func Sha3(data []byte, digest []byte) {
	keccak(data, 0x06, digest)
}

// KeccakFinal computes the legacy Keccak-256 variant (domain padding byte
// 0x01, predating the NIST SHA-3 finalization) over data into a 32-byte
// digest. Nighthash dispatches to this as a distinct primitive from Sha3.
func KeccakFinal(data []byte, digest []byte) {
	keccak(data, 0x01, digest)
}

func keccak(data []byte, domain byte, digest []byte) {
	var state [25]uint64 // 1600 bits

	absorb := func(block []byte) {
		for i := 0; i < rate136/8; i++ {
			state[i] ^= binary.LittleEndian.Uint64(block[i*8:])
		}
		keccakF1600(&state)
	}

	n := len(data)
	for off := 0; off+rate136 <= n; off += rate136 {
		absorb(data[off : off+rate136])
	}

	tail := n - (n/rate136)*rate136
	var last [rate136]byte
	copy(last[:], data[n-tail:])
	last[tail] ^= domain
	last[rate136-1] ^= 0x80
	absorb(last[:])

	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(digest[i*8:], state[i])
	}
}

var keccakRC = [24]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808a, 0x8000000080008000,
	0x000000000000808b, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008a, 0x0000000000000088, 0x0000000080008009, 0x000000008000000a,
	0x000000008000808b, 0x800000000000008b, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800a, 0x800000008000000a,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

var keccakRotc = [24]uint{
	1, 3, 6, 10, 15, 21, 28, 36, 45, 55, 2, 14,
	27, 41, 56, 8, 25, 43, 62, 18, 39, 61, 20, 44,
}

var keccakPiln = [24]int{
	10, 7, 11, 17, 18, 3, 5, 16, 8, 21, 24, 4,
	15, 23, 19, 13, 12, 2, 20, 14, 22, 9, 6, 1,
}

func keccakF1600(state *[25]uint64) {
	var bc [5]uint64
	for round := 0; round < 24; round++ {
		for i := 0; i < 5; i++ {
			bc[i] = state[i] ^ state[i+5] ^ state[i+10] ^ state[i+15] ^ state[i+20]
		}
		for i := 0; i < 5; i++ {
			t := bc[(i+4)%5] ^ blake2bRotr(bc[(i+1)%5], 63)
			for j := 0; j < 25; j += 5 {
				state[j+i] ^= t
			}
		}

		t := state[1]
		for i := 0; i < 24; i++ {
			j := keccakPiln[i]
			bc[0] = state[j]
			state[j] = blake2bRotr(t, 64-keccakRotc[i])
			t = bc[0]
		}

		for j := 0; j < 25; j += 5 {
			for i := 0; i < 5; i++ {
				bc[i] = state[j+i]
			}
			for i := 0; i < 5; i++ {
				state[j+i] = bc[i] ^ (^bc[(i+1)%5] & bc[(i+2)%5])
			}
		}

		state[0] ^= keccakRC[round]
	}
}
