package nighthash

import "encoding/binary"

// dmemtx performs the "deterministic memory transform" over data (length
// bytes), mutating it in place over 8 rounds and returning the running
// dispatch accumulator op.
func dmemtx(data []byte, length int, index uint32) uint32 {
	op := index
	for i := 0; i < 8; i++ {
		op += uint32(data[i])
		switch op & 7 {
		case 0:
			dmemtxXor64(data, length, 0x8181818181818181)
		case 1:
			dmemtxSwapHalves(data, length)
		case 2:
			dmemtxNot64(data, length)
		case 3:
			dmemtxParityIncDec(data, length)
		case 4:
			dmemtxParityAddI(data, length, i)
		case 5:
			dmemtxReplaceByte(data, length, 0x68, 0x48)
		case 6:
			dmemtxCompareSwapHalves(data, length)
		case 7:
			dmemtxPropagateXor(data, length)
		}
	}
	return op
}

func dmemtxXor64(data []byte, length int, mask uint64) {
	n64 := length / 8
	for w := 0; w < n64; w++ {
		v := binary.LittleEndian.Uint64(data[w*8:])
		binary.LittleEndian.PutUint64(data[w*8:], v^mask)
	}
	tailOff := n64 * 8
	mask32 := uint32(mask)
	for tailOff+4 <= length {
		v := binary.LittleEndian.Uint32(data[tailOff:])
		binary.LittleEndian.PutUint32(data[tailOff:], v^mask32)
		tailOff += 4
	}
}

func dmemtxSwapHalves(data []byte, length int) {
	half := length / 2
	for z := 0; z < half; z++ {
		data[z], data[half+z] = data[half+z], data[z]
	}
}

func dmemtxNot64(data []byte, length int) {
	n64 := length / 8
	for w := 0; w < n64; w++ {
		v := binary.LittleEndian.Uint64(data[w*8:])
		binary.LittleEndian.PutUint64(data[w*8:], ^v)
	}
	tailOff := n64 * 8
	for tailOff+4 <= length {
		v := binary.LittleEndian.Uint32(data[tailOff:])
		binary.LittleEndian.PutUint32(data[tailOff:], ^v)
		tailOff += 4
	}
}

func dmemtxParityIncDec(data []byte, length int) {
	for z := 0; z < length; z++ {
		if z&1 == 0 {
			data[z]++
		} else {
			data[z]--
		}
	}
}

func dmemtxParityAddI(data []byte, length int, round int) {
	pos := byte(-int8(round))
	neg := byte(round)
	for z := 0; z < length; z++ {
		if z&1 == 0 {
			data[z] += pos
		} else {
			data[z] += neg
		}
	}
}

func dmemtxReplaceByte(data []byte, length int, from, to byte) {
	for z := 0; z < length; z++ {
		if data[z] == from {
			data[z] = to
		}
	}
}

func dmemtxCompareSwapHalves(data []byte, length int) {
	half := length / 2
	for z := 0; z < half; z++ {
		if data[z] > data[half+z] {
			data[z], data[half+z] = data[half+z], data[z]
		}
	}
}

func dmemtxPropagateXor(data []byte, length int) {
	for z := 1; z < length; z++ {
		data[z] ^= data[z-1]
	}
}
