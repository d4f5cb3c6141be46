package peach

import "github.com/lynxx1748/mochimo/nighthash"

// TileLen is the size in bytes of a single Peach cache tile.
const TileLen = 1024

// CacheLen is the number of tiles in the Peach cache (1 GiB / 1024).
const CacheLen = 1 << 20

// CacheMask masks a running index down to a valid tile index.
const CacheMask = CacheLen - 1

// chainStep is the byte advance between successive tile-chaining windows;
// it matches the "4 u64-words = 32 bytes" step described for the
// generator's chaining phase.
const chainStep = 32

// Tile produces the deterministic 1024-byte tile at index i for the given
// 32-byte phash. It is the CPU reference used by tests, by the device
// orchestrator's build-kernel fallback path, and by VerifyNonce's
// cache-free fallback checker; a conforming GPU kernel must reproduce it
// bit-for-bit.
//
// The chaining window only ever advances while a full 36-byte input window
// still fits ahead of the write cursor; the final partial span of the tile
// (fewer than chainStep bytes) is left zero-filled, per the resolved tile
// chaining layout recorded in DESIGN.md.
func Tile(i uint32, phash []byte, tile []byte) {
	if len(tile) != TileLen {
		panic("peach: tile buffer must be 1024 bytes")
	}
	if len(phash) != 32 {
		panic("peach: phash must be 32 bytes")
	}
	for k := range tile {
		tile[k] = 0
	}

	var seed [36]byte
	storeu32le(seed[0:4], i)
	copy(seed[4:36], phash)
	nighthash.Hash(seed[:], i, 36, tile[0:32])

	var window [36]byte
	for j := 0; j+36 <= TileLen; j += chainStep {
		copy(window[:], tile[j:j+36])
		storeu32le(window[4:8], i)
		nighthash.HashTileChain(window[:], i, tile[j+4:j+36])
	}
}

func storeu32le(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func loadu32le(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
