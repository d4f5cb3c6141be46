// Package hash implements the fixed-input-length primitive hash functions
// Nighthash dispatches across: BLAKE2b (32/64-byte key fast paths), SHA-1,
// SHA-256, SHA-3 (Keccak, domain 0x06), Keccak-final (domain 0x01), MD2 and
// MD5. None of these are general-purpose streaming hashers; every one takes
// the whole input at once because every Nighthash call site already holds
// its buffer in memory (36, 124, 1056 or 1060 bytes).
package hash

// Digest lengths of the primitives whose native digest is shorter than 32
// bytes (SHA-1, MD5, MD2); callers zero-extend them to 256 bits, matching
// the dispatcher's fixed 32-byte contract. Blake2b-32, Blake2b-64, SHA-256,
// SHA-3 and Keccak-final already produce 32 bytes.
const (
	DigestLenSha1 = 20
	DigestLenMd5  = 16
	DigestLenMd2  = 16
)
