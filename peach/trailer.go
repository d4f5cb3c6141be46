// Package peach implements the Peach proof-of-work cache, tile generator,
// per-work-item solve pipeline, and device orchestrator described by the
// mining pool's block-trailer contract.
package peach

import "encoding/binary"

// TrailerLen is the wire size of a block trailer.
const TrailerLen = 160

// Offsets into a Trailer's byte representation, fixed for wire/hash
// compatibility with the pool and with the solve kernel's 92/124-byte
// prefixes.
const (
	offPhash      = 0
	offBnum       = 32
	offMfee       = 40
	offTcount     = 48
	offTime0      = 52
	offDifficulty = 56
	offMroot      = 60
	offNonce      = 92
	offStime      = 124
	offBhash      = 128
)

// HashedPrefixLen is the 92-byte phash..mroot prefix that, concatenated
// with the 32-byte nonce, forms the solve kernel's 124-byte SHA-256 input.
const HashedPrefixLen = 92

// Trailer is the 160-byte block header the solver searches a nonce for.
type Trailer [TrailerLen]byte

func (t *Trailer) Phash() []byte      { return t[offPhash : offPhash+32] }
func (t *Trailer) Bnum() []byte       { return t[offBnum : offBnum+8] }
func (t *Trailer) Mfee() []byte       { return t[offMfee : offMfee+8] }
func (t *Trailer) Mroot() []byte      { return t[offMroot : offMroot+32] }
func (t *Trailer) Nonce() []byte      { return t[offNonce : offNonce+32] }
func (t *Trailer) Bhash() []byte      { return t[offBhash : offBhash+32] }
func (t *Trailer) Prefix() []byte     { return t[0:HashedPrefixLen] }
func (t *Trailer) NoncedInput() []byte { return t[0 : offNonce+32] }

func (t *Trailer) Tcount() uint32 { return binary.LittleEndian.Uint32(t[offTcount:]) }
func (t *Trailer) SetTcount(v uint32) {
	binary.LittleEndian.PutUint32(t[offTcount:], v)
}

func (t *Trailer) Time0() uint32 { return binary.LittleEndian.Uint32(t[offTime0:]) }
func (t *Trailer) SetTime0(v uint32) {
	binary.LittleEndian.PutUint32(t[offTime0:], v)
}

func (t *Trailer) SetStime(v uint32) {
	binary.LittleEndian.PutUint32(t[offStime:], v)
}

// Difficulty returns the single byte of the difficulty field the PoW
// algorithm actually uses.
func (t *Trailer) Difficulty() byte { return t[offDifficulty] }
func (t *Trailer) SetDifficulty(d byte) {
	t[offDifficulty] = d
}

func (t *Trailer) BnumUint64() uint64 { return binary.LittleEndian.Uint64(t[offBnum:]) }
func (t *Trailer) SetBnumUint64(v uint64) {
	binary.LittleEndian.PutUint64(t[offBnum:], v)
}

// EffectiveDifficulty applies the device-to-solver difficulty rule: a non-zero
// supplied diff that is strictly smaller than the trailer's own difficulty
// byte wins; otherwise the trailer's own byte is used.
func EffectiveDifficulty(supplied byte, trailer byte) byte {
	if supplied != 0 && supplied < trailer {
		return supplied
	}
	return trailer
}
