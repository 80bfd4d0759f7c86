package types

import (
	"encoding/hex"
	"math/big"
)

const HashLength = 32

// Hash is a 32-byte word, used both for keccak digests and raw storage slots.
type Hash [HashLength]byte

var ZeroHash = Hash{}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Big interprets the hash as a big-endian unsigned integer.
func (h Hash) Big() *big.Int {
	return new(big.Int).SetBytes(h[:])
}

func BytesToHash(b []byte) Hash {
	var h Hash

	size := len(b)
	min := min(size, HashLength)

	copy(h[HashLength-min:], b[size-min:])

	return h
}

func StringToHash(str string) Hash {
	return BytesToHash(stringToBytes(str))
}

// BigToHash encodes a big integer as a left-padded 32-byte word. Values wider
// than 256 bits are truncated to their low-order bytes.
func BigToHash(v *big.Int) Hash {
	if v == nil {
		return ZeroHash
	}

	return BytesToHash(v.Bytes())
}
