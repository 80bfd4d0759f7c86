package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/MussinaLin/protocolink-go/types"
)

// Keccak256 computes the legacy Keccak-256 digest of the concatenated inputs.
func Keccak256(v ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()

	for _, i := range v {
		h.Write(i)
	}

	return h.Sum(nil)
}

// Keccak256Hash is Keccak256 returning a types.Hash.
func Keccak256Hash(v ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(v...))
}

// Selector returns the 4-byte function selector for a canonical signature
// such as "transfer(address,uint256)".
func Selector(signature string) [4]byte {
	var sel [4]byte

	copy(sel[:], Keccak256([]byte(signature))[:4])

	return sel
}

// MappingSlotKey returns the storage key of mapping[addr] for a mapping
// rooted at the given slot: keccak256(pad32(addr) || pad32(slot)).
func MappingSlotKey(addr types.Address, slot uint64) types.Hash {
	var buf [64]byte

	copy(buf[12:32], addr[:])

	s := U256Slot(slot)
	copy(buf[32:], s[:])

	return Keccak256Hash(buf[:])
}

// NestedMappingSlotKey returns the storage key of mapping[a][b] rooted at the
// given slot.
func NestedMappingSlotKey(a, b types.Address, slot uint64) types.Hash {
	outer := MappingSlotKey(a, slot)

	var buf [64]byte

	copy(buf[12:32], b[:])
	copy(buf[32:], outer[:])

	return Keccak256Hash(buf[:])
}

// U256Slot encodes a slot number as a big-endian uint256 word.
func U256Slot(n uint64) types.Hash {
	var b [32]byte

	b[24] = byte(n >> 56)
	b[25] = byte(n >> 48)
	b[26] = byte(n >> 40)
	b[27] = byte(n >> 32)
	b[28] = byte(n >> 24)
	b[29] = byte(n >> 16)
	b[30] = byte(n >> 8)
	b[31] = byte(n)

	return types.BytesToHash(b[:])
}
