package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const AddressLength = 20

// Address is a 20-byte account identifier.
type Address [AddressLength]byte

var ZeroAddress = Address{}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) Ptr() *Address {
	return &a
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// BytesToAddress converts a byte slice to an Address, left-truncating or
// right-aligning as needed.
func BytesToAddress(b []byte) Address {
	var a Address

	size := len(b)
	min := min(size, AddressLength)

	copy(a[AddressLength-min:], b[size-min:])

	return a
}

// StringToAddress parses a hex string (with or without 0x prefix) into an
// Address. Invalid input yields the zero address.
func StringToAddress(str string) Address {
	return BytesToAddress(stringToBytes(str))
}

func stringToBytes(str string) []byte {
	str = strings.TrimPrefix(str, "0x")
	if len(str)%2 == 1 {
		str = "0" + str
	}

	b, _ := hex.DecodeString(str)

	return b
}

// ParseAddress is the strict variant of StringToAddress: the input must be a
// 0x-prefixed 40-hex-digit string.
func ParseAddress(str string) (Address, error) {
	if !strings.HasPrefix(str, "0x") {
		return ZeroAddress, fmt.Errorf("address %q does not have a 0x prefix", str)
	}

	raw, err := hex.DecodeString(str[2:])
	if err != nil {
		return ZeroAddress, fmt.Errorf("address %q is not valid hex: %w", str, err)
	}

	if len(raw) != AddressLength {
		return ZeroAddress, fmt.Errorf("address %q has %d bytes, expected %d", str, len(raw), AddressLength)
	}

	return BytesToAddress(raw), nil
}
