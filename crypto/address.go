package crypto

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
)

// AddressPrefix is the human-readable part used when rendering addresses.
const AddressPrefix = "bv"

// AddressLength is the fixed byte length of every participant identity.
const AddressLength = 20

// Address identifies a participant, asset issuer or holding authority on the
// platform. Identities arrive already verified by the host environment; the
// ledger only ever compares them for equality.
type Address [AddressLength]byte

// ZeroAddress is the unset identity. Accounts keyed by it are never created.
var ZeroAddress Address

// NewAddress builds an address from a raw 20-byte slice.
func NewAddress(b []byte) (Address, error) {
	var addr Address
	if len(b) != AddressLength {
		return addr, fmt.Errorf("address must be %d bytes, got %d", AddressLength, len(b))
	}
	copy(addr[:], b)
	return addr, nil
}

// MustNewAddress is NewAddress for statically known inputs; it panics on a
// malformed slice.
func MustNewAddress(b []byte) Address {
	addr, err := NewAddress(b)
	if err != nil {
		panic(err)
	}
	return addr
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// IsZero reports whether the address is the unset identity.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// String renders the address in bech32 with the platform prefix.
func (a Address) String() string {
	conv, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(AddressPrefix, conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// DecodeAddress parses a bech32 address string produced by String.
func DecodeAddress(addrStr string) (Address, error) {
	prefix, decoded, err := bech32.Decode(addrStr)
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 string: %w", err)
	}
	if prefix != AddressPrefix {
		return Address{}, fmt.Errorf("unexpected address prefix %q", prefix)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("error converting bits: %w", err)
	}
	return NewAddress(conv)
}

// Hex renders the address as 0x-prefixed hex, used in event attributes where
// bech32 would be needlessly long.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Equal reports byte equality with another address.
func (a Address) Equal(other Address) bool {
	return bytes.Equal(a[:], other[:])
}
