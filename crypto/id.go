package crypto

import (
	"encoding/hex"
	"errors"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidRecordID marks a record identifier that is not 32 bytes of hex.
var ErrInvalidRecordID = errors.New("crypto: invalid record id")

// RecordID is the deterministic identifier assigned to ledger records that are
// keyed by more than one field (loans, vesting schedules, savings accounts).
type RecordID [32]byte

// DeriveID hashes the supplied components into a stable record identifier.
// The same components always produce the same ID, so a second record for the
// same key tuple is detectable without any separate index.
func DeriveID(parts ...[]byte) RecordID {
	var id RecordID
	copy(id[:], ethcrypto.Keccak256(parts...))
	return id
}

// ParseRecordID decodes a 0x-prefixed (or bare) hex identifier.
func ParseRecordID(s string) (RecordID, error) {
	var id RecordID
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil || len(raw) != len(id) {
		return RecordID{}, ErrInvalidRecordID
	}
	copy(id[:], raw)
	return id, nil
}

// Hex renders the identifier as 0x-prefixed hex.
func (id RecordID) Hex() string {
	const digits = "0123456789abcdef"
	out := make([]byte, 2+len(id)*2)
	out[0], out[1] = '0', 'x'
	for i, b := range id {
		out[2+i*2] = digits[b>>4]
		out[3+i*2] = digits[b&0x0f]
	}
	return string(out)
}
