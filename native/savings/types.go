// Package savings manages interest-bearing savings accounts with discrete
// monthly compounding and optional withdrawal locks.
package savings

import (
	"bankvest/crypto"
	"bankvest/native/accrual"
)

// DefaultCompoundFrequency is the periods-per-year every account compounds
// at, monthly.
const DefaultCompoundFrequency uint8 = 12

// Account is one interest-bearing savings position.
type Account struct {
	ID                crypto.RecordID
	Owner             crypto.Address
	Asset             crypto.Address
	Balance           uint64
	APYRateBps        uint16
	CompoundFrequency uint8
	LastCompound      int64
	TotalEarned       uint64
	Locked            bool
	UnlockTime        int64
	CreatedAt         int64
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// CompoundInterval is the minimum seconds between compounding events.
func (a *Account) CompoundInterval() int64 {
	return accrual.SecondsPerYear / int64(a.CompoundFrequency)
}

// Withdrawable reports whether the lock permits a withdrawal at now.
func (a *Account) Withdrawable(now int64) bool {
	return !a.Locked || now >= a.UnlockTime
}
