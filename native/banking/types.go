// Package banking tracks custodial balances per participant: the spendable
// balance, the portion locked in staking and the interest credited so far.
// Other product engines draw on and refill these balances.
package banking

import (
	"fmt"

	"bankvest/crypto"
	"bankvest/native/accrual"
	"bankvest/native/common"
)

// AccountType tiers a custodial account.
type AccountType uint8

const (
	AccountTypeBasic AccountType = iota
	AccountTypePremium
	AccountTypeEnterprise
	AccountTypeInstitutional
)

// Valid reports whether the account type is a known tier.
func (t AccountType) Valid() bool {
	return t <= AccountTypeInstitutional
}

// String renders the tier for logs and event attributes.
func (t AccountType) String() string {
	switch t {
	case AccountTypeBasic:
		return "basic"
	case AccountTypePremium:
		return "premium"
	case AccountTypeEnterprise:
		return "enterprise"
	case AccountTypeInstitutional:
		return "institutional"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Account is the custodial ledger record for one participant.
type Account struct {
	Owner           crypto.Address
	Balance         uint64
	StakedAmount    uint64
	EarnedInterest  uint64
	LastInteraction int64
	AccountType     AccountType
	TierLevel       uint8
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// Credit adds amount to the spendable balance.
func (a *Account) Credit(amount uint64) error {
	next, err := accrual.CheckedAdd(a.Balance, amount)
	if err != nil {
		return err
	}
	a.Balance = next
	return nil
}

// Debit removes amount from the spendable balance.
func (a *Account) Debit(amount uint64) error {
	if a.Balance < amount {
		return common.ErrInsufficientBalance
	}
	a.Balance -= amount
	return nil
}

// Move debits amount from one account and credits it to another as a single
// step. On failure neither account is modified.
func Move(from, to *Account, amount uint64) error {
	if err := from.Debit(amount); err != nil {
		return err
	}
	if err := to.Credit(amount); err != nil {
		from.Balance += amount
		return err
	}
	return nil
}

// Profile aggregates a participant's product usage for quota enforcement.
type Profile struct {
	Owner                 crypto.Address
	VestingSchedulesCount uint32
	LoansCount            uint32
	SavingsAccountsCount  uint32
	TotalPortfolioValue   uint64
	RiskScore             uint8
	KYCVerified           bool
	CreatedAt             int64
	LastActivity          int64
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
