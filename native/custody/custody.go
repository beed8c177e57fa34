// Package custody abstracts the movement of actual token value between the
// platform's holding accounts. Product engines settle the custody transfer
// after all validation and before persisting their updated records, so a
// custody failure leaves no ledger mutation behind.
package custody

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"bankvest/crypto"
)

// Account names a value-holding bucket managed by the platform.
type Account string

const (
	// Treasury collects platform fees.
	Treasury Account = "treasury"
	// BankVault holds custodial banking balances.
	BankVault Account = "bank-vault"
	// LoanEscrow holds collateral for open loans.
	LoanEscrow Account = "loan-escrow"
	// CompanyPool holds token supply reserved for vesting grants.
	CompanyPool Account = "company-pool"
	// PoolVault holds staked principal.
	PoolVault Account = "pool-vault"
	// SavingsVault holds savings deposits.
	SavingsVault Account = "savings-vault"
)

// UserWallet names the external wallet bucket of a participant.
func UserWallet(addr crypto.Address) Account {
	return Account("wallet/" + addr.String())
}

// ErrUnknownAccount marks a bucket name that is not one of the platform's
// holding accounts.
var ErrUnknownAccount = errors.New("custody: unknown account")

// ParseAccount resolves a bucket name from configuration or an RPC request.
// Wallet buckets are not addressable this way: they are unbounded sources and
// never need funding.
func ParseAccount(name string) (Account, error) {
	switch Account(name) {
	case Treasury, BankVault, LoanEscrow, CompanyPool, PoolVault, SavingsVault:
		return Account(name), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAccount, name)
}

var (
	// ErrInsufficientFunds marks a transfer exceeding the source bucket.
	ErrInsufficientFunds = errors.New("custody: insufficient funds")
	// ErrTransferOverflow marks a credit that would wrap the destination.
	ErrTransferOverflow = errors.New("custody: transfer overflow")
)

// Service moves token value between custody accounts.
type Service interface {
	// MoveExact transfers amount from one account to the other, all or
	// nothing.
	MoveExact(from, to Account, amount uint64) error
	// BalanceOf reports the current holdings of an account.
	BalanceOf(account Account) uint64
}

// Memory is an in-process custody ledger. External wallets are treated as
// unbounded sources so deposits from users always succeed; platform buckets
// are strictly conserved.
type Memory struct {
	mu       sync.Mutex
	balances map[Account]uint64
}

// NewMemory returns an empty in-process custody ledger.
func NewMemory() *Memory {
	return &Memory{balances: make(map[Account]uint64)}
}

// Fund credits an account directly. This is how token value enters the
// platform: operators seed the treasury and product vaults at bootstrap or
// through the admin RPC surface.
func (m *Memory) Fund(account Account, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[account] += amount
}

// MoveExact implements Service.
func (m *Memory) MoveExact(from, to Account, amount uint64) error {
	if amount == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if !isWallet(from) {
		if m.balances[from] < amount {
			return fmt.Errorf("%w: %s has %d, need %d", ErrInsufficientFunds, from, m.balances[from], amount)
		}
	}
	if m.balances[to] > math.MaxUint64-amount {
		return ErrTransferOverflow
	}
	if !isWallet(from) {
		m.balances[from] -= amount
	}
	m.balances[to] += amount
	return nil
}

// BalanceOf implements Service.
func (m *Memory) BalanceOf(account Account) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[account]
}

func isWallet(a Account) bool {
	return len(a) > 7 && a[:7] == "wallet/"
}
