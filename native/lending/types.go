// Package lending runs the collateralized loan lifecycle: a borrower escrows
// collateral to open a request, the platform admin activates it, and the loan
// closes through repayment or liquidation.
package lending

import (
	"fmt"

	"bankvest/crypto"
	"bankvest/native/accrual"
)

// Status is the lifecycle position of a loan.
type Status uint8

const (
	StatusPending Status = iota
	StatusApproved
	StatusActive
	StatusDefaulted
	StatusRepaid
	StatusLiquidated
)

// Valid reports whether the status is a known lifecycle position.
func (s Status) Valid() bool {
	return s <= StatusLiquidated
}

// Open reports whether the loan still holds escrowed collateral.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusApproved || s == StatusActive
}

// String renders the status for events and logs.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusActive:
		return "active"
	case StatusDefaulted:
		return "defaulted"
	case StatusRepaid:
		return "repaid"
	case StatusLiquidated:
		return "liquidated"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Loan is one collateralized borrowing position.
type Loan struct {
	ID                   crypto.RecordID
	Borrower             crypto.Address
	Asset                crypto.Address
	Amount               uint64
	CollateralAmount     uint64
	InterestRateBps      uint16
	Duration             int64
	StartTime            int64
	Status               Status
	LiquidationThreshold uint16
	RepaidAmount         uint64
	CreatedAt            int64
}

// Clone returns a deep copy of the loan.
func (l *Loan) Clone() *Loan {
	if l == nil {
		return nil
	}
	clone := *l
	return &clone
}

// TotalDebt computes the outstanding debt at now: principal plus accrued
// interest minus everything repaid so far.
func (l *Loan) TotalDebt(now int64) (uint64, error) {
	interest, err := accrual.LoanInterest(l.Amount, l.InterestRateBps, now-l.StartTime)
	if err != nil {
		return 0, err
	}
	gross, err := accrual.CheckedAdd(l.Amount, interest)
	if err != nil {
		return 0, err
	}
	return accrual.CheckedSub(gross, l.RepaidAmount)
}
