package events

import (
	"bankvest/core/types"
	"bankvest/crypto"
)

const (
	// TypeLoanRequested is emitted when a borrower opens a loan request and
	// the collateral is escrowed.
	TypeLoanRequested = "lending.requested"
	// TypeLoanApproved is emitted when the platform admin activates a loan.
	TypeLoanApproved = "lending.approved"
	// TypeLoanRepaid is emitted for every repayment, partial or final.
	TypeLoanRepaid = "lending.repaid"
	// TypePositionLiquidated is emitted when an unhealthy loan is liquidated.
	TypePositionLiquidated = "lending.liquidated"
)

// LoanRequested captures the creation of a pending loan request.
type LoanRequested struct {
	Loan       crypto.RecordID
	Borrower   crypto.Address
	Amount     uint64
	Collateral uint64
	Duration   int64
	RateBps    uint64
	Timestamp  int64
}

// EventType satisfies the events.Event interface.
func (LoanRequested) EventType() string { return TypeLoanRequested }

// Event converts the structured payload into a broadcastable event.
func (e LoanRequested) Event() *types.Event {
	return &types.Event{
		Type: TypeLoanRequested,
		Attributes: map[string]string{
			"loan":       e.Loan.Hex(),
			"borrower":   e.Borrower.String(),
			"amount":     formatAmount(e.Amount),
			"collateral": formatAmount(e.Collateral),
			"duration":   formatTimestamp(e.Duration),
			"rate":       formatBps(e.RateBps),
			"timestamp":  formatTimestamp(e.Timestamp),
		},
	}
}

// LoanApproved captures the Pending to Active transition.
type LoanApproved struct {
	Loan      crypto.RecordID
	Borrower  crypto.Address
	Amount    uint64
	RateBps   uint64
	Timestamp int64
}

// EventType satisfies the events.Event interface.
func (LoanApproved) EventType() string { return TypeLoanApproved }

// Event converts the structured payload into a broadcastable event.
func (e LoanApproved) Event() *types.Event {
	return &types.Event{
		Type: TypeLoanApproved,
		Attributes: map[string]string{
			"loan":      e.Loan.Hex(),
			"borrower":  e.Borrower.String(),
			"amount":    formatAmount(e.Amount),
			"rate":      formatBps(e.RateBps),
			"timestamp": formatTimestamp(e.Timestamp),
		},
	}
}

// LoanRepaid captures a repayment and the debt remaining afterwards.
type LoanRepaid struct {
	Loan      crypto.RecordID
	Borrower  crypto.Address
	Amount    uint64
	Remaining uint64
	Repaid    bool
	Timestamp int64
}

// EventType satisfies the events.Event interface.
func (LoanRepaid) EventType() string { return TypeLoanRepaid }

// Event converts the structured payload into a broadcastable event.
func (e LoanRepaid) Event() *types.Event {
	attrs := map[string]string{
		"loan":      e.Loan.Hex(),
		"borrower":  e.Borrower.String(),
		"amount":    formatAmount(e.Amount),
		"remaining": formatAmount(e.Remaining),
		"timestamp": formatTimestamp(e.Timestamp),
	}
	if e.Repaid {
		attrs["status"] = "repaid"
	}
	return &types.Event{Type: TypeLoanRepaid, Attributes: attrs}
}

// PositionLiquidated captures a liquidation and the collateral seized.
type PositionLiquidated struct {
	Loan             crypto.RecordID
	Borrower         crypto.Address
	Liquidator       crypto.Address
	CollateralSeized uint64
	HealthBps        uint64
	Timestamp        int64
}

// EventType satisfies the events.Event interface.
func (PositionLiquidated) EventType() string { return TypePositionLiquidated }

// Event converts the structured payload into a broadcastable event.
func (e PositionLiquidated) Event() *types.Event {
	return &types.Event{
		Type: TypePositionLiquidated,
		Attributes: map[string]string{
			"loan":             e.Loan.Hex(),
			"borrower":         e.Borrower.String(),
			"liquidator":       e.Liquidator.String(),
			"collateralSeized": formatAmount(e.CollateralSeized),
			"health":           formatBps(e.HealthBps),
			"timestamp":        formatTimestamp(e.Timestamp),
		},
	}
}
