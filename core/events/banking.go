package events

import (
	"bankvest/core/types"
	"bankvest/crypto"
)

const (
	// TypeFundsDeposited is emitted when a banking account is credited from
	// the owner's external wallet.
	TypeFundsDeposited = "banking.deposited"
	// TypeFundsWithdrawn is emitted when a banking account pays out to the
	// owner's external wallet.
	TypeFundsWithdrawn = "banking.withdrawn"
	// TypeFundsTransferred is emitted when balance moves between two
	// banking accounts inside the bank vault.
	TypeFundsTransferred = "banking.transferred"
)

// FundsDeposited captures a successful deposit into a banking account.
type FundsDeposited struct {
	Owner      crypto.Address
	Asset      crypto.Address
	Amount     uint64
	NewBalance uint64
	Timestamp  int64
}

// EventType satisfies the events.Event interface.
func (FundsDeposited) EventType() string { return TypeFundsDeposited }

// Event converts the structured payload into a broadcastable event.
func (e FundsDeposited) Event() *types.Event {
	return &types.Event{
		Type: TypeFundsDeposited,
		Attributes: map[string]string{
			"owner":      e.Owner.String(),
			"asset":      e.Asset.Hex(),
			"amount":     formatAmount(e.Amount),
			"newBalance": formatAmount(e.NewBalance),
			"timestamp":  formatTimestamp(e.Timestamp),
		},
	}
}

// FundsTransferred captures an internal move between two banking accounts.
type FundsTransferred struct {
	From      crypto.Address
	To        crypto.Address
	Asset     crypto.Address
	Amount    uint64
	Timestamp int64
}

// EventType satisfies the events.Event interface.
func (FundsTransferred) EventType() string { return TypeFundsTransferred }

// Event converts the structured payload into a broadcastable event.
func (e FundsTransferred) Event() *types.Event {
	return &types.Event{
		Type: TypeFundsTransferred,
		Attributes: map[string]string{
			"from":      e.From.String(),
			"to":        e.To.String(),
			"asset":     e.Asset.Hex(),
			"amount":    formatAmount(e.Amount),
			"timestamp": formatTimestamp(e.Timestamp),
		},
	}
}

// FundsWithdrawn captures a successful withdrawal from a banking account.
type FundsWithdrawn struct {
	Owner      crypto.Address
	Asset      crypto.Address
	Amount     uint64
	NewBalance uint64
	Timestamp  int64
}

// EventType satisfies the events.Event interface.
func (FundsWithdrawn) EventType() string { return TypeFundsWithdrawn }

// Event converts the structured payload into a broadcastable event.
func (e FundsWithdrawn) Event() *types.Event {
	return &types.Event{
		Type: TypeFundsWithdrawn,
		Attributes: map[string]string{
			"owner":      e.Owner.String(),
			"asset":      e.Asset.Hex(),
			"amount":     formatAmount(e.Amount),
			"newBalance": formatAmount(e.NewBalance),
			"timestamp":  formatTimestamp(e.Timestamp),
		},
	}
}
