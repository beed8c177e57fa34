package events

import (
	"bankvest/core/types"
	"bankvest/crypto"
)

const (
	// TypeSavingsAccountCreated is emitted when a savings account is opened.
	TypeSavingsAccountCreated = "savings.created"
	// TypeSavingsDeposited is emitted on a deposit into savings.
	TypeSavingsDeposited = "savings.deposited"
	// TypeSavingsWithdrawn is emitted on a withdrawal from savings.
	TypeSavingsWithdrawn = "savings.withdrawn"
	// TypeInterestCompounded is emitted when a compounding period settles.
	TypeInterestCompounded = "savings.compounded"
	// TypeSavingsLocked is emitted when an account enters a lock period.
	TypeSavingsLocked = "savings.locked"
)

// SavingsAccountCreated captures the opening of a savings account.
type SavingsAccountCreated struct {
	Account   crypto.RecordID
	Owner     crypto.Address
	APYBps    uint64
	Timestamp int64
}

// EventType satisfies the events.Event interface.
func (SavingsAccountCreated) EventType() string { return TypeSavingsAccountCreated }

// Event converts the structured payload into a broadcastable event.
func (e SavingsAccountCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeSavingsAccountCreated,
		Attributes: map[string]string{
			"account":   e.Account.Hex(),
			"owner":     e.Owner.String(),
			"apy":       formatBps(e.APYBps),
			"timestamp": formatTimestamp(e.Timestamp),
		},
	}
}

// SavingsDeposited captures a deposit into a savings account.
type SavingsDeposited struct {
	Account    crypto.RecordID
	Owner      crypto.Address
	Amount     uint64
	NewBalance uint64
	Timestamp  int64
}

// EventType satisfies the events.Event interface.
func (SavingsDeposited) EventType() string { return TypeSavingsDeposited }

// Event converts the structured payload into a broadcastable event.
func (e SavingsDeposited) Event() *types.Event {
	return &types.Event{
		Type: TypeSavingsDeposited,
		Attributes: map[string]string{
			"account":    e.Account.Hex(),
			"owner":      e.Owner.String(),
			"amount":     formatAmount(e.Amount),
			"newBalance": formatAmount(e.NewBalance),
			"timestamp":  formatTimestamp(e.Timestamp),
		},
	}
}

// SavingsWithdrawn captures a withdrawal from a savings account.
type SavingsWithdrawn struct {
	Account    crypto.RecordID
	Owner      crypto.Address
	Amount     uint64
	NewBalance uint64
	Timestamp  int64
}

// EventType satisfies the events.Event interface.
func (SavingsWithdrawn) EventType() string { return TypeSavingsWithdrawn }

// Event converts the structured payload into a broadcastable event.
func (e SavingsWithdrawn) Event() *types.Event {
	return &types.Event{
		Type: TypeSavingsWithdrawn,
		Attributes: map[string]string{
			"account":    e.Account.Hex(),
			"owner":      e.Owner.String(),
			"amount":     formatAmount(e.Amount),
			"newBalance": formatAmount(e.NewBalance),
			"timestamp":  formatTimestamp(e.Timestamp),
		},
	}
}

// InterestCompounded captures one settled compounding period.
type InterestCompounded struct {
	Account        crypto.RecordID
	Owner          crypto.Address
	InterestEarned uint64
	NewBalance     uint64
	Timestamp      int64
}

// EventType satisfies the events.Event interface.
func (InterestCompounded) EventType() string { return TypeInterestCompounded }

// Event converts the structured payload into a broadcastable event.
func (e InterestCompounded) Event() *types.Event {
	return &types.Event{
		Type: TypeInterestCompounded,
		Attributes: map[string]string{
			"account":        e.Account.Hex(),
			"owner":          e.Owner.String(),
			"interestEarned": formatAmount(e.InterestEarned),
			"newBalance":     formatAmount(e.NewBalance),
			"timestamp":      formatTimestamp(e.Timestamp),
		},
	}
}

// SavingsLocked captures the start of a withdrawal lock.
type SavingsLocked struct {
	Account    crypto.RecordID
	Owner      crypto.Address
	UnlockTime int64
	Timestamp  int64
}

// EventType satisfies the events.Event interface.
func (SavingsLocked) EventType() string { return TypeSavingsLocked }

// Event converts the structured payload into a broadcastable event.
func (e SavingsLocked) Event() *types.Event {
	return &types.Event{
		Type: TypeSavingsLocked,
		Attributes: map[string]string{
			"account":    e.Account.Hex(),
			"owner":      e.Owner.String(),
			"unlockTime": formatTimestamp(e.UnlockTime),
			"timestamp":  formatTimestamp(e.Timestamp),
		},
	}
}
