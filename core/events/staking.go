package events

import (
	"bankvest/core/types"
	"bankvest/crypto"
)

const (
	// TypeTokensStaked is emitted when funds enter a staking pool.
	TypeTokensStaked = "staking.staked"
	// TypeTokensUnstaked is emitted when a participant exits a staking pool,
	// including any rewards paid out alongside the principal.
	TypeTokensUnstaked = "staking.unstaked"
)

// TokensStaked captures a stake into an asset pool.
type TokensStaked struct {
	User        crypto.Address
	Asset       crypto.Address
	Amount      uint64
	TotalStaked uint64
	Timestamp   int64
}

// EventType satisfies the events.Event interface.
func (TokensStaked) EventType() string { return TypeTokensStaked }

// Event converts the structured payload into a broadcastable event.
func (e TokensStaked) Event() *types.Event {
	return &types.Event{
		Type: TypeTokensStaked,
		Attributes: map[string]string{
			"user":        e.User.String(),
			"asset":       e.Asset.Hex(),
			"amount":      formatAmount(e.Amount),
			"totalStaked": formatAmount(e.TotalStaked),
			"timestamp":   formatTimestamp(e.Timestamp),
		},
	}
}

// TokensUnstaked captures an unstake together with the rewards accrued on the
// withdrawn principal.
type TokensUnstaked struct {
	User      crypto.Address
	Asset     crypto.Address
	Amount    uint64
	Rewards   uint64
	Timestamp int64
}

// EventType satisfies the events.Event interface.
func (TokensUnstaked) EventType() string { return TypeTokensUnstaked }

// Event converts the structured payload into a broadcastable event.
func (e TokensUnstaked) Event() *types.Event {
	return &types.Event{
		Type: TypeTokensUnstaked,
		Attributes: map[string]string{
			"user":      e.User.String(),
			"asset":     e.Asset.Hex(),
			"amount":    formatAmount(e.Amount),
			"rewards":   formatAmount(e.Rewards),
			"timestamp": formatTimestamp(e.Timestamp),
		},
	}
}
