package events

import (
	"bankvest/core/types"
	"bankvest/crypto"
)

const (
	// TypeCompanyCreated is emitted when an issuer registers a company.
	TypeCompanyCreated = "vesting.company.created"
	// TypeScheduleCreated is emitted when a vesting grant is registered.
	TypeScheduleCreated = "vesting.schedule.created"
	// TypeTokensClaimed is emitted for every successful vested-token claim.
	TypeTokensClaimed = "vesting.claimed"
	// TypeScheduleRevoked is emitted when an authority revokes a grant.
	TypeScheduleRevoked = "vesting.schedule.revoked"
)

// CompanyCreated captures the registration of a token-issuing company.
type CompanyCreated struct {
	Company     crypto.RecordID
	Authority   crypto.Address
	Name        string
	Asset       crypto.Address
	TotalSupply uint64
	Timestamp   int64
}

// EventType satisfies the events.Event interface.
func (CompanyCreated) EventType() string { return TypeCompanyCreated }

// Event converts the structured payload into a broadcastable event.
func (e CompanyCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeCompanyCreated,
		Attributes: map[string]string{
			"company":     e.Company.Hex(),
			"authority":   e.Authority.String(),
			"name":        e.Name,
			"asset":       e.Asset.Hex(),
			"totalSupply": formatAmount(e.TotalSupply),
			"timestamp":   formatTimestamp(e.Timestamp),
		},
	}
}

// ScheduleCreated captures the key metadata of a newly granted schedule.
type ScheduleCreated struct {
	Schedule    crypto.RecordID
	Company     crypto.RecordID
	Beneficiary crypto.Address
	TotalAmount uint64
	VestingType string
	Timestamp   int64
}

// EventType satisfies the events.Event interface.
func (ScheduleCreated) EventType() string { return TypeScheduleCreated }

// Event converts the structured payload into a broadcastable event.
func (e ScheduleCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeScheduleCreated,
		Attributes: map[string]string{
			"schedule":    e.Schedule.Hex(),
			"company":     e.Company.Hex(),
			"beneficiary": e.Beneficiary.String(),
			"totalAmount": formatAmount(e.TotalAmount),
			"vestingType": e.VestingType,
			"timestamp":   formatTimestamp(e.Timestamp),
		},
	}
}

// TokensClaimed captures a vested-token claim and the running claimed total.
type TokensClaimed struct {
	Schedule     crypto.RecordID
	Beneficiary  crypto.Address
	Amount       uint64
	TotalClaimed uint64
	Timestamp    int64
}

// EventType satisfies the events.Event interface.
func (TokensClaimed) EventType() string { return TypeTokensClaimed }

// Event converts the structured payload into a broadcastable event.
func (e TokensClaimed) Event() *types.Event {
	return &types.Event{
		Type: TypeTokensClaimed,
		Attributes: map[string]string{
			"schedule":     e.Schedule.Hex(),
			"beneficiary":  e.Beneficiary.String(),
			"amount":       formatAmount(e.Amount),
			"totalClaimed": formatAmount(e.TotalClaimed),
			"timestamp":    formatTimestamp(e.Timestamp),
		},
	}
}

// ScheduleRevoked captures the revocation of a vesting grant.
type ScheduleRevoked struct {
	Schedule  crypto.RecordID
	Authority crypto.Address
	Timestamp int64
}

// EventType satisfies the events.Event interface.
func (ScheduleRevoked) EventType() string { return TypeScheduleRevoked }

// Event converts the structured payload into a broadcastable event.
func (e ScheduleRevoked) Event() *types.Event {
	return &types.Event{
		Type: TypeScheduleRevoked,
		Attributes: map[string]string{
			"schedule":  e.Schedule.Hex(),
			"authority": e.Authority.String(),
			"timestamp": formatTimestamp(e.Timestamp),
		},
	}
}
