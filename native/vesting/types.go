// Package vesting manages token-issuing companies and the linear vesting
// grants they allocate to beneficiaries.
package vesting

import (
	"fmt"

	"bankvest/crypto"
)

// Type labels the vesting curve recorded on a schedule. The claimable-amount
// formula is currently identical across all types; the label is retained for
// reporting and future differentiation.
type Type uint8

const (
	TypeLinear Type = iota
	TypeCliff
	TypeMilestone
	TypePerformance
	TypeHybrid
)

// Valid reports whether the vesting type is a known curve.
func (t Type) Valid() bool {
	return t <= TypeHybrid
}

// String renders the vesting type for events and logs.
func (t Type) String() string {
	switch t {
	case TypeLinear:
		return "Linear"
	case TypeCliff:
		return "Cliff"
	case TypeMilestone:
		return "Milestone"
	case TypePerformance:
		return "Performance"
	case TypeHybrid:
		return "Hybrid"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// MaxCompanyNameLength bounds the company name accepted at registration.
const MaxCompanyNameLength = 32

// MaxSymbolLength bounds the company ticker symbol.
const MaxSymbolLength = 8

// Company is a registered token issuer whose supply backs vesting grants.
type Company struct {
	ID                    crypto.RecordID
	Authority             crypto.Address
	Name                  string
	Symbol                string
	Asset                 crypto.Address
	TotalSupply           uint64
	AllocatedSupply       uint64
	EmployeesCount        uint64
	VestingSchedulesCount uint64
	CreatedAt             int64
}

// Clone returns a deep copy of the company record.
func (c *Company) Clone() *Company {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// Unallocated returns the supply still available for new grants.
func (c *Company) Unallocated() uint64 {
	if c.AllocatedSupply > c.TotalSupply {
		return 0
	}
	return c.TotalSupply - c.AllocatedSupply
}

// Schedule is one vesting grant from a company to a beneficiary.
type Schedule struct {
	ID              crypto.RecordID
	Company         crypto.RecordID
	Beneficiary     crypto.Address
	Asset           crypto.Address
	TotalAmount     uint64
	ClaimedAmount   uint64
	StartTime       int64
	CliffDuration   int64
	VestingDuration int64
	VestingType     Type
	Revoked         bool
	CreatedAt       int64
	LastClaimed     int64
}

// Clone returns a deep copy of the schedule.
func (s *Schedule) Clone() *Schedule {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}
