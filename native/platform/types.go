// Package platform manages the singleton platform record: the admin
// authority, treasury routing, the emergency pause flag and the aggregate
// counters product engines report into.
package platform

import "bankvest/crypto"

// Platform is the singleton root record for the deployment.
type Platform struct {
	Admin                 crypto.Address
	Treasury              crypto.Address
	TreasuryThreshold     uint8
	TotalCompanies        uint64
	TotalVestingSchedules uint64
	TotalValueLocked      uint64
	Paused                bool
	CreatedAt             int64
}

// Clone returns a deep copy of the platform record.
func (p *Platform) Clone() *Platform {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
