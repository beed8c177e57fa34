// Package staking runs per-asset staking pools. Principal moves from the
// participant's wallet into the pool vault and the staked total is mirrored
// on the banking account, where it stays locked away from spending.
package staking

import "bankvest/crypto"

// DefaultAPYBps is the reward rate a lazily created pool starts with.
const DefaultAPYBps uint16 = 500

// DefaultLockDuration is the advisory lock recorded on a lazily created
// pool, thirty days.
const DefaultLockDuration int64 = 30 * 86_400

// Pool aggregates all stakes in one asset.
type Pool struct {
	Asset        crypto.Address
	Authority    crypto.Address
	TotalStaked  uint64
	TotalRewards uint64
	APYRateBps   uint16
	LockDuration int64
	Active       bool
	CreatedAt    int64
}

// Clone returns a deep copy of the pool.
func (p *Pool) Clone() *Pool {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
