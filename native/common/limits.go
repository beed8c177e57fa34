package common

import (
	"errors"
	"math"
)

var (
	// ErrLimitExceeded marks an increment that would push a per-user
	// counter past its configured cap.
	ErrLimitExceeded = errors.New("account limit exceeded")
	// ErrLimitCounterOverflow marks an increment that would wrap the
	// counter itself.
	ErrLimitCounterOverflow = errors.New("account limit counter overflow")
)

// AccountLimits caps how many records of each product a single user may hold.
// A zero cap disables the check for that product.
type AccountLimits struct {
	MaxVestingSchedules uint32
	MaxActiveLoans      uint32
	MaxSavingsAccounts  uint32
}

// CheckLimit verifies that incrementing count by add stays within cap. It
// returns the updated counter when the limit holds.
func CheckLimit(cap uint32, count uint32, add uint32) (uint32, error) {
	if add == 0 {
		return count, nil
	}
	if count > math.MaxUint32-add {
		return count, ErrLimitCounterOverflow
	}
	next := count + add
	if cap > 0 && next > cap {
		return count, ErrLimitExceeded
	}
	return next, nil
}
