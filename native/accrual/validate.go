package accrual

import (
	"errors"

	"bankvest/native/common"
)

var (
	// ErrInvalidVestingParameters marks an out-of-range cliff or duration.
	ErrInvalidVestingParameters = errors.New("invalid vesting parameters")
	// ErrInvalidAPYRate marks an APY outside [MinAPYRate, MaxAPYRate].
	ErrInvalidAPYRate = errors.New("invalid apy rate")
	// ErrInsufficientCollateral marks a collateral ratio below the minimum.
	ErrInsufficientCollateral = errors.New("insufficient collateral")
)

// ValidateVestingParameters checks a schedule's cliff, duration and start
// time. Start may be backdated at most one day relative to now.
func ValidateVestingParameters(now, start, cliff, duration int64) error {
	if cliff < MinCliffDuration || cliff > MaxCliffDuration {
		return ErrInvalidVestingParameters
	}
	if duration < MinVestingDuration || duration > MaxVestingDuration {
		return ErrInvalidVestingParameters
	}
	if cliff > duration {
		return ErrInvalidVestingParameters
	}
	if start < now-SecondsPerDay {
		return common.ErrInvalidTimestamp
	}
	return nil
}

// ValidateAPYRate checks a savings or staking rate against the platform
// bounds.
func ValidateAPYRate(apyBps uint16) error {
	if apyBps < MinAPYRate || apyBps > MaxAPYRate {
		return ErrInvalidAPYRate
	}
	return nil
}

// ValidateLoanParameters checks the principal minimum, the collateral ratio
// and the term bounds of a loan request. Terms run from one day to five
// years.
func ValidateLoanParameters(amount, collateral uint64, duration int64) error {
	if amount < MinLoanAmount {
		return common.ErrInvalidAmount
	}
	scaled, err := CheckedMul(collateral, BasisPoints)
	if err != nil {
		return err
	}
	ratio, err := CheckedDiv(scaled, amount)
	if err != nil {
		return err
	}
	if ratio < uint64(MinCollateralRatio) {
		return ErrInsufficientCollateral
	}
	if duration < SecondsPerDay || duration > SecondsPerYear*5 {
		return ErrInvalidVestingParameters
	}
	return nil
}
