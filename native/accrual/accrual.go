package accrual

// VestedAmount computes how much of a grant has vested linearly at now.
// Before the start or inside the cliff nothing vests; past the full duration
// the whole grant vests.
func VestedAmount(total uint64, start, cliff, duration, now int64) (uint64, error) {
	if now < start {
		return 0, nil
	}
	elapsed := now - start
	if elapsed < cliff {
		return 0, nil
	}
	if elapsed >= duration {
		return total, nil
	}
	scaled, err := CheckedMul(total, uint64(elapsed))
	if err != nil {
		return 0, err
	}
	return CheckedDiv(scaled, uint64(duration))
}

// CompoundInterest computes discrete compound interest earned on principal
// over elapsed seconds at apyBps, compounding frequency times per year. Only
// whole elapsed years contribute periods; the per-period rate is an integer
// basis-point quotient, so sub-year windows and fine-grained rates floor to
// zero by construction.
func CompoundInterest(principal uint64, apyBps uint16, elapsed int64, frequency uint8) (uint64, error) {
	if elapsed <= 0 {
		return 0, nil
	}
	periodsPerYear := uint64(frequency)
	yearsElapsed := uint64(elapsed) / uint64(SecondsPerYear)

	ratePerPeriod, err := CheckedDiv(uint64(apyBps), BasisPoints*periodsPerYear)
	if err != nil {
		return 0, err
	}
	totalPeriods := yearsElapsed * periodsPerYear

	factor, err := CheckedPow(BasisPoints+ratePerPeriod, uint32(totalPeriods))
	if err != nil {
		return 0, err
	}
	denom, err := CheckedPow(BasisPoints, uint32(totalPeriods))
	if err != nil {
		return 0, err
	}
	scaled, err := CheckedMul(principal, factor)
	if err != nil {
		return 0, err
	}
	final, err := CheckedDiv(scaled, denom)
	if err != nil {
		return 0, err
	}
	return final - principal, nil
}

// LoanInterest computes simple interest on principal at rateBps over elapsed
// seconds. The time fraction truncates to whole years, so a loan younger than
// a year accrues no interest yet. Negative elapsed counts as zero.
func LoanInterest(principal uint64, rateBps uint16, elapsed int64) (uint64, error) {
	if elapsed < 0 {
		elapsed = 0
	}
	years := uint64(elapsed) / uint64(SecondsPerYear)
	scaled, err := CheckedMul(principal, uint64(rateBps))
	if err != nil {
		return 0, err
	}
	scaled, err = CheckedMul(scaled, years)
	if err != nil {
		return 0, err
	}
	return CheckedDiv(scaled, BasisPoints)
}

// StakingRewards computes simple rewards on a staked amount at apyBps over
// elapsed seconds, truncating to whole years like LoanInterest.
func StakingRewards(staked uint64, apyBps uint16, elapsed int64) (uint64, error) {
	return LoanInterest(staked, apyBps, elapsed)
}

// HealthRatio returns the collateralization of a position in basis points.
// A zero debt is fully healthy (10000). A position is liquidatable when the
// ratio falls below its liquidation threshold.
func HealthRatio(collateral, debt uint64) (uint64, error) {
	if debt == 0 {
		return BasisPoints, nil
	}
	scaled, err := CheckedMul(collateral, BasisPoints)
	if err != nil {
		return 0, err
	}
	return CheckedDiv(scaled, debt)
}

// Fee computes a basis-point fee on amount.
func Fee(amount uint64, feeBps uint16) (uint64, error) {
	scaled, err := CheckedMul(amount, uint64(feeBps))
	if err != nil {
		return 0, err
	}
	return CheckedDiv(scaled, BasisPoints)
}

// RiskAdjustedRate prices a loan from its loan-to-value ratio: the minimum
// rate plus one basis point per 100 bps of LTV above 50%, capped at the
// maximum rate.
func RiskAdjustedRate(amount, collateral uint64) (uint16, error) {
	scaled, err := CheckedMul(amount, BasisPoints)
	if err != nil {
		return 0, err
	}
	ltv, err := CheckedDiv(scaled, collateral)
	if err != nil {
		return 0, err
	}
	premium := uint64(0)
	if ltv > 5000 {
		premium = (ltv - 5000) / 100
	}
	rate := uint64(MinInterestRate) + premium
	if rate > uint64(MaxInterestRate) {
		rate = uint64(MaxInterestRate)
	}
	return uint16(rate), nil
}
