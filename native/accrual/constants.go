// Package accrual holds the shared fixed-point interest, vesting and health
// formulas together with the parameter validators the product engines rely
// on. All amounts are uint64 in the smallest token unit (6 decimals), rates
// are basis points, and times are unix seconds.
package accrual

const (
	// BasisPoints is the fixed-point denominator for all rates.
	BasisPoints uint64 = 10_000

	SecondsPerDay  int64 = 86_400
	SecondsPerYear int64 = 31_536_000

	// MinVestingDuration is one day; MaxVestingDuration is four years.
	MinVestingDuration int64 = 86_400
	MaxVestingDuration int64 = 126_144_000
	MinCliffDuration   int64 = 0
	MaxCliffDuration   int64 = 31_536_000

	// Smallest-unit product minimums (1, 10 and 1 whole tokens).
	MinStakeAmount    uint64 = 1_000_000
	MinLoanAmount     uint64 = 10_000_000
	MinSavingsDeposit uint64 = 1_000_000

	MinAPYRate uint16 = 100  // 1%
	MaxAPYRate uint16 = 2000 // 20%

	MinInterestRate uint16 = 500  // 5%
	MaxInterestRate uint16 = 3000 // 30%

	LiquidationThreshold uint16 = 8000  // 80%
	MaxLoanToValue       uint16 = 7500  // 75%
	MinCollateralRatio   uint16 = 12500 // 125%

	PlatformFeeBps        uint16 = 25 // 0.25%
	StakingFeeBps         uint16 = 10 // 0.1%
	LoanOriginationFeeBps uint16 = 50 // 0.5%

	MaxVestingSchedulesPerUser uint32 = 10
	MaxLoansPerUser            uint32 = 5
	MaxSavingsAccountsPerUser  uint32 = 3
)
