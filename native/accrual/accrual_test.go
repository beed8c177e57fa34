package accrual

import (
	"errors"
	"math"
	"testing"

	"bankvest/native/common"
)

func TestVestedAmountLinear(t *testing.T) {
	const (
		total    = uint64(10_000)
		start    = int64(1_700_000_000)
		cliff    = int64(86_400)
		duration = int64(31_536_000)
	)

	cases := []struct {
		name string
		now  int64
		want uint64
	}{
		{"before start", start - 1, 0},
		{"at start", start, 0},
		{"inside cliff", start + cliff - 1, 0},
		{"at cliff", start + cliff, uint64(10_000) * uint64(cliff) / uint64(duration)},
		{"half duration", start + duration/2, 5_000},
		{"full duration", start + duration, total},
		{"past duration", start + duration + 86_400, total},
	}
	for _, tc := range cases {
		got, err := VestedAmount(total, start, cliff, duration, tc.now)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestVestedAmountMonotonic(t *testing.T) {
	const (
		total    = uint64(1_000_000)
		start    = int64(0)
		duration = int64(31_536_000)
	)
	prev := uint64(0)
	for now := int64(0); now <= duration; now += duration / 16 {
		got, err := VestedAmount(total, start, 0, duration, now)
		if err != nil {
			t.Fatalf("now=%d: unexpected error: %v", now, err)
		}
		if got < prev {
			t.Fatalf("vested amount decreased: %d -> %d at now=%d", prev, got, now)
		}
		prev = got
	}
}

func TestVestedAmountOverflow(t *testing.T) {
	_, err := VestedAmount(math.MaxUint64, 0, 0, 31_536_000, 10)
	if !errors.Is(err, common.ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestLoanInterestTruncatesToWholeYears(t *testing.T) {
	// Sub-year elapsed accrues nothing.
	got, err := LoanInterest(10_000_000, 1000, SecondsPerYear-1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("sub-year interest should be zero, got %d", got)
	}

	// One full year at 10% on 10 tokens is 1 token.
	got, err = LoanInterest(10_000_000, 1000, SecondsPerYear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1_000_000 {
		t.Fatalf("got %d, want 1000000", got)
	}

	// Negative elapsed accrues nothing.
	got, err = LoanInterest(10_000_000, 1000, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("negative elapsed interest should be zero, got %d", got)
	}
}

func TestStakingRewardsMatchesSimpleInterest(t *testing.T) {
	rewards, err := StakingRewards(1_000_000, 500, 2*SecondsPerYear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rewards != 100_000 {
		t.Fatalf("got %d, want 100000", rewards)
	}
}

func TestCompoundInterestSubYearIsZero(t *testing.T) {
	got, err := CompoundInterest(100_000_000, 1200, SecondsPerYear-1, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("sub-year compound interest should be zero, got %d", got)
	}
}

func TestCompoundInterestWholeYearOverflows(t *testing.T) {
	// Twelve monthly periods push the fixed-point factor past uint64.
	_, err := CompoundInterest(100_000_000, 1200, SecondsPerYear, 12)
	if !errors.Is(err, common.ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestCompoundInterestNonPositiveElapsed(t *testing.T) {
	got, err := CompoundInterest(100_000_000, 1200, 0, 12)
	if err != nil || got != 0 {
		t.Fatalf("got (%d, %v), want (0, nil)", got, err)
	}
}

func TestHealthRatio(t *testing.T) {
	h, err := HealthRatio(12_000_000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != 10_000 {
		t.Fatalf("zero debt should be fully healthy, got %d", h)
	}

	h, err = HealthRatio(12_000_000, 10_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != 12_000 {
		t.Fatalf("got %d, want 12000", h)
	}

	h, err = HealthRatio(12_000_000, 16_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != 7_500 {
		t.Fatalf("got %d, want 7500", h)
	}
}

func TestHealthRatioMonotonicInDebt(t *testing.T) {
	prev := uint64(math.MaxUint64)
	for debt := uint64(1_000_000); debt <= 20_000_000; debt += 1_000_000 {
		h, err := HealthRatio(12_000_000, debt)
		if err != nil {
			t.Fatalf("debt=%d: unexpected error: %v", debt, err)
		}
		if h > prev {
			t.Fatalf("health increased with debt: %d -> %d at debt=%d", prev, h, debt)
		}
		prev = h
	}
}

func TestFee(t *testing.T) {
	fee, err := Fee(10_000_000, LoanOriginationFeeBps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee != 50_000 {
		t.Fatalf("got %d, want 50000", fee)
	}
}

func TestRiskAdjustedRate(t *testing.T) {
	// 50% LTV or below stays at the base rate.
	rate, err := RiskAdjustedRate(10_000_000, 20_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != MinInterestRate {
		t.Fatalf("got %d, want %d", rate, MinInterestRate)
	}

	// 66.66% LTV adds 16 bps of premium.
	rate, err = RiskAdjustedRate(10_000_000, 15_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != MinInterestRate+16 {
		t.Fatalf("got %d, want %d", rate, MinInterestRate+16)
	}

	if _, err := RiskAdjustedRate(10_000_000, 0); !errors.Is(err, common.ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow for zero collateral, got %v", err)
	}
}

func TestValidateVestingParameters(t *testing.T) {
	now := int64(1_700_000_000)

	if err := ValidateVestingParameters(now, now, 86_400, 31_536_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateVestingParameters(now, now, -1, 31_536_000); !errors.Is(err, ErrInvalidVestingParameters) {
		t.Fatalf("expected ErrInvalidVestingParameters, got %v", err)
	}
	if err := ValidateVestingParameters(now, now, 0, MaxVestingDuration+1); !errors.Is(err, ErrInvalidVestingParameters) {
		t.Fatalf("expected ErrInvalidVestingParameters, got %v", err)
	}
	if err := ValidateVestingParameters(now, now, 200_000, 100_000); !errors.Is(err, ErrInvalidVestingParameters) {
		t.Fatalf("expected ErrInvalidVestingParameters for cliff > duration, got %v", err)
	}
	if err := ValidateVestingParameters(now, now-SecondsPerDay-1, 0, 31_536_000); !errors.Is(err, common.ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}
	// Backdating up to one day is allowed.
	if err := ValidateVestingParameters(now, now-SecondsPerDay, 0, 31_536_000); err != nil {
		t.Fatalf("unexpected error for one-day backdate: %v", err)
	}
}

func TestValidateAPYRate(t *testing.T) {
	if err := ValidateAPYRate(MinAPYRate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateAPYRate(MaxAPYRate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateAPYRate(MinAPYRate - 1); !errors.Is(err, ErrInvalidAPYRate) {
		t.Fatalf("expected ErrInvalidAPYRate, got %v", err)
	}
	if err := ValidateAPYRate(MaxAPYRate + 1); !errors.Is(err, ErrInvalidAPYRate) {
		t.Fatalf("expected ErrInvalidAPYRate, got %v", err)
	}
}

func TestValidateLoanParameters(t *testing.T) {
	if err := ValidateLoanParameters(10_000_000, 15_000_000, SecondsPerYear); err != nil {
		t.Fatalf("150%% collateral should pass: %v", err)
	}
	if err := ValidateLoanParameters(10_000_000, 11_000_000, SecondsPerYear); !errors.Is(err, ErrInsufficientCollateral) {
		t.Fatalf("expected ErrInsufficientCollateral at 110%%, got %v", err)
	}
	if err := ValidateLoanParameters(MinLoanAmount-1, 15_000_000, SecondsPerYear); !errors.Is(err, common.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := ValidateLoanParameters(10_000_000, 15_000_000, SecondsPerDay-1); !errors.Is(err, ErrInvalidVestingParameters) {
		t.Fatalf("expected duration rejection, got %v", err)
	}
	if err := ValidateLoanParameters(10_000_000, 15_000_000, SecondsPerYear*5+1); !errors.Is(err, ErrInvalidVestingParameters) {
		t.Fatalf("expected duration rejection, got %v", err)
	}
}

func TestCheckedArithmetic(t *testing.T) {
	if _, err := CheckedAdd(math.MaxUint64, 1); !errors.Is(err, common.ErrArithmeticOverflow) {
		t.Fatalf("expected add overflow, got %v", err)
	}
	if _, err := CheckedSub(0, 1); !errors.Is(err, common.ErrArithmeticOverflow) {
		t.Fatalf("expected sub underflow, got %v", err)
	}
	if _, err := CheckedMul(math.MaxUint64, 2); !errors.Is(err, common.ErrArithmeticOverflow) {
		t.Fatalf("expected mul overflow, got %v", err)
	}
	if _, err := CheckedDiv(1, 0); !errors.Is(err, common.ErrArithmeticOverflow) {
		t.Fatalf("expected div by zero error, got %v", err)
	}
	if got, err := CheckedPow(10_000, 4); err != nil || got != 10_000_000_000_000_000 {
		t.Fatalf("got (%d, %v)", got, err)
	}
	if _, err := CheckedPow(10_000, 5); !errors.Is(err, common.ErrArithmeticOverflow) {
		t.Fatalf("expected pow overflow, got %v", err)
	}
}
