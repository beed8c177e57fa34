package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"bankvest/crypto"
	"bankvest/native/banking"
	"bankvest/native/lending"
	"bankvest/native/platform"
	"bankvest/native/savings"
	"bankvest/native/staking"
	"bankvest/native/vesting"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func testAddr(b byte) crypto.Address {
	raw := make([]byte, crypto.AddressLength)
	raw[0] = b
	return crypto.MustNewAddress(raw)
}

func TestPlatformRoundTrip(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.PlatformGet()
	require.NoError(t, err)
	require.False(t, ok)

	want := &platform.Platform{
		Admin:            testAddr(1),
		Treasury:         testAddr(2),
		TotalValueLocked: 42,
		Paused:           true,
		CreatedAt:        1_700_000_000,
	}
	require.NoError(t, store.PlatformPut(want))

	got, ok, err := store.PlatformGet()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestBankingAndProfileRoundTrip(t *testing.T) {
	store := openTestStore(t)
	owner := testAddr(3)

	account := &banking.Account{
		Owner:           owner,
		Balance:         5_000_000,
		StakedAmount:    1_000_000,
		LastInteraction: 1_700_000_000,
		AccountType:     banking.AccountTypePremium,
		TierLevel:       2,
	}
	require.NoError(t, store.BankingPut(account))

	got, ok, err := store.BankingGet(owner)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, account, got)

	profile := &banking.Profile{Owner: owner, LoansCount: 2, KYCVerified: true}
	require.NoError(t, store.ProfilePut(profile))
	gotProfile, ok, err := store.ProfileGet(owner)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, profile, gotProfile)

	_, ok, err = store.BankingGet(testAddr(9))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVestingRoundTrip(t *testing.T) {
	store := openTestStore(t)
	company := &vesting.Company{
		ID:          vesting.CompanyID(testAddr(1), "Acme"),
		Authority:   testAddr(1),
		Name:        "Acme",
		Symbol:      "ACME",
		TotalSupply: 1_000_000_000,
	}
	require.NoError(t, store.CompanyPut(company))

	schedule := &vesting.Schedule{
		ID:              vesting.ScheduleID(company.ID, testAddr(2), 0),
		Company:         company.ID,
		Beneficiary:     testAddr(2),
		TotalAmount:     10_000,
		StartTime:       1_700_000_000,
		CliffDuration:   86_400,
		VestingDuration: 31_536_000,
		VestingType:     vesting.TypeLinear,
	}
	require.NoError(t, store.SchedulePut(schedule))

	gotCompany, ok, err := store.CompanyGet(company.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, company, gotCompany)

	gotSchedule, ok, err := store.ScheduleGet(schedule.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, schedule, gotSchedule)
}

func TestLoanPoolSavingsRoundTrip(t *testing.T) {
	store := openTestStore(t)

	loan := &lending.Loan{
		ID:                   lending.LoanID(testAddr(2), testAddr(0xEE)),
		Borrower:             testAddr(2),
		Asset:                testAddr(0xEE),
		Amount:               10_000_000,
		CollateralAmount:     15_000_000,
		InterestRateBps:      516,
		Status:               lending.StatusActive,
		LiquidationThreshold: 8000,
	}
	require.NoError(t, store.LoanPut(loan))
	gotLoan, ok, err := store.LoanGet(loan.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, loan, gotLoan)

	pool := &staking.Pool{
		Asset:       testAddr(0xEE),
		TotalStaked: 2_000_000,
		APYRateBps:  staking.DefaultAPYBps,
		Active:      true,
	}
	require.NoError(t, store.PoolPut(pool))
	gotPool, ok, err := store.PoolGet(pool.Asset)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, pool, gotPool)

	account := &savings.Account{
		ID:                savings.AccountID(testAddr(2), testAddr(0xEE)),
		Owner:             testAddr(2),
		Asset:             testAddr(0xEE),
		Balance:           5_000_000,
		APYRateBps:        1200,
		CompoundFrequency: savings.DefaultCompoundFrequency,
	}
	require.NoError(t, store.SavingsPut(account))
	gotAccount, ok, err := store.SavingsGet(account.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, account, gotAccount)
}
