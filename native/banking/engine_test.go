package banking

import (
	"errors"
	"testing"

	"bankvest/crypto"
	"bankvest/native/common"
	"bankvest/native/custody"
)

type mockState struct {
	accounts map[crypto.Address]*Account
	profiles map[crypto.Address]*Profile
}

func newMockState() *mockState {
	return &mockState{
		accounts: make(map[crypto.Address]*Account),
		profiles: make(map[crypto.Address]*Profile),
	}
}

func (m *mockState) BankingGet(addr crypto.Address) (*Account, bool, error) {
	account, ok := m.accounts[addr]
	if !ok {
		return nil, false, nil
	}
	return account.Clone(), true, nil
}

func (m *mockState) BankingPut(account *Account) error {
	m.accounts[account.Owner] = account.Clone()
	return nil
}

func (m *mockState) ProfileGet(addr crypto.Address) (*Profile, bool, error) {
	profile, ok := m.profiles[addr]
	if !ok {
		return nil, false, nil
	}
	return profile.Clone(), true, nil
}

func (m *mockState) ProfilePut(profile *Profile) error {
	m.profiles[profile.Owner] = profile.Clone()
	return nil
}

type stubPause bool

func (s stubPause) IsPaused() bool { return bool(s) }

func testAddr(b byte) crypto.Address {
	raw := make([]byte, crypto.AddressLength)
	raw[0] = b
	return crypto.MustNewAddress(raw)
}

func newTestEngine(t *testing.T) (*Engine, *mockState, *custody.Memory) {
	t.Helper()
	state := newMockState()
	ledger := custody.NewMemory()
	engine := NewEngine(testAddr(0xAA))
	engine.SetState(state)
	engine.SetCustody(ledger)
	engine.SetNowFunc(func() int64 { return 1_700_000_000 })
	return engine, state, ledger
}

func TestDepositCreatesAccount(t *testing.T) {
	engine, state, ledger := newTestEngine(t)
	owner := testAddr(1)

	account, err := engine.Deposit(owner, 5_000_000)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if account.Balance != 5_000_000 {
		t.Fatalf("balance: got %d, want 5000000", account.Balance)
	}
	if account.AccountType != AccountTypeBasic || account.TierLevel != 1 {
		t.Fatalf("unexpected new-account defaults: %+v", account)
	}
	if account.LastInteraction != 1_700_000_000 {
		t.Fatalf("last interaction: got %d", account.LastInteraction)
	}
	if got := ledger.BalanceOf(custody.BankVault); got != 5_000_000 {
		t.Fatalf("vault balance: got %d", got)
	}
	if state.profiles[owner] == nil {
		t.Fatalf("profile not created on first deposit")
	}
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	engine, state, _ := newTestEngine(t)
	owner := testAddr(1)

	if _, err := engine.Deposit(owner, 3_000_000); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}
	before := state.accounts[owner].Clone()

	engine.SetNowFunc(func() int64 { return 1_700_000_500 })
	if _, err := engine.Deposit(owner, 1_000_000); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	account, err := engine.Withdraw(owner, 1_000_000)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if account.Balance != before.Balance {
		t.Fatalf("round trip changed balance: %d -> %d", before.Balance, account.Balance)
	}
	if account.StakedAmount != before.StakedAmount || account.EarnedInterest != before.EarnedInterest {
		t.Fatalf("round trip changed unrelated fields: %+v", account)
	}
	if account.LastInteraction != 1_700_000_500 {
		t.Fatalf("last interaction not updated: %d", account.LastInteraction)
	}
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	engine, state, _ := newTestEngine(t)
	owner := testAddr(1)

	if _, err := engine.Deposit(owner, 1_000_000); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}
	if _, err := engine.Withdraw(owner, 1_000_001); !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := state.accounts[owner].Balance; got != 1_000_000 {
		t.Fatalf("failed withdraw mutated balance: %d", got)
	}

	if _, err := engine.Withdraw(testAddr(2), 1); !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance for missing account, got %v", err)
	}
}

func TestZeroAmountRejected(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	owner := testAddr(1)

	if _, err := engine.Deposit(owner, 0); !errors.Is(err, common.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := engine.Withdraw(owner, 0); !errors.Is(err, common.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestPausedPlatformBlocksMovement(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	owner := testAddr(1)

	if _, err := engine.Deposit(owner, 1_000_000); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}
	engine.SetPauses(stubPause(true))
	if _, err := engine.Deposit(owner, 1); !errors.Is(err, common.ErrPlatformPaused) {
		t.Fatalf("expected ErrPlatformPaused, got %v", err)
	}
	if _, err := engine.Withdraw(owner, 1); !errors.Is(err, common.ErrPlatformPaused) {
		t.Fatalf("expected ErrPlatformPaused, got %v", err)
	}
}

func TestWithdrawFailedPayoutLeavesAccount(t *testing.T) {
	engine, state, ledger := newTestEngine(t)
	owner := testAddr(1)

	// Balance recorded directly, without the deposit that would have funded
	// the vault: the payout cannot settle.
	state.accounts[owner] = &Account{Owner: owner, Balance: 5_000_000, TierLevel: 1}

	if _, err := engine.Withdraw(owner, 2_000_000); !errors.Is(err, custody.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := state.accounts[owner].Balance; got != 5_000_000 {
		t.Fatalf("failed payout mutated stored balance: %d", got)
	}
	if got := ledger.BalanceOf(custody.UserWallet(owner)); got != 0 {
		t.Fatalf("failed payout moved funds: %d", got)
	}
}

func TestMove(t *testing.T) {
	from := &Account{Owner: testAddr(1), Balance: 1_000}
	to := &Account{Owner: testAddr(2), Balance: 500}

	if err := Move(from, to, 400); err != nil {
		t.Fatalf("move: %v", err)
	}
	if from.Balance != 600 || to.Balance != 900 {
		t.Fatalf("unexpected balances after move: %d, %d", from.Balance, to.Balance)
	}

	if err := Move(from, to, 601); !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if from.Balance != 600 || to.Balance != 900 {
		t.Fatalf("failed move mutated balances: %d, %d", from.Balance, to.Balance)
	}

	// A credit overflow restores the debited side.
	full := &Account{Owner: testAddr(3), Balance: ^uint64(0)}
	if err := Move(from, full, 100); !errors.Is(err, common.ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
	if from.Balance != 600 {
		t.Fatalf("overflowed move lost the debit: %d", from.Balance)
	}
}

func TestTransfer(t *testing.T) {
	engine, state, _ := newTestEngine(t)
	from := testAddr(1)
	to := testAddr(2)

	if _, err := engine.Deposit(from, 5_000_000); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}

	source, err := engine.Transfer(from, to, 2_000_000)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if source.Balance != 3_000_000 {
		t.Fatalf("source balance: got %d, want 3000000", source.Balance)
	}
	dest := state.accounts[to]
	if dest == nil || dest.Balance != 2_000_000 {
		t.Fatalf("recipient not credited: %+v", dest)
	}
	if dest.AccountType != AccountTypeBasic || dest.TierLevel != 1 {
		t.Fatalf("unexpected recipient defaults: %+v", dest)
	}
	if state.profiles[to] == nil {
		t.Fatalf("recipient profile not created")
	}

	if _, err := engine.Transfer(from, to, 4_000_000); !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if _, err := engine.Transfer(from, from, 1); !errors.Is(err, common.ErrInvalidAmount) {
		t.Fatalf("self transfer should be rejected, got %v", err)
	}
	if _, err := engine.Transfer(testAddr(9), to, 1); !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance for missing source, got %v", err)
	}
}

type recordingTracker struct {
	added   uint64
	reduced uint64
}

func (r *recordingTracker) AddValueLocked(delta uint64) error {
	r.added += delta
	return nil
}

func (r *recordingTracker) ReduceValueLocked(delta uint64) error {
	r.reduced += delta
	return nil
}

func TestDepositWithdrawTrackValueLocked(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	tracker := &recordingTracker{}
	engine.SetValueTracker(tracker)
	owner := testAddr(1)

	if _, err := engine.Deposit(owner, 5_000_000); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := engine.Withdraw(owner, 2_000_000); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if tracker.added != 5_000_000 || tracker.reduced != 2_000_000 {
		t.Fatalf("tvl deltas: added %d, reduced %d", tracker.added, tracker.reduced)
	}
}

func TestAccountLookup(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	owner := testAddr(1)

	if _, err := engine.Account(owner); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := engine.Deposit(owner, 2_000_000); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	account, err := engine.Account(owner)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account.Balance != 2_000_000 {
		t.Fatalf("unexpected balance: %d", account.Balance)
	}
}
