package savings

import (
	"errors"
	"time"

	"bankvest/core/events"
	"bankvest/crypto"
	"bankvest/native/accrual"
	"bankvest/native/banking"
	"bankvest/native/common"
	"bankvest/native/custody"
)

var (
	errNilState   = errors.New("savings engine: state not configured")
	errNilCustody = errors.New("savings engine: custody service not configured")

	// ErrAccountNotFound marks an operation on an unknown savings account.
	ErrAccountNotFound = errors.New("savings engine: account not found")
	// ErrAccountAlreadyExists marks a duplicate account for the same owner
	// and asset.
	ErrAccountAlreadyExists = errors.New("savings engine: account already exists")
	// ErrCompoundFrequencyNotMet marks a compounding attempt before one
	// full period has elapsed.
	ErrCompoundFrequencyNotMet = errors.New("savings engine: compound frequency not met")
	// ErrAccountLocked marks a movement against a locked account.
	ErrAccountLocked = errors.New("savings engine: account locked")
)

var savingsSeed = []byte("savings")

type engineState interface {
	SavingsGet(id crypto.RecordID) (*Account, bool, error)
	SavingsPut(*Account) error
	BankingGet(addr crypto.Address) (*banking.Account, bool, error)
	BankingPut(*banking.Account) error
	ProfileGet(addr crypto.Address) (*banking.Profile, bool, error)
	ProfilePut(*banking.Profile) error
}

// valueTracker is the slice of the platform engine that aggregates the value
// users hold across products.
type valueTracker interface {
	AddValueLocked(delta uint64) error
	ReduceValueLocked(delta uint64) error
}

// Engine orchestrates savings account transitions and compounding.
type Engine struct {
	state   engineState
	custody custody.Service
	emitter events.Emitter
	tracker valueTracker
	pauses  common.PauseView
	limits  common.AccountLimits
	nowFn   func() int64
}

// NewEngine creates a savings engine with a no-op emitter and the default
// per-user account quota.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		limits:  common.AccountLimits{MaxSavingsAccounts: accrual.MaxSavingsAccountsPerUser},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetCustody wires the engine to the value-movement service.
func (e *Engine) SetCustody(svc custody.Service) { e.custody = svc }

// SetValueTracker wires the platform-wide TVL aggregate. Deposits and
// withdrawals are skipped when no tracker is configured.
func (e *Engine) SetValueTracker(t valueTracker) { e.tracker = t }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetPauses wires the platform pause switch into the engine.
func (e *Engine) SetPauses(p common.PauseView) {
	if e == nil {
		return
	}
	e.pauses = p
}

// SetLimits overrides the per-user quotas.
func (e *Engine) SetLimits(limits common.AccountLimits) { e.limits = limits }

// SetNowFunc overrides the time source. Primarily intended for tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// AccountID derives the identifier for an owner's savings account in an
// asset.
func AccountID(owner, asset crypto.Address) crypto.RecordID {
	return crypto.DeriveID(savingsSeed, owner.Bytes(), asset.Bytes())
}

// Create opens an empty savings account at the requested APY. The first
// compounding window starts now.
func (e *Engine) Create(owner, asset crypto.Address, apyBps uint16) (*Account, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.pauses); err != nil {
		return nil, err
	}
	if err := accrual.ValidateAPYRate(apyBps); err != nil {
		return nil, err
	}

	id := AccountID(owner, asset)
	if _, ok, err := e.state.SavingsGet(id); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrAccountAlreadyExists
	}

	now := e.nowFn()
	profile, ok, err := e.state.ProfileGet(owner)
	if err != nil {
		return nil, err
	}
	if !ok {
		profile = &banking.Profile{Owner: owner, CreatedAt: now}
	}
	nextCount, err := common.CheckLimit(e.limits.MaxSavingsAccounts, profile.SavingsAccountsCount, 1)
	if err != nil {
		return nil, err
	}

	account := &Account{
		ID:                id,
		Owner:             owner,
		Asset:             asset,
		APYRateBps:        apyBps,
		CompoundFrequency: DefaultCompoundFrequency,
		LastCompound:      now,
		CreatedAt:         now,
	}
	profile.SavingsAccountsCount = nextCount
	profile.LastActivity = now

	if err := e.state.SavingsPut(account); err != nil {
		return nil, err
	}
	if err := e.state.ProfilePut(profile); err != nil {
		return nil, err
	}
	if err := e.touchBanking(owner, now); err != nil {
		return nil, err
	}

	e.emitter.Emit(events.SavingsAccountCreated{
		Account:   id,
		Owner:     owner,
		APYBps:    uint64(apyBps),
		Timestamp: now,
	})
	return account.Clone(), nil
}

// Deposit moves amount from the owner's wallet into the savings vault.
func (e *Engine) Deposit(owner crypto.Address, accountID crypto.RecordID, amount uint64) (*Account, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.custody == nil {
		return nil, errNilCustody
	}
	if err := common.Guard(e.pauses); err != nil {
		return nil, err
	}
	if amount < accrual.MinSavingsDeposit {
		return nil, common.ErrInvalidAmount
	}

	account, ok, err := e.state.SavingsGet(accountID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccountNotFound
	}
	if !account.Owner.Equal(owner) {
		return nil, common.ErrUnauthorized
	}
	if account.Locked {
		return nil, ErrAccountLocked
	}

	balance, err := accrual.CheckedAdd(account.Balance, amount)
	if err != nil {
		return nil, err
	}
	account.Balance = balance

	if err := e.custody.MoveExact(custody.UserWallet(owner), custody.SavingsVault, amount); err != nil {
		return nil, err
	}
	if err := e.state.SavingsPut(account); err != nil {
		return nil, err
	}
	if e.tracker != nil {
		if err := e.tracker.AddValueLocked(amount); err != nil {
			return nil, err
		}
	}

	e.emitter.Emit(events.SavingsDeposited{
		Account:    accountID,
		Owner:      owner,
		Amount:     amount,
		NewBalance: account.Balance,
		Timestamp:  e.nowFn(),
	})
	return account.Clone(), nil
}

// Withdraw moves amount from the savings vault back to the owner's wallet.
// A locked account pays out only once its unlock time has passed.
func (e *Engine) Withdraw(owner crypto.Address, accountID crypto.RecordID, amount uint64) (*Account, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.custody == nil {
		return nil, errNilCustody
	}
	if err := common.Guard(e.pauses); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, common.ErrInvalidAmount
	}

	account, ok, err := e.state.SavingsGet(accountID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccountNotFound
	}
	if !account.Owner.Equal(owner) {
		return nil, common.ErrUnauthorized
	}
	now := e.nowFn()
	if !account.Withdrawable(now) {
		return nil, ErrAccountLocked
	}
	if account.Balance < amount {
		return nil, common.ErrInsufficientBalance
	}
	account.Balance -= amount

	// Payout settles before the record persists: a vault short on
	// compounded interest leaves the balance intact.
	if err := e.custody.MoveExact(custody.SavingsVault, custody.UserWallet(owner), amount); err != nil {
		return nil, err
	}
	if err := e.state.SavingsPut(account); err != nil {
		return nil, err
	}
	if e.tracker != nil {
		if err := e.tracker.ReduceValueLocked(amount); err != nil {
			return nil, err
		}
	}

	e.emitter.Emit(events.SavingsWithdrawn{
		Account:    accountID,
		Owner:      owner,
		Amount:     amount,
		NewBalance: account.Balance,
		Timestamp:  now,
	})
	return account.Clone(), nil
}

// Compound settles the interest accrued since the last compounding event.
// It fails until one full period has elapsed, and it always restarts the
// window even when the computed interest floors to zero.
func (e *Engine) Compound(accountID crypto.RecordID) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if err := common.Guard(e.pauses); err != nil {
		return 0, err
	}

	account, ok, err := e.state.SavingsGet(accountID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrAccountNotFound
	}

	now := e.nowFn()
	elapsed := now - account.LastCompound
	if elapsed < account.CompoundInterval() {
		return 0, ErrCompoundFrequencyNotMet
	}

	var earned uint64
	if account.Balance > 0 {
		earned, err = accrual.CompoundInterest(account.Balance, account.APYRateBps, elapsed, account.CompoundFrequency)
		if err != nil {
			return 0, err
		}
		if earned > 0 {
			balance, err := accrual.CheckedAdd(account.Balance, earned)
			if err != nil {
				return 0, err
			}
			total, err := accrual.CheckedAdd(account.TotalEarned, earned)
			if err != nil {
				return 0, err
			}
			account.Balance = balance
			account.TotalEarned = total
		}
	}
	account.LastCompound = now

	if err := e.state.SavingsPut(account); err != nil {
		return 0, err
	}
	if earned > 0 {
		e.emitter.Emit(events.InterestCompounded{
			Account:        accountID,
			Owner:          account.Owner,
			InterestEarned: earned,
			NewBalance:     account.Balance,
			Timestamp:      now,
		})
	}
	return earned, nil
}

// Lock freezes withdrawals until unlockTime. Only the owner may lock.
func (e *Engine) Lock(owner crypto.Address, accountID crypto.RecordID, unlockTime int64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.pauses); err != nil {
		return err
	}

	account, ok, err := e.state.SavingsGet(accountID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccountNotFound
	}
	if !account.Owner.Equal(owner) {
		return common.ErrUnauthorized
	}
	now := e.nowFn()
	if unlockTime <= now {
		return common.ErrInvalidTimestamp
	}
	account.Locked = true
	account.UnlockTime = unlockTime

	if err := e.state.SavingsPut(account); err != nil {
		return err
	}

	e.emitter.Emit(events.SavingsLocked{
		Account:    accountID,
		Owner:      owner,
		UnlockTime: unlockTime,
		Timestamp:  now,
	})
	return nil
}

// Account returns a copy of a savings account.
func (e *Engine) Account(id crypto.RecordID) (*Account, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	account, ok, err := e.state.SavingsGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account.Clone(), nil
}

func (e *Engine) touchBanking(owner crypto.Address, now int64) error {
	account, ok, err := e.state.BankingGet(owner)
	if err != nil || !ok {
		return err
	}
	account.LastInteraction = now
	return e.state.BankingPut(account)
}
