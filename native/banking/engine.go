package banking

import (
	"errors"
	"time"

	"bankvest/core/events"
	"bankvest/crypto"
	"bankvest/native/common"
	"bankvest/native/custody"
)

var (
	errNilState   = errors.New("banking engine: state not configured")
	errNilCustody = errors.New("banking engine: custody service not configured")

	// ErrAccountNotFound marks a lookup for an owner with no banking
	// account yet.
	ErrAccountNotFound = errors.New("banking engine: account not found")
)

type engineState interface {
	BankingGet(addr crypto.Address) (*Account, bool, error)
	BankingPut(*Account) error
	ProfileGet(addr crypto.Address) (*Profile, bool, error)
	ProfilePut(*Profile) error
}

// valueTracker is the slice of the platform engine that aggregates the value
// users hold across products.
type valueTracker interface {
	AddValueLocked(delta uint64) error
	ReduceValueLocked(delta uint64) error
}

// Engine owns the custodial balance ledger.
type Engine struct {
	state   engineState
	custody custody.Service
	emitter events.Emitter
	tracker valueTracker
	asset   crypto.Address
	pauses  common.PauseView
	nowFn   func() int64
}

// NewEngine creates a banking engine for the given platform asset with a
// no-op emitter.
func NewEngine(asset crypto.Address) *Engine {
	return &Engine{
		asset:   asset,
		emitter: events.NoopEmitter{},
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

// SetNowFunc overrides the time source. Primarily intended for tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// Deposit credits a banking account from the owner's external wallet,
// creating the account on first use.
func (e *Engine) Deposit(owner crypto.Address, amount uint64) (*Account, error) {
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
	if owner.IsZero() {
		return nil, common.ErrUnauthorized
	}

	now := e.nowFn()
	account, ok, err := e.state.BankingGet(owner)
	if err != nil {
		return nil, err
	}
	if !ok {
		account = &Account{
			Owner:           owner,
			LastInteraction: now,
			AccountType:     AccountTypeBasic,
			TierLevel:       1,
		}
	}
	if err := account.Credit(amount); err != nil {
		return nil, err
	}
	account.LastInteraction = now

	// Settle custody before persisting: a failed transfer must leave the
	// stored account untouched.
	if err := e.custody.MoveExact(custody.UserWallet(owner), custody.BankVault, amount); err != nil {
		return nil, err
	}
	if err := e.state.BankingPut(account); err != nil {
		return nil, err
	}
	if err := e.touchProfile(owner, now); err != nil {
		return nil, err
	}
	if e.tracker != nil {
		if err := e.tracker.AddValueLocked(amount); err != nil {
			return nil, err
		}
	}

	e.emitter.Emit(events.FundsDeposited{
		Owner:      owner,
		Asset:      e.asset,
		Amount:     amount,
		NewBalance: account.Balance,
		Timestamp:  now,
	})
	return account.Clone(), nil
}

// Withdraw pays out part of a banking balance to the owner's external
// wallet.
func (e *Engine) Withdraw(owner crypto.Address, amount uint64) (*Account, error) {
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

	account, ok, err := e.state.BankingGet(owner)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrInsufficientBalance
	}
	if err := account.Debit(amount); err != nil {
		return nil, err
	}
	now := e.nowFn()
	account.LastInteraction = now

	if err := e.custody.MoveExact(custody.BankVault, custody.UserWallet(owner), amount); err != nil {
		return nil, err
	}
	if err := e.state.BankingPut(account); err != nil {
		return nil, err
	}
	if err := e.touchProfile(owner, now); err != nil {
		return nil, err
	}
	if e.tracker != nil {
		if err := e.tracker.ReduceValueLocked(amount); err != nil {
			return nil, err
		}
	}

	e.emitter.Emit(events.FundsWithdrawn{
		Owner:      owner,
		Asset:      e.asset,
		Amount:     amount,
		NewBalance: account.Balance,
		Timestamp:  now,
	})
	return account.Clone(), nil
}

// Transfer moves part of a banking balance to another participant, creating
// the recipient's account on first use. Both balances stay inside the bank
// vault so no custody settlement is involved.
func (e *Engine) Transfer(from, to crypto.Address, amount uint64) (*Account, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.pauses); err != nil {
		return nil, err
	}
	if amount == 0 || from.Equal(to) {
		return nil, common.ErrInvalidAmount
	}
	if to.IsZero() {
		return nil, common.ErrUnauthorized
	}

	source, ok, err := e.state.BankingGet(from)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrInsufficientBalance
	}
	now := e.nowFn()
	dest, ok, err := e.state.BankingGet(to)
	if err != nil {
		return nil, err
	}
	if !ok {
		dest = &Account{
			Owner:           to,
			LastInteraction: now,
			AccountType:     AccountTypeBasic,
			TierLevel:       1,
		}
	}
	if err := Move(source, dest, amount); err != nil {
		return nil, err
	}
	source.LastInteraction = now
	dest.LastInteraction = now

	if err := e.state.BankingPut(source); err != nil {
		return nil, err
	}
	if err := e.state.BankingPut(dest); err != nil {
		return nil, err
	}
	if err := e.touchProfile(from, now); err != nil {
		return nil, err
	}
	if err := e.touchProfile(to, now); err != nil {
		return nil, err
	}

	e.emitter.Emit(events.FundsTransferred{
		From:      from,
		To:        to,
		Asset:     e.asset,
		Amount:    amount,
		Timestamp: now,
	})
	return source.Clone(), nil
}

// Account returns a copy of a banking account.
func (e *Engine) Account(owner crypto.Address) (*Account, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	account, ok, err := e.state.BankingGet(owner)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account.Clone(), nil
}

// Profile returns a copy of a participant's usage profile, creating an empty
// one on first access.
func (e *Engine) Profile(owner crypto.Address) (*Profile, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	profile, ok, err := e.state.ProfileGet(owner)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Profile{Owner: owner, CreatedAt: e.nowFn()}, nil
	}
	return profile.Clone(), nil
}

func (e *Engine) touchProfile(owner crypto.Address, now int64) error {
	profile, ok, err := e.state.ProfileGet(owner)
	if err != nil {
		return err
	}
	if !ok {
		profile = &Profile{Owner: owner, CreatedAt: now}
	}
	profile.LastActivity = now
	return e.state.ProfilePut(profile)
}
