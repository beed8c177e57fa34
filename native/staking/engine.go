package staking

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
	errNilState   = errors.New("staking engine: state not configured")
	errNilCustody = errors.New("staking engine: custody service not configured")

	// ErrPoolInactive marks a stake into a deactivated pool.
	ErrPoolInactive = errors.New("staking engine: pool inactive")
)

type engineState interface {
	PoolGet(asset crypto.Address) (*Pool, bool, error)
	PoolPut(*Pool) error
	BankingGet(addr crypto.Address) (*banking.Account, bool, error)
	BankingPut(*banking.Account) error
}

// valueTracker is the slice of the platform engine that aggregates the value
// users hold across products.
type valueTracker interface {
	AddValueLocked(delta uint64) error
	ReduceValueLocked(delta uint64) error
}

// Engine orchestrates stake and unstake transitions.
type Engine struct {
	state     engineState
	custody   custody.Service
	emitter   events.Emitter
	tracker   valueTracker
	authority crypto.Address
	pauses    common.PauseView
	nowFn     func() int64
}

// NewEngine creates a staking engine with a no-op emitter. The authority is
// recorded on pools created on first stake.
func NewEngine(authority crypto.Address) *Engine {
	return &Engine{
		authority: authority,
		emitter:   events.NoopEmitter{},
		nowFn:     func() int64 { return time.Now().Unix() },
	}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetCustody wires the engine to the value-movement service.
func (e *Engine) SetCustody(svc custody.Service) { e.custody = svc }

// SetValueTracker wires the platform-wide TVL aggregate. Stakes and
// unstakes are skipped when no tracker is configured.
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

// Stake moves amount from the participant's wallet into the asset pool,
// creating the pool on first use. The staked total is mirrored on the
// banking account.
func (e *Engine) Stake(user, asset crypto.Address, amount uint64) (*Pool, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.custody == nil {
		return nil, errNilCustody
	}
	if err := common.Guard(e.pauses); err != nil {
		return nil, err
	}
	if amount < accrual.MinStakeAmount {
		return nil, common.ErrInvalidAmount
	}

	account, ok, err := e.state.BankingGet(user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, banking.ErrAccountNotFound
	}

	now := e.nowFn()
	pool, ok, err := e.state.PoolGet(asset)
	if err != nil {
		return nil, err
	}
	if !ok {
		pool = &Pool{
			Asset:        asset,
			Authority:    e.authority,
			APYRateBps:   DefaultAPYBps,
			LockDuration: DefaultLockDuration,
			Active:       true,
			CreatedAt:    now,
		}
	}
	if !pool.Active {
		return nil, ErrPoolInactive
	}

	staked, err := accrual.CheckedAdd(account.StakedAmount, amount)
	if err != nil {
		return nil, err
	}
	total, err := accrual.CheckedAdd(pool.TotalStaked, amount)
	if err != nil {
		return nil, err
	}
	account.StakedAmount = staked
	account.LastInteraction = now
	pool.TotalStaked = total

	if err := e.custody.MoveExact(custody.UserWallet(user), custody.PoolVault, amount); err != nil {
		return nil, err
	}
	if err := e.state.PoolPut(pool); err != nil {
		return nil, err
	}
	if err := e.state.BankingPut(account); err != nil {
		return nil, err
	}
	if e.tracker != nil {
		if err := e.tracker.AddValueLocked(amount); err != nil {
			return nil, err
		}
	}

	e.emitter.Emit(events.TokensStaked{
		User:        user,
		Asset:       asset,
		Amount:      amount,
		TotalStaked: pool.TotalStaked,
		Timestamp:   now,
	})
	return pool.Clone(), nil
}

// Unstake withdraws amount of principal plus the rewards accrued on it since
// the account's last interaction, paid to the participant's wallet.
func (e *Engine) Unstake(user, asset crypto.Address, amount uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if e.custody == nil {
		return 0, errNilCustody
	}
	if err := common.Guard(e.pauses); err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, common.ErrInvalidAmount
	}

	account, ok, err := e.state.BankingGet(user)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, banking.ErrAccountNotFound
	}
	if account.StakedAmount < amount {
		return 0, common.ErrInsufficientBalance
	}
	pool, ok, err := e.state.PoolGet(asset)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrPoolInactive
	}

	now := e.nowFn()
	rewards, err := accrual.StakingRewards(amount, pool.APYRateBps, now-account.LastInteraction)
	if err != nil {
		return 0, err
	}
	withdrawal, err := accrual.CheckedAdd(amount, rewards)
	if err != nil {
		return 0, err
	}

	earned, err := accrual.CheckedAdd(account.EarnedInterest, rewards)
	if err != nil {
		return 0, err
	}
	poolStaked, err := accrual.CheckedSub(pool.TotalStaked, amount)
	if err != nil {
		return 0, err
	}
	poolRewards, err := accrual.CheckedAdd(pool.TotalRewards, rewards)
	if err != nil {
		return 0, err
	}

	account.StakedAmount -= amount
	account.EarnedInterest = earned
	account.LastInteraction = now
	pool.TotalStaked = poolStaked
	pool.TotalRewards = poolRewards

	// Payout settles before the records persist: a vault short on reward
	// liquidity leaves the stake intact.
	if err := e.custody.MoveExact(custody.PoolVault, custody.UserWallet(user), withdrawal); err != nil {
		return 0, err
	}
	if err := e.state.PoolPut(pool); err != nil {
		return 0, err
	}
	if err := e.state.BankingPut(account); err != nil {
		return 0, err
	}
	if e.tracker != nil {
		if err := e.tracker.ReduceValueLocked(withdrawal); err != nil {
			return 0, err
		}
	}

	e.emitter.Emit(events.TokensUnstaked{
		User:      user,
		Asset:     asset,
		Amount:    amount,
		Rewards:   rewards,
		Timestamp: now,
	})
	return rewards, nil
}

// Pool returns a copy of an asset pool.
func (e *Engine) Pool(asset crypto.Address) (*Pool, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	pool, ok, err := e.state.PoolGet(asset)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPoolInactive
	}
	return pool.Clone(), nil
}
