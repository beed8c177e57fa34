package platform

import (
	"errors"
	"time"

	"bankvest/core/events"
	"bankvest/crypto"
	"bankvest/native/accrual"
	"bankvest/native/common"
)

var (
	errNilState = errors.New("platform engine: state not configured")

	// ErrNotInitialized marks access before the one-time bootstrap ran.
	ErrNotInitialized = errors.New("platform engine: platform not initialized")
	// ErrAlreadyInitialized marks a repeated bootstrap attempt.
	ErrAlreadyInitialized = errors.New("platform engine: platform already initialized")
)

type engineState interface {
	PlatformGet() (*Platform, bool, error)
	PlatformPut(*Platform) error
}

// Engine owns the singleton platform record and the emergency pause switch.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates a platform engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source. Primarily intended for tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// Initialize performs the one-time platform bootstrap.
func (e *Engine) Initialize(admin, treasury crypto.Address, treasuryThreshold uint8) (*Platform, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if admin.IsZero() || treasury.IsZero() {
		return nil, common.ErrUnauthorized
	}
	if _, ok, err := e.state.PlatformGet(); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrAlreadyInitialized
	}

	now := e.nowFn()
	p := &Platform{
		Admin:             admin,
		Treasury:          treasury,
		TreasuryThreshold: treasuryThreshold,
		CreatedAt:         now,
	}
	if err := e.state.PlatformPut(p); err != nil {
		return nil, err
	}
	e.emitter.Emit(events.PlatformInitialized{Admin: admin, Treasury: treasury, Timestamp: now})
	return p.Clone(), nil
}

// Pause halts all value movement. Admin only.
func (e *Engine) Pause(caller crypto.Address) error {
	p, err := e.requireAdmin(caller)
	if err != nil {
		return err
	}
	if p.Paused {
		return nil
	}
	p.Paused = true
	if err := e.state.PlatformPut(p); err != nil {
		return err
	}
	e.emitter.Emit(events.PlatformPaused{Admin: caller, Timestamp: e.nowFn()})
	return nil
}

// Unpause resumes value movement. Admin only.
func (e *Engine) Unpause(caller crypto.Address) error {
	p, err := e.requireAdmin(caller)
	if err != nil {
		return err
	}
	if !p.Paused {
		return nil
	}
	p.Paused = false
	if err := e.state.PlatformPut(p); err != nil {
		return err
	}
	e.emitter.Emit(events.PlatformUnpaused{Admin: caller, Timestamp: e.nowFn()})
	return nil
}

// Get returns a copy of the platform record.
func (e *Engine) Get() (*Platform, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	p, ok, err := e.state.PlatformGet()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	return p.Clone(), nil
}

// IsAdmin reports whether addr is the platform authority.
func (e *Engine) IsAdmin(addr crypto.Address) bool {
	p, err := e.Get()
	if err != nil {
		return false
	}
	return p.Admin.Equal(addr)
}

// Treasury returns the configured fee destination.
func (e *Engine) Treasury() (crypto.Address, error) {
	p, err := e.Get()
	if err != nil {
		return crypto.Address{}, err
	}
	return p.Treasury, nil
}

// RecordCompanyCreated bumps the aggregate company counter.
func (e *Engine) RecordCompanyCreated() error {
	return e.update(func(p *Platform) error {
		next, err := accrual.CheckedAdd(p.TotalCompanies, 1)
		if err != nil {
			return err
		}
		p.TotalCompanies = next
		return nil
	})
}

// RecordScheduleCreated bumps the aggregate vesting schedule counter.
func (e *Engine) RecordScheduleCreated() error {
	return e.update(func(p *Platform) error {
		next, err := accrual.CheckedAdd(p.TotalVestingSchedules, 1)
		if err != nil {
			return err
		}
		p.TotalVestingSchedules = next
		return nil
	})
}

// AddValueLocked credits the platform-wide TVL counter.
func (e *Engine) AddValueLocked(delta uint64) error {
	return e.update(func(p *Platform) error {
		next, err := accrual.CheckedAdd(p.TotalValueLocked, delta)
		if err != nil {
			return err
		}
		p.TotalValueLocked = next
		return nil
	})
}

// ReduceValueLocked debits the platform-wide TVL counter. Payouts funded
// from the treasury or reward reserves can exceed the recorded inflows, so
// the counter floors at zero instead of failing.
func (e *Engine) ReduceValueLocked(delta uint64) error {
	return e.update(func(p *Platform) error {
		if delta >= p.TotalValueLocked {
			p.TotalValueLocked = 0
			return nil
		}
		p.TotalValueLocked -= delta
		return nil
	})
}

func (e *Engine) update(fn func(*Platform) error) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	p, ok, err := e.state.PlatformGet()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotInitialized
	}
	if err := fn(p); err != nil {
		return err
	}
	return e.state.PlatformPut(p)
}

func (e *Engine) requireAdmin(caller crypto.Address) (*Platform, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	p, ok, err := e.state.PlatformGet()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	if !p.Admin.Equal(caller) {
		return nil, common.ErrUnauthorized
	}
	return p, nil
}
