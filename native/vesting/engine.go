package vesting

import (
	"encoding/binary"
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
	errNilState   = errors.New("vesting engine: state not configured")
	errNilCustody = errors.New("vesting engine: custody service not configured")

	// ErrCompanyNotFound marks a grant against an unregistered company.
	ErrCompanyNotFound = errors.New("vesting engine: company not found")
	// ErrCompanyAlreadyExists marks a duplicate company registration.
	ErrCompanyAlreadyExists = errors.New("vesting engine: company already exists")
	// ErrScheduleNotFound marks an operation on an unknown schedule.
	ErrScheduleNotFound = errors.New("vesting engine: schedule not found")
	// ErrVestingNotStarted marks a claim before the schedule start time.
	ErrVestingNotStarted = errors.New("vesting engine: vesting not started")
	// ErrInCliffPeriod marks a claim window check inside the cliff.
	ErrInCliffPeriod = errors.New("vesting engine: in cliff period")
	// ErrNoTokensAvailable marks a claim with nothing newly vested.
	ErrNoTokensAvailable = errors.New("vesting engine: no tokens available")
	// ErrScheduleRevoked marks a claim against a revoked grant.
	ErrScheduleRevoked = errors.New("vesting engine: schedule revoked")
)

var (
	companySeed = []byte("company")
	vestingSeed = []byte("vesting")
)

type engineState interface {
	CompanyGet(id crypto.RecordID) (*Company, bool, error)
	CompanyPut(*Company) error
	ScheduleGet(id crypto.RecordID) (*Schedule, bool, error)
	SchedulePut(*Schedule) error
	ProfileGet(addr crypto.Address) (*banking.Profile, bool, error)
	ProfilePut(*banking.Profile) error
}

// platformCounters is the slice of the platform engine the vesting module
// reports into.
type platformCounters interface {
	RecordCompanyCreated() error
	RecordScheduleCreated() error
	ReduceValueLocked(delta uint64) error
}

// Engine orchestrates company registration and grant lifecycle transitions.
type Engine struct {
	state    engineState
	custody  custody.Service
	emitter  events.Emitter
	platform platformCounters
	pauses   common.PauseView
	limits   common.AccountLimits
	nowFn    func() int64
}

// NewEngine creates a vesting engine with a no-op emitter and the default
// per-user schedule quota.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		limits:  common.AccountLimits{MaxVestingSchedules: accrual.MaxVestingSchedulesPerUser},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetCustody wires the engine to the value-movement service.
func (e *Engine) SetCustody(svc custody.Service) { e.custody = svc }

// SetPlatform wires the aggregate platform counters.
func (e *Engine) SetPlatform(p platformCounters) { e.platform = p }

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

// CompanyID derives the deterministic identifier for an issuer registration.
func CompanyID(authority crypto.Address, name string) crypto.RecordID {
	return crypto.DeriveID(companySeed, authority.Bytes(), []byte(name))
}

// ScheduleID derives the identifier for the index-th grant of a company to a
// beneficiary.
func ScheduleID(company crypto.RecordID, beneficiary crypto.Address, index uint64) crypto.RecordID {
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], index)
	return crypto.DeriveID(vestingSeed, company[:], beneficiary.Bytes(), idx[:])
}

// CreateCompany registers a token issuer whose supply backs future grants.
func (e *Engine) CreateCompany(authority crypto.Address, name, symbol string, asset crypto.Address, totalSupply uint64) (*Company, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.pauses); err != nil {
		return nil, err
	}
	if authority.IsZero() {
		return nil, common.ErrUnauthorized
	}
	if name == "" || len(name) > MaxCompanyNameLength || len(symbol) > MaxSymbolLength {
		return nil, accrual.ErrInvalidVestingParameters
	}
	if totalSupply == 0 {
		return nil, common.ErrInvalidAmount
	}

	id := CompanyID(authority, name)
	if _, ok, err := e.state.CompanyGet(id); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrCompanyAlreadyExists
	}

	now := e.nowFn()
	company := &Company{
		ID:          id,
		Authority:   authority,
		Name:        name,
		Symbol:      symbol,
		Asset:       asset,
		TotalSupply: totalSupply,
		CreatedAt:   now,
	}
	if err := e.state.CompanyPut(company); err != nil {
		return nil, err
	}
	if e.platform != nil {
		if err := e.platform.RecordCompanyCreated(); err != nil {
			return nil, err
		}
	}

	e.emitter.Emit(events.CompanyCreated{
		Company:     id,
		Authority:   authority,
		Name:        name,
		Asset:       asset,
		TotalSupply: totalSupply,
		Timestamp:   now,
	})
	return company.Clone(), nil
}

// CreateSchedule allocates part of a company's supply to a beneficiary under
// a vesting curve. Only the company authority may grant.
func (e *Engine) CreateSchedule(
	authority crypto.Address,
	companyID crypto.RecordID,
	beneficiary crypto.Address,
	totalAmount uint64,
	startTime, cliffDuration, vestingDuration int64,
	vestingType Type,
) (*Schedule, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.pauses); err != nil {
		return nil, err
	}
	if !vestingType.Valid() {
		return nil, accrual.ErrInvalidVestingParameters
	}
	now := e.nowFn()
	if err := accrual.ValidateVestingParameters(now, startTime, cliffDuration, vestingDuration); err != nil {
		return nil, err
	}
	if totalAmount == 0 {
		return nil, common.ErrInvalidAmount
	}
	if beneficiary.IsZero() {
		return nil, common.ErrUnauthorized
	}

	company, ok, err := e.state.CompanyGet(companyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCompanyNotFound
	}
	if !company.Authority.Equal(authority) {
		return nil, common.ErrUnauthorized
	}
	if company.Unallocated() < totalAmount {
		return nil, common.ErrInsufficientBalance
	}

	profile, ok, err := e.state.ProfileGet(beneficiary)
	if err != nil {
		return nil, err
	}
	if !ok {
		profile = &banking.Profile{Owner: beneficiary, CreatedAt: now}
	}
	nextCount, err := common.CheckLimit(e.limits.MaxVestingSchedules, profile.VestingSchedulesCount, 1)
	if err != nil {
		return nil, err
	}

	id := ScheduleID(companyID, beneficiary, company.VestingSchedulesCount)

	allocated, err := accrual.CheckedAdd(company.AllocatedSupply, totalAmount)
	if err != nil {
		return nil, err
	}
	schedules, err := accrual.CheckedAdd(company.VestingSchedulesCount, 1)
	if err != nil {
		return nil, err
	}
	employees, err := accrual.CheckedAdd(company.EmployeesCount, 1)
	if err != nil {
		return nil, err
	}

	schedule := &Schedule{
		ID:              id,
		Company:         companyID,
		Beneficiary:     beneficiary,
		Asset:           company.Asset,
		TotalAmount:     totalAmount,
		StartTime:       startTime,
		CliffDuration:   cliffDuration,
		VestingDuration: vestingDuration,
		VestingType:     vestingType,
		CreatedAt:       now,
	}
	company.AllocatedSupply = allocated
	company.VestingSchedulesCount = schedules
	company.EmployeesCount = employees
	profile.VestingSchedulesCount = nextCount
	profile.LastActivity = now

	if err := e.state.SchedulePut(schedule); err != nil {
		return nil, err
	}
	if err := e.state.CompanyPut(company); err != nil {
		return nil, err
	}
	if err := e.state.ProfilePut(profile); err != nil {
		return nil, err
	}
	if e.platform != nil {
		if err := e.platform.RecordScheduleCreated(); err != nil {
			return nil, err
		}
	}

	e.emitter.Emit(events.ScheduleCreated{
		Schedule:    id,
		Company:     companyID,
		Beneficiary: beneficiary,
		TotalAmount: totalAmount,
		VestingType: vestingType.String(),
		Timestamp:   now,
	})
	return schedule.Clone(), nil
}

// Claim pays out every token vested since the last claim. The custody
// transfer from the company pool to the beneficiary wallet settles before the
// schedule is persisted, so a failed payout leaves the entitlement claimable.
func (e *Engine) Claim(beneficiary crypto.Address, scheduleID crypto.RecordID) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if e.custody == nil {
		return 0, errNilCustody
	}
	if err := common.Guard(e.pauses); err != nil {
		return 0, err
	}

	schedule, ok, err := e.state.ScheduleGet(scheduleID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrScheduleNotFound
	}
	if !schedule.Beneficiary.Equal(beneficiary) {
		return 0, common.ErrUnauthorized
	}
	if schedule.Revoked {
		return 0, ErrScheduleRevoked
	}

	now := e.nowFn()
	if now < schedule.StartTime {
		return 0, ErrVestingNotStarted
	}
	vested, err := accrual.VestedAmount(schedule.TotalAmount, schedule.StartTime, schedule.CliffDuration, schedule.VestingDuration, now)
	if err != nil {
		return 0, err
	}
	claimable, err := accrual.CheckedSub(vested, schedule.ClaimedAmount)
	if err != nil {
		return 0, err
	}
	if claimable == 0 {
		return 0, ErrNoTokensAvailable
	}

	claimed, err := accrual.CheckedAdd(schedule.ClaimedAmount, claimable)
	if err != nil {
		return 0, err
	}
	schedule.ClaimedAmount = claimed
	schedule.LastClaimed = now

	if err := e.custody.MoveExact(custody.CompanyPool, custody.UserWallet(beneficiary), claimable); err != nil {
		return 0, err
	}
	if err := e.state.SchedulePut(schedule); err != nil {
		return 0, err
	}
	if e.platform != nil {
		if err := e.platform.ReduceValueLocked(claimable); err != nil {
			return 0, err
		}
	}

	e.emitter.Emit(events.TokensClaimed{
		Schedule:     scheduleID,
		Beneficiary:  beneficiary,
		Amount:       claimable,
		TotalClaimed: schedule.ClaimedAmount,
		Timestamp:    now,
	})
	return claimable, nil
}

// Revoke cancels the unvested remainder of a grant and returns it to the
// company's unallocated supply. Only the company authority may revoke.
func (e *Engine) Revoke(authority crypto.Address, scheduleID crypto.RecordID) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.pauses); err != nil {
		return err
	}

	schedule, ok, err := e.state.ScheduleGet(scheduleID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrScheduleNotFound
	}
	if schedule.Revoked {
		return ErrScheduleRevoked
	}
	company, ok, err := e.state.CompanyGet(schedule.Company)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCompanyNotFound
	}
	if !company.Authority.Equal(authority) {
		return common.ErrUnauthorized
	}

	unclaimed, err := accrual.CheckedSub(schedule.TotalAmount, schedule.ClaimedAmount)
	if err != nil {
		return err
	}
	allocated, err := accrual.CheckedSub(company.AllocatedSupply, unclaimed)
	if err != nil {
		return err
	}
	schedule.Revoked = true
	company.AllocatedSupply = allocated

	if err := e.state.SchedulePut(schedule); err != nil {
		return err
	}
	if err := e.state.CompanyPut(company); err != nil {
		return err
	}

	e.emitter.Emit(events.ScheduleRevoked{
		Schedule:  scheduleID,
		Authority: authority,
		Timestamp: e.nowFn(),
	})
	return nil
}

// ClaimWindow reports whether a claim at now could pay out, distinguishing a
// schedule that has not started from one still inside its cliff. It is a read
// helper for status surfaces and performs no mutation.
func (s *Schedule) ClaimWindow(now int64) error {
	if s.Revoked {
		return ErrScheduleRevoked
	}
	if now < s.StartTime {
		return ErrVestingNotStarted
	}
	if now-s.StartTime < s.CliffDuration {
		return ErrInCliffPeriod
	}
	return nil
}

// Schedule returns a copy of a grant record.
func (e *Engine) Schedule(id crypto.RecordID) (*Schedule, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	schedule, ok, err := e.state.ScheduleGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrScheduleNotFound
	}
	return schedule.Clone(), nil
}

// Company returns a copy of an issuer record.
func (e *Engine) Company(id crypto.RecordID) (*Company, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	company, ok, err := e.state.CompanyGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCompanyNotFound
	}
	return company.Clone(), nil
}
