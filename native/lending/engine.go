package lending

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
	errNilState   = errors.New("lending engine: state not configured")
	errNilCustody = errors.New("lending engine: custody service not configured")

	// ErrLoanNotFound marks a lookup miss or a status precondition
	// mismatch.
	ErrLoanNotFound = errors.New("lending engine: loan not found")
	// ErrLoanAlreadyExists marks a second open loan for the same borrower
	// and asset.
	ErrLoanAlreadyExists = errors.New("lending engine: loan already exists")
	// ErrUnderLiquidationThreshold marks a liquidation attempt on a still
	// healthy position.
	ErrUnderLiquidationThreshold = errors.New("lending engine: position above liquidation threshold")
)

var loanSeed = []byte("loan")

type engineState interface {
	LoanGet(id crypto.RecordID) (*Loan, bool, error)
	LoanPut(*Loan) error
	BankingGet(addr crypto.Address) (*banking.Account, bool, error)
	BankingPut(*banking.Account) error
	ProfileGet(addr crypto.Address) (*banking.Profile, bool, error)
	ProfilePut(*banking.Profile) error
}

// adminView is the slice of the platform engine used for approval gating.
type adminView interface {
	IsAdmin(addr crypto.Address) bool
}

// valueTracker is the slice of the platform engine that aggregates the value
// users hold across products.
type valueTracker interface {
	AddValueLocked(delta uint64) error
	ReduceValueLocked(delta uint64) error
}

// Engine orchestrates the loan lifecycle state machine.
type Engine struct {
	state   engineState
	custody custody.Service
	emitter events.Emitter
	admin   adminView
	tracker valueTracker
	pauses  common.PauseView
	limits  common.AccountLimits
	nowFn   func() int64
}

// NewEngine creates a lending engine with a no-op emitter and the default
// per-user loan quota.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		limits:  common.AccountLimits{MaxActiveLoans: accrual.MaxLoansPerUser},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetCustody wires the engine to the value-movement service.
func (e *Engine) SetCustody(svc custody.Service) { e.custody = svc }

// SetAdminView wires the platform authority check used by Approve.
func (e *Engine) SetAdminView(v adminView) { e.admin = v }

// SetValueTracker wires the platform-wide TVL aggregate. Liquidation payouts
// are skipped when no tracker is configured.
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

// LoanID derives the deterministic identifier for a borrower's position in
// an asset. One open position per borrower and asset is allowed at a time.
func LoanID(borrower, asset crypto.Address) crypto.RecordID {
	return crypto.DeriveID(loanSeed, borrower.Bytes(), asset.Bytes())
}

// Create opens a pending loan request, pricing the rate from the requested
// loan-to-value and escrowing the collateral out of the borrower's banking
// balance.
func (e *Engine) Create(borrower, asset crypto.Address, amount, collateralAmount uint64, duration int64) (*Loan, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.custody == nil {
		return nil, errNilCustody
	}
	if err := common.Guard(e.pauses); err != nil {
		return nil, err
	}
	if err := accrual.ValidateLoanParameters(amount, collateralAmount, duration); err != nil {
		return nil, err
	}

	id := LoanID(borrower, asset)
	if existing, ok, err := e.state.LoanGet(id); err != nil {
		return nil, err
	} else if ok && existing.Status.Open() {
		return nil, ErrLoanAlreadyExists
	}

	account, ok, err := e.state.BankingGet(borrower)
	if err != nil {
		return nil, err
	}
	if !ok || account.Balance < collateralAmount {
		return nil, accrual.ErrInsufficientCollateral
	}

	profile, ok, err := e.state.ProfileGet(borrower)
	if err != nil {
		return nil, err
	}
	now := e.nowFn()
	if !ok {
		profile = &banking.Profile{Owner: borrower, CreatedAt: now}
	}
	nextCount, err := common.CheckLimit(e.limits.MaxActiveLoans, profile.LoansCount, 1)
	if err != nil {
		return nil, err
	}

	rate, err := accrual.RiskAdjustedRate(amount, collateralAmount)
	if err != nil {
		return nil, err
	}
	if err := account.Debit(collateralAmount); err != nil {
		return nil, err
	}

	loan := &Loan{
		ID:                   id,
		Borrower:             borrower,
		Asset:                asset,
		Amount:               amount,
		CollateralAmount:     collateralAmount,
		InterestRateBps:      rate,
		Duration:             duration,
		Status:               StatusPending,
		LiquidationThreshold: accrual.LiquidationThreshold,
		CreatedAt:            now,
	}
	profile.LoansCount = nextCount
	profile.LastActivity = now

	if err := e.custody.MoveExact(custody.BankVault, custody.LoanEscrow, collateralAmount); err != nil {
		return nil, err
	}
	if err := e.state.LoanPut(loan); err != nil {
		return nil, err
	}
	if err := e.state.BankingPut(account); err != nil {
		return nil, err
	}
	if err := e.state.ProfilePut(profile); err != nil {
		return nil, err
	}

	e.emitter.Emit(events.LoanRequested{
		Loan:       id,
		Borrower:   borrower,
		Amount:     amount,
		Collateral: collateralAmount,
		Duration:   duration,
		RateBps:    uint64(rate),
		Timestamp:  now,
	})
	return loan.Clone(), nil
}

// Approve activates a pending loan: the full principal is credited to the
// borrower's banking balance and interest starts running. Admin only.
func (e *Engine) Approve(caller crypto.Address, loanID crypto.RecordID) (*Loan, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.custody == nil {
		return nil, errNilCustody
	}
	if err := common.Guard(e.pauses); err != nil {
		return nil, err
	}
	if e.admin == nil || !e.admin.IsAdmin(caller) {
		return nil, common.ErrUnauthorized
	}

	loan, ok, err := e.state.LoanGet(loanID)
	if err != nil {
		return nil, err
	}
	if !ok || loan.Status != StatusPending {
		return nil, ErrLoanNotFound
	}

	account, ok, err := e.state.BankingGet(loan.Borrower)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, banking.ErrAccountNotFound
	}
	if err := account.Credit(loan.Amount); err != nil {
		return nil, err
	}

	now := e.nowFn()
	loan.Status = StatusActive
	loan.StartTime = now
	account.LastInteraction = now

	// Disbursement settles before the loan flips active: a short treasury
	// leaves the request pending and retryable.
	if err := e.custody.MoveExact(custody.Treasury, custody.BankVault, loan.Amount); err != nil {
		return nil, err
	}
	if err := e.state.LoanPut(loan); err != nil {
		return nil, err
	}
	if err := e.state.BankingPut(account); err != nil {
		return nil, err
	}

	e.emitter.Emit(events.LoanApproved{
		Loan:      loanID,
		Borrower:  loan.Borrower,
		Amount:    loan.Amount,
		RateBps:   uint64(loan.InterestRateBps),
		Timestamp: now,
	})
	return loan.Clone(), nil
}

// Repay pays down an active loan from the borrower's banking balance. A
// payment above the outstanding debt is clipped to it. Once the cumulative
// repayment covers the debt the collateral is released and the loan closes.
func (e *Engine) Repay(borrower crypto.Address, loanID crypto.RecordID, amount uint64) (*Loan, error) {
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

	loan, ok, err := e.state.LoanGet(loanID)
	if err != nil {
		return nil, err
	}
	if !ok || loan.Status != StatusActive {
		return nil, ErrLoanNotFound
	}
	if !loan.Borrower.Equal(borrower) {
		return nil, common.ErrUnauthorized
	}

	now := e.nowFn()
	totalDebt, err := loan.TotalDebt(now)
	if err != nil {
		return nil, err
	}
	repayment := amount
	if repayment > totalDebt {
		repayment = totalDebt
	}

	account, ok, err := e.state.BankingGet(borrower)
	if err != nil {
		return nil, err
	}
	if !ok || account.Balance < repayment {
		return nil, common.ErrInsufficientBalance
	}
	if err := account.Debit(repayment); err != nil {
		return nil, err
	}

	repaid, err := accrual.CheckedAdd(loan.RepaidAmount, repayment)
	if err != nil {
		return nil, err
	}
	loan.RepaidAmount = repaid

	// The release condition compares the cumulative repayment against the
	// debt figure computed on entry, which already nets out prior
	// repayments. Partial payers therefore close earlier than a
	// strict principal-plus-interest tally would suggest.
	closed := loan.RepaidAmount >= totalDebt
	if closed {
		if err := account.Credit(loan.CollateralAmount); err != nil {
			return nil, err
		}
		loan.Status = StatusRepaid
	}
	account.LastInteraction = now

	if err := e.custody.MoveExact(custody.BankVault, custody.Treasury, repayment); err != nil {
		return nil, err
	}
	if closed {
		if err := e.custody.MoveExact(custody.LoanEscrow, custody.BankVault, loan.CollateralAmount); err != nil {
			return nil, err
		}
	}
	if err := e.state.LoanPut(loan); err != nil {
		return nil, err
	}
	if err := e.state.BankingPut(account); err != nil {
		return nil, err
	}

	e.emitter.Emit(events.LoanRepaid{
		Loan:      loanID,
		Borrower:  borrower,
		Amount:    repayment,
		Remaining: totalDebt - repayment,
		Repaid:    closed,
		Timestamp: now,
	})
	return loan.Clone(), nil
}

// Liquidate seizes the full collateral of an unhealthy active loan and pays
// it to the liquidator's wallet. Any caller may liquidate once the health
// ratio drops below the loan's threshold.
func (e *Engine) Liquidate(liquidator crypto.Address, loanID crypto.RecordID) (*Loan, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.custody == nil {
		return nil, errNilCustody
	}
	if err := common.Guard(e.pauses); err != nil {
		return nil, err
	}

	loan, ok, err := e.state.LoanGet(loanID)
	if err != nil {
		return nil, err
	}
	if !ok || loan.Status != StatusActive {
		return nil, ErrLoanNotFound
	}

	now := e.nowFn()
	totalDebt, err := loan.TotalDebt(now)
	if err != nil {
		return nil, err
	}
	health, err := accrual.HealthRatio(loan.CollateralAmount, totalDebt)
	if err != nil {
		return nil, err
	}
	if health >= uint64(loan.LiquidationThreshold) {
		return nil, ErrUnderLiquidationThreshold
	}

	loan.Status = StatusLiquidated

	if err := e.custody.MoveExact(custody.LoanEscrow, custody.UserWallet(liquidator), loan.CollateralAmount); err != nil {
		return nil, err
	}
	if err := e.state.LoanPut(loan); err != nil {
		return nil, err
	}
	if e.tracker != nil {
		if err := e.tracker.ReduceValueLocked(loan.CollateralAmount); err != nil {
			return nil, err
		}
	}

	e.emitter.Emit(events.PositionLiquidated{
		Loan:             loanID,
		Borrower:         loan.Borrower,
		Liquidator:       liquidator,
		CollateralSeized: loan.CollateralAmount,
		HealthBps:        health,
		Timestamp:        now,
	})
	return loan.Clone(), nil
}

// Loan returns a copy of a position.
func (e *Engine) Loan(id crypto.RecordID) (*Loan, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	loan, ok, err := e.state.LoanGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLoanNotFound
	}
	return loan.Clone(), nil
}
