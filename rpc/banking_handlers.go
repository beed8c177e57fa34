package rpc

import (
	"net/http"

	"bankvest/native/banking"
)

type bankMoveParams struct {
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

type bankOwnerParams struct {
	Owner string `json:"owner"`
}

type bankTransferParams struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type BankAccountResult struct {
	Owner           string `json:"owner"`
	Balance         uint64 `json:"balance"`
	StakedAmount    uint64 `json:"stakedAmount"`
	EarnedInterest  uint64 `json:"earnedInterest"`
	AccountType     string `json:"accountType"`
	TierLevel       uint8  `json:"tierLevel"`
	LastInteraction int64  `json:"lastInteraction"`
}

type BankProfileResult struct {
	Owner                 string `json:"owner"`
	VestingSchedulesCount uint32 `json:"vestingSchedulesCount"`
	LoansCount            uint32 `json:"loansCount"`
	SavingsAccountsCount  uint32 `json:"savingsAccountsCount"`
	TotalPortfolioValue   uint64 `json:"totalPortfolioValue"`
	RiskScore             uint8  `json:"riskScore"`
	KYCVerified           bool   `json:"kycVerified"`
	CreatedAt             int64  `json:"createdAt"`
	LastActivity          int64  `json:"lastActivity"`
}

func bankAccountResult(account *banking.Account) BankAccountResult {
	return BankAccountResult{
		Owner:           account.Owner.String(),
		Balance:         account.Balance,
		StakedAmount:    account.StakedAmount,
		EarnedInterest:  account.EarnedInterest,
		AccountType:     account.AccountType.String(),
		TierLevel:       account.TierLevel,
		LastInteraction: account.LastInteraction,
	}
}

func (s *Server) handleBankDeposit(w http.ResponseWriter, req *RPCRequest) {
	var params bankMoveParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	account, err := s.engines.Banking.Deposit(owner, params.Amount)
	s.mu.Unlock()
	s.metrics.ObserveOperation("banking", "deposit", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, bankAccountResult(account))
}

func (s *Server) handleBankWithdraw(w http.ResponseWriter, req *RPCRequest) {
	var params bankMoveParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	account, err := s.engines.Banking.Withdraw(owner, params.Amount)
	s.mu.Unlock()
	s.metrics.ObserveOperation("banking", "withdraw", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, bankAccountResult(account))
}

func (s *Server) handleBankTransfer(w http.ResponseWriter, req *RPCRequest) {
	var params bankTransferParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	from, err := parseAddress("from", params.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	to, err := parseAddress("to", params.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	account, err := s.engines.Banking.Transfer(from, to, params.Amount)
	s.mu.Unlock()
	s.metrics.ObserveOperation("banking", "transfer", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, bankAccountResult(account))
}

func (s *Server) handleBankGetAccount(w http.ResponseWriter, req *RPCRequest) {
	var params bankOwnerParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	account, err := s.engines.Banking.Account(owner)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, bankAccountResult(account))
}

func (s *Server) handleBankGetProfile(w http.ResponseWriter, req *RPCRequest) {
	var params bankOwnerParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	profile, err := s.engines.Banking.Profile(owner)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, BankProfileResult{
		Owner:                 profile.Owner.String(),
		VestingSchedulesCount: profile.VestingSchedulesCount,
		LoansCount:            profile.LoansCount,
		SavingsAccountsCount:  profile.SavingsAccountsCount,
		TotalPortfolioValue:   profile.TotalPortfolioValue,
		RiskScore:             profile.RiskScore,
		KYCVerified:           profile.KYCVerified,
		CreatedAt:             profile.CreatedAt,
		LastActivity:          profile.LastActivity,
	})
}
