package rpc

import (
	"net/http"

	"bankvest/crypto"
	"bankvest/native/savings"
)

type savingsCreateParams struct {
	Owner  string `json:"owner"`
	Asset  string `json:"asset"`
	APYBps uint16 `json:"apyBps"`
}

type savingsMoveParams struct {
	Owner     string `json:"owner"`
	AccountID string `json:"accountId"`
	Amount    uint64 `json:"amount"`
}

type savingsCompoundParams struct {
	AccountID string `json:"accountId"`
}

type savingsLockParams struct {
	Owner      string `json:"owner"`
	AccountID  string `json:"accountId"`
	UnlockTime int64  `json:"unlockTime"`
}

type savingsIDParams struct {
	ID string `json:"id"`
}

type SavingsAccountResult struct {
	ID                string `json:"id"`
	Owner             string `json:"owner"`
	Asset             string `json:"asset"`
	Balance           uint64 `json:"balance"`
	APYRateBps        uint16 `json:"apyRateBps"`
	CompoundFrequency uint8  `json:"compoundFrequency"`
	LastCompound      int64  `json:"lastCompound"`
	TotalEarned       uint64 `json:"totalEarned"`
	Locked            bool   `json:"locked"`
	UnlockTime        int64  `json:"unlockTime"`
	CreatedAt         int64  `json:"createdAt"`
}

type SavingsCompoundResult struct {
	AccountID string `json:"accountId"`
	Interest  uint64 `json:"interest"`
}

func savingsAccountResult(account *savings.Account) SavingsAccountResult {
	return SavingsAccountResult{
		ID:                account.ID.Hex(),
		Owner:             account.Owner.String(),
		Asset:             account.Asset.String(),
		Balance:           account.Balance,
		APYRateBps:        account.APYRateBps,
		CompoundFrequency: account.CompoundFrequency,
		LastCompound:      account.LastCompound,
		TotalEarned:       account.TotalEarned,
		Locked:            account.Locked,
		UnlockTime:        account.UnlockTime,
		CreatedAt:         account.CreatedAt,
	}
}

func (s *Server) handleSavingsCreate(w http.ResponseWriter, req *RPCRequest) {
	var params savingsCreateParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	asset, err := parseAddress("asset", params.Asset)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	account, err := s.engines.Savings.Create(owner, asset, params.APYBps)
	s.mu.Unlock()
	s.metrics.ObserveOperation("savings", "create", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, savingsAccountResult(account))
}

func (s *Server) handleSavingsDeposit(w http.ResponseWriter, req *RPCRequest) {
	var params savingsMoveParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	accountID, err := crypto.ParseRecordID(params.AccountID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}

	s.mu.Lock()
	account, err := s.engines.Savings.Deposit(owner, accountID, params.Amount)
	s.mu.Unlock()
	s.metrics.ObserveOperation("savings", "deposit", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, savingsAccountResult(account))
}

func (s *Server) handleSavingsWithdraw(w http.ResponseWriter, req *RPCRequest) {
	var params savingsMoveParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	accountID, err := crypto.ParseRecordID(params.AccountID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}

	s.mu.Lock()
	account, err := s.engines.Savings.Withdraw(owner, accountID, params.Amount)
	s.mu.Unlock()
	s.metrics.ObserveOperation("savings", "withdraw", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, savingsAccountResult(account))
}

func (s *Server) handleSavingsCompound(w http.ResponseWriter, req *RPCRequest) {
	var params savingsCompoundParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	accountID, err := crypto.ParseRecordID(params.AccountID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}

	s.mu.Lock()
	interest, err := s.engines.Savings.Compound(accountID)
	s.mu.Unlock()
	s.metrics.ObserveOperation("savings", "compound", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, SavingsCompoundResult{AccountID: accountID.Hex(), Interest: interest})
}

func (s *Server) handleSavingsLock(w http.ResponseWriter, req *RPCRequest) {
	var params savingsLockParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	accountID, err := crypto.ParseRecordID(params.AccountID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}

	s.mu.Lock()
	err = s.engines.Savings.Lock(owner, accountID, params.UnlockTime)
	s.mu.Unlock()
	s.metrics.ObserveOperation("savings", "lock", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"locked": true})
}

func (s *Server) handleSavingsGet(w http.ResponseWriter, req *RPCRequest) {
	var params savingsIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	id, err := crypto.ParseRecordID(params.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	account, err := s.engines.Savings.Account(id)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, savingsAccountResult(account))
}
