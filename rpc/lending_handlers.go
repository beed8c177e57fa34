package rpc

import (
	"net/http"

	"bankvest/crypto"
	"bankvest/native/lending"
)

type lendingCreateParams struct {
	Borrower         string `json:"borrower"`
	Asset            string `json:"asset"`
	Amount           uint64 `json:"amount"`
	CollateralAmount uint64 `json:"collateralAmount"`
	Duration         int64  `json:"duration"`
}

type lendingApproveParams struct {
	Caller string `json:"caller"`
	LoanID string `json:"loanId"`
}

type lendingRepayParams struct {
	Borrower string `json:"borrower"`
	LoanID   string `json:"loanId"`
	Amount   uint64 `json:"amount"`
}

type lendingLiquidateParams struct {
	Liquidator string `json:"liquidator"`
	LoanID     string `json:"loanId"`
}

type lendingIDParams struct {
	ID string `json:"id"`
}

type LendingLoanResult struct {
	ID                   string `json:"id"`
	Borrower             string `json:"borrower"`
	Asset                string `json:"asset"`
	Amount               uint64 `json:"amount"`
	CollateralAmount     uint64 `json:"collateralAmount"`
	InterestRateBps      uint16 `json:"interestRateBps"`
	Duration             int64  `json:"duration"`
	StartTime            int64  `json:"startTime"`
	Status               string `json:"status"`
	LiquidationThreshold uint16 `json:"liquidationThreshold"`
	RepaidAmount         uint64 `json:"repaidAmount"`
	CreatedAt            int64  `json:"createdAt"`
}

func lendingLoanResult(loan *lending.Loan) LendingLoanResult {
	return LendingLoanResult{
		ID:                   loan.ID.Hex(),
		Borrower:             loan.Borrower.String(),
		Asset:                loan.Asset.String(),
		Amount:               loan.Amount,
		CollateralAmount:     loan.CollateralAmount,
		InterestRateBps:      loan.InterestRateBps,
		Duration:             loan.Duration,
		StartTime:            loan.StartTime,
		Status:               loan.Status.String(),
		LiquidationThreshold: loan.LiquidationThreshold,
		RepaidAmount:         loan.RepaidAmount,
		CreatedAt:            loan.CreatedAt,
	}
}

func (s *Server) handleLendingCreate(w http.ResponseWriter, req *RPCRequest) {
	var params lendingCreateParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	borrower, err := parseAddress("borrower", params.Borrower)
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
	loan, err := s.engines.Lending.Create(borrower, asset, params.Amount, params.CollateralAmount, params.Duration)
	s.mu.Unlock()
	s.metrics.ObserveOperation("lending", "create", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, lendingLoanResult(loan))
}

func (s *Server) handleLendingApprove(w http.ResponseWriter, req *RPCRequest) {
	var params lendingApproveParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	loanID, err := crypto.ParseRecordID(params.LoanID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}

	s.mu.Lock()
	loan, err := s.engines.Lending.Approve(caller, loanID)
	s.mu.Unlock()
	s.metrics.ObserveOperation("lending", "approve", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	s.metrics.AddActiveLoans(1)
	writeResult(w, req.ID, lendingLoanResult(loan))
}

func (s *Server) handleLendingRepay(w http.ResponseWriter, req *RPCRequest) {
	var params lendingRepayParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	borrower, err := parseAddress("borrower", params.Borrower)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	loanID, err := crypto.ParseRecordID(params.LoanID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}

	s.mu.Lock()
	loan, err := s.engines.Lending.Repay(borrower, loanID, params.Amount)
	s.mu.Unlock()
	s.metrics.ObserveOperation("lending", "repay", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	if loan.Status == lending.StatusRepaid {
		s.metrics.AddActiveLoans(-1)
	}
	writeResult(w, req.ID, lendingLoanResult(loan))
}

func (s *Server) handleLendingLiquidate(w http.ResponseWriter, req *RPCRequest) {
	var params lendingLiquidateParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	liquidator, err := parseAddress("liquidator", params.Liquidator)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	loanID, err := crypto.ParseRecordID(params.LoanID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}

	s.mu.Lock()
	loan, err := s.engines.Lending.Liquidate(liquidator, loanID)
	s.mu.Unlock()
	s.metrics.ObserveOperation("lending", "liquidate", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	s.metrics.AddActiveLoans(-1)
	writeResult(w, req.ID, lendingLoanResult(loan))
}

func (s *Server) handleLendingGet(w http.ResponseWriter, req *RPCRequest) {
	var params lendingIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	id, err := crypto.ParseRecordID(params.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	loan, err := s.engines.Lending.Loan(id)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, lendingLoanResult(loan))
}
