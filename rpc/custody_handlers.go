package rpc

import (
	"errors"
	"net/http"

	"bankvest/native/custody"
)

var errCustodyUnavailable = errors.New("custody administration not configured")

type custodyFundParams struct {
	Bucket string `json:"bucket"`
	Amount uint64 `json:"amount"`
}

type custodyBucketParams struct {
	Bucket string `json:"bucket"`
}

type CustodyBalanceResult struct {
	Bucket  string `json:"bucket"`
	Balance uint64 `json:"balance"`
}

// handleCustodyFund seeds liquidity into a platform bucket. Token value
// enters the custody ledger only here: the treasury backs loan disbursements,
// the company pool vesting claims, the pool vault staking rewards.
func (s *Server) handleCustodyFund(w http.ResponseWriter, req *RPCRequest) {
	var params custodyFundParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	bucket, err := custody.ParseAccount(params.Bucket)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if params.Amount == 0 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "amount required", nil)
		return
	}
	if s.engines.Custody == nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, errCustodyUnavailable.Error(), nil)
		return
	}

	s.mu.Lock()
	s.engines.Custody.Fund(bucket, params.Amount)
	balance := s.engines.Custody.BalanceOf(bucket)
	s.mu.Unlock()
	s.metrics.ObserveOperation("custody", "fund", nil)

	writeResult(w, req.ID, CustodyBalanceResult{Bucket: string(bucket), Balance: balance})
}

func (s *Server) handleCustodyBalance(w http.ResponseWriter, req *RPCRequest) {
	var params custodyBucketParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	bucket, err := custody.ParseAccount(params.Bucket)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if s.engines.Custody == nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, errCustodyUnavailable.Error(), nil)
		return
	}

	writeResult(w, req.ID, CustodyBalanceResult{Bucket: string(bucket), Balance: s.engines.Custody.BalanceOf(bucket)})
}
