package rpc

import (
	"net/http"

	"bankvest/native/staking"
)

type stakingMoveParams struct {
	User   string `json:"user"`
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

type stakingPoolParams struct {
	Asset string `json:"asset"`
}

type StakingPoolResult struct {
	Asset        string `json:"asset"`
	Authority    string `json:"authority"`
	TotalStaked  uint64 `json:"totalStaked"`
	TotalRewards uint64 `json:"totalRewards"`
	APYRateBps   uint16 `json:"apyRateBps"`
	LockDuration int64  `json:"lockDuration"`
	Active       bool   `json:"active"`
	CreatedAt    int64  `json:"createdAt"`
}

type StakingUnstakeResult struct {
	Withdrawn uint64 `json:"withdrawn"`
}

func stakingPoolResult(pool *staking.Pool) StakingPoolResult {
	return StakingPoolResult{
		Asset:        pool.Asset.String(),
		Authority:    pool.Authority.String(),
		TotalStaked:  pool.TotalStaked,
		TotalRewards: pool.TotalRewards,
		APYRateBps:   pool.APYRateBps,
		LockDuration: pool.LockDuration,
		Active:       pool.Active,
		CreatedAt:    pool.CreatedAt,
	}
}

func (s *Server) handleStakingStake(w http.ResponseWriter, req *RPCRequest) {
	var params stakingMoveParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	user, err := parseAddress("user", params.User)
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
	pool, err := s.engines.Staking.Stake(user, asset, params.Amount)
	s.mu.Unlock()
	s.metrics.ObserveOperation("staking", "stake", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, stakingPoolResult(pool))
}

func (s *Server) handleStakingUnstake(w http.ResponseWriter, req *RPCRequest) {
	var params stakingMoveParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	user, err := parseAddress("user", params.User)
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
	withdrawn, err := s.engines.Staking.Unstake(user, asset, params.Amount)
	s.mu.Unlock()
	s.metrics.ObserveOperation("staking", "unstake", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, StakingUnstakeResult{Withdrawn: withdrawn})
}

func (s *Server) handleStakingGetPool(w http.ResponseWriter, req *RPCRequest) {
	var params stakingPoolParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	asset, err := parseAddress("asset", params.Asset)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	pool, err := s.engines.Staking.Pool(asset)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, stakingPoolResult(pool))
}
