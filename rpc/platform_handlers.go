package rpc

import (
	"net/http"

	"bankvest/native/platform"
)

type platformInitParams struct {
	Admin             string `json:"admin"`
	Treasury          string `json:"treasury"`
	TreasuryThreshold uint8  `json:"treasuryThreshold"`
}

type platformCallerParams struct {
	Caller string `json:"caller"`
}

type PlatformResult struct {
	Admin                 string `json:"admin"`
	Treasury              string `json:"treasury"`
	TreasuryThreshold     uint8  `json:"treasuryThreshold"`
	TotalCompanies        uint64 `json:"totalCompanies"`
	TotalVestingSchedules uint64 `json:"totalVestingSchedules"`
	TotalValueLocked      uint64 `json:"totalValueLocked"`
	Paused                bool   `json:"paused"`
	CreatedAt             int64  `json:"createdAt"`
}

func platformResult(p *platform.Platform) PlatformResult {
	return PlatformResult{
		Admin:                 p.Admin.String(),
		Treasury:              p.Treasury.String(),
		TreasuryThreshold:     p.TreasuryThreshold,
		TotalCompanies:        p.TotalCompanies,
		TotalVestingSchedules: p.TotalVestingSchedules,
		TotalValueLocked:      p.TotalValueLocked,
		Paused:                p.Paused,
		CreatedAt:             p.CreatedAt,
	}
}

func (s *Server) handlePlatformInit(w http.ResponseWriter, req *RPCRequest) {
	var params platformInitParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	admin, err := parseAddress("admin", params.Admin)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	treasury, err := parseAddress("treasury", params.Treasury)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	record, err := s.engines.Platform.Initialize(admin, treasury, params.TreasuryThreshold)
	s.mu.Unlock()
	s.metrics.ObserveOperation("platform", "init", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, platformResult(record))
}

func (s *Server) handlePlatformPause(w http.ResponseWriter, req *RPCRequest) {
	var params platformCallerParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	err = s.engines.Platform.Pause(caller)
	s.mu.Unlock()
	s.metrics.ObserveOperation("platform", "pause", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"paused": true})
}

func (s *Server) handlePlatformUnpause(w http.ResponseWriter, req *RPCRequest) {
	var params platformCallerParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	err = s.engines.Platform.Unpause(caller)
	s.mu.Unlock()
	s.metrics.ObserveOperation("platform", "unpause", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"paused": false})
}

func (s *Server) handlePlatformGet(w http.ResponseWriter, req *RPCRequest) {
	record, err := s.engines.Platform.Get()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	result := platformResult(record)
	s.metrics.SetValueLocked(float64(record.TotalValueLocked))
	writeResult(w, req.ID, result)
}
