package rpc

import (
	"net/http"

	"bankvest/crypto"
	"bankvest/native/vesting"
)

type vestingCreateCompanyParams struct {
	Authority   string `json:"authority"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Asset       string `json:"asset"`
	TotalSupply uint64 `json:"totalSupply"`
}

type vestingCreateScheduleParams struct {
	Authority       string `json:"authority"`
	CompanyID       string `json:"companyId"`
	Beneficiary     string `json:"beneficiary"`
	TotalAmount     uint64 `json:"totalAmount"`
	StartTime       int64  `json:"startTime"`
	CliffDuration   int64  `json:"cliffDuration"`
	VestingDuration int64  `json:"vestingDuration"`
	VestingType     uint8  `json:"vestingType"`
}

type vestingClaimParams struct {
	Beneficiary string `json:"beneficiary"`
	ScheduleID  string `json:"scheduleId"`
}

type vestingRevokeParams struct {
	Authority  string `json:"authority"`
	ScheduleID string `json:"scheduleId"`
}

type vestingIDParams struct {
	ID string `json:"id"`
}

type VestingCompanyResult struct {
	ID                    string `json:"id"`
	Authority             string `json:"authority"`
	Name                  string `json:"name"`
	Symbol                string `json:"symbol"`
	Asset                 string `json:"asset"`
	TotalSupply           uint64 `json:"totalSupply"`
	AllocatedSupply       uint64 `json:"allocatedSupply"`
	EmployeesCount        uint64 `json:"employeesCount"`
	VestingSchedulesCount uint64 `json:"vestingSchedulesCount"`
	CreatedAt             int64  `json:"createdAt"`
}

type VestingScheduleResult struct {
	ID              string `json:"id"`
	Company         string `json:"company"`
	Beneficiary     string `json:"beneficiary"`
	Asset           string `json:"asset"`
	TotalAmount     uint64 `json:"totalAmount"`
	ClaimedAmount   uint64 `json:"claimedAmount"`
	StartTime       int64  `json:"startTime"`
	CliffDuration   int64  `json:"cliffDuration"`
	VestingDuration int64  `json:"vestingDuration"`
	VestingType     string `json:"vestingType"`
	Revoked         bool   `json:"revoked"`
	CreatedAt       int64  `json:"createdAt"`
	LastClaimed     int64  `json:"lastClaimed"`
}

type VestingClaimResult struct {
	ScheduleID string `json:"scheduleId"`
	Claimed    uint64 `json:"claimed"`
}

func vestingCompanyResult(company *vesting.Company) VestingCompanyResult {
	return VestingCompanyResult{
		ID:                    company.ID.Hex(),
		Authority:             company.Authority.String(),
		Name:                  company.Name,
		Symbol:                company.Symbol,
		Asset:                 company.Asset.String(),
		TotalSupply:           company.TotalSupply,
		AllocatedSupply:       company.AllocatedSupply,
		EmployeesCount:        company.EmployeesCount,
		VestingSchedulesCount: company.VestingSchedulesCount,
		CreatedAt:             company.CreatedAt,
	}
}

func vestingScheduleResult(schedule *vesting.Schedule) VestingScheduleResult {
	return VestingScheduleResult{
		ID:              schedule.ID.Hex(),
		Company:         schedule.Company.Hex(),
		Beneficiary:     schedule.Beneficiary.String(),
		Asset:           schedule.Asset.String(),
		TotalAmount:     schedule.TotalAmount,
		ClaimedAmount:   schedule.ClaimedAmount,
		StartTime:       schedule.StartTime,
		CliffDuration:   schedule.CliffDuration,
		VestingDuration: schedule.VestingDuration,
		VestingType:     schedule.VestingType.String(),
		Revoked:         schedule.Revoked,
		CreatedAt:       schedule.CreatedAt,
		LastClaimed:     schedule.LastClaimed,
	}
}

func (s *Server) handleVestingCreateCompany(w http.ResponseWriter, req *RPCRequest) {
	var params vestingCreateCompanyParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	authority, err := parseAddress("authority", params.Authority)
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
	company, err := s.engines.Vesting.CreateCompany(authority, params.Name, params.Symbol, asset, params.TotalSupply)
	s.mu.Unlock()
	s.metrics.ObserveOperation("vesting", "createCompany", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, vestingCompanyResult(company))
}

func (s *Server) handleVestingCreateSchedule(w http.ResponseWriter, req *RPCRequest) {
	var params vestingCreateScheduleParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	authority, err := parseAddress("authority", params.Authority)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	beneficiary, err := parseAddress("beneficiary", params.Beneficiary)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	companyID, err := crypto.ParseRecordID(params.CompanyID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}

	s.mu.Lock()
	schedule, err := s.engines.Vesting.CreateSchedule(
		authority,
		companyID,
		beneficiary,
		params.TotalAmount,
		params.StartTime,
		params.CliffDuration,
		params.VestingDuration,
		vesting.Type(params.VestingType),
	)
	s.mu.Unlock()
	s.metrics.ObserveOperation("vesting", "createSchedule", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, vestingScheduleResult(schedule))
}

func (s *Server) handleVestingClaim(w http.ResponseWriter, req *RPCRequest) {
	var params vestingClaimParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	beneficiary, err := parseAddress("beneficiary", params.Beneficiary)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	scheduleID, err := crypto.ParseRecordID(params.ScheduleID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}

	s.mu.Lock()
	claimed, err := s.engines.Vesting.Claim(beneficiary, scheduleID)
	s.mu.Unlock()
	s.metrics.ObserveOperation("vesting", "claim", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, VestingClaimResult{ScheduleID: scheduleID.Hex(), Claimed: claimed})
}

func (s *Server) handleVestingRevoke(w http.ResponseWriter, req *RPCRequest) {
	var params vestingRevokeParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	authority, err := parseAddress("authority", params.Authority)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	scheduleID, err := crypto.ParseRecordID(params.ScheduleID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}

	s.mu.Lock()
	err = s.engines.Vesting.Revoke(authority, scheduleID)
	s.mu.Unlock()
	s.metrics.ObserveOperation("vesting", "revoke", err)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"revoked": true})
}

func (s *Server) handleVestingGetCompany(w http.ResponseWriter, req *RPCRequest) {
	var params vestingIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	id, err := crypto.ParseRecordID(params.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	company, err := s.engines.Vesting.Company(id)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, vestingCompanyResult(company))
}

func (s *Server) handleVestingGetSchedule(w http.ResponseWriter, req *RPCRequest) {
	var params vestingIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	id, err := crypto.ParseRecordID(params.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	schedule, err := s.engines.Vesting.Schedule(id)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, vestingScheduleResult(schedule))
}
