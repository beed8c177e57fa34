package rpc

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bankvest/crypto"
	"bankvest/native/accrual"
	"bankvest/native/banking"
	"bankvest/native/common"
	"bankvest/native/custody"
	"bankvest/native/lending"
	"bankvest/native/platform"
	"bankvest/native/savings"
	"bankvest/native/staking"
	"bankvest/native/vesting"
	"bankvest/observability/logging"
	"bankvest/observability/metrics"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
	codeUnauthorized   = -32001
	codeNotFound       = -32004
	codeConflict       = -32010
	codePaused         = -32020
	codeInsufficient   = -32030
)

// CustodyAdmin is the slice of the custody ledger the admin RPC surface
// manages directly: seeding bucket liquidity and inspecting holdings.
type CustodyAdmin interface {
	Fund(account custody.Account, amount uint64)
	BalanceOf(account custody.Account) uint64
}

// Engines bundles the ledger engines the server routes requests to.
type Engines struct {
	Platform *platform.Engine
	Banking  *banking.Engine
	Vesting  *vesting.Engine
	Lending  *lending.Engine
	Staking  *staking.Engine
	Savings  *savings.Engine
	Custody  CustodyAdmin
}

// Server exposes the ledger engines over JSON-RPC 2.0. Mutating methods are
// serialized behind a single mutex: the engines apply state changes as plain
// sequential puts and rely on the server for write exclusion.
type Server struct {
	log     *slog.Logger
	metrics *metrics.LedgerMetrics

	mu      sync.Mutex
	engines Engines

	authToken string
}

// NewServer builds a server around the supplied engines. The admin bearer
// token is read from BANKVEST_RPC_TOKEN; admin methods are rejected until it
// is configured.
func NewServer(engines Engines, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		log:       log,
		metrics:   metrics.Ledger(),
		engines:   engines,
		authToken: strings.TrimSpace(os.Getenv("BANKVEST_RPC_TOKEN")),
	}
}

// Router returns the HTTP handler tree: JSON-RPC at the root plus the health
// and metrics endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/", s.handle)
	return r
}

// Start serves the router until the listener fails.
func (s *Server) Start(addr string) error {
	s.log.Info("starting JSON-RPC server", "remote", addr)
	return http.ListenAndServe(addr, s.Router())
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeEngineError maps engine sentinels to JSON-RPC error codes.
func writeEngineError(w http.ResponseWriter, id interface{}, err error) {
	code := errorCode(err)
	writeError(w, httpStatusFor(code), id, code, err.Error(), nil)
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		return codeUnauthorized
	case errors.Is(err, common.ErrPlatformPaused):
		return codePaused
	case errors.Is(err, platform.ErrNotInitialized),
		errors.Is(err, banking.ErrAccountNotFound),
		errors.Is(err, vesting.ErrCompanyNotFound),
		errors.Is(err, vesting.ErrScheduleNotFound),
		errors.Is(err, lending.ErrLoanNotFound),
		errors.Is(err, savings.ErrAccountNotFound),
		errors.Is(err, staking.ErrPoolInactive):
		return codeNotFound
	case errors.Is(err, platform.ErrAlreadyInitialized),
		errors.Is(err, vesting.ErrCompanyAlreadyExists),
		errors.Is(err, lending.ErrLoanAlreadyExists),
		errors.Is(err, savings.ErrAccountAlreadyExists):
		return codeConflict
	case errors.Is(err, common.ErrInsufficientBalance),
		errors.Is(err, custody.ErrInsufficientFunds):
		return codeInsufficient
	case errors.Is(err, common.ErrInvalidAmount),
		errors.Is(err, common.ErrInvalidTimestamp),
		errors.Is(err, common.ErrLimitExceeded),
		errors.Is(err, accrual.ErrInvalidVestingParameters),
		errors.Is(err, accrual.ErrInvalidAPYRate),
		errors.Is(err, accrual.ErrInsufficientCollateral),
		errors.Is(err, custody.ErrUnknownAccount),
		errors.Is(err, crypto.ErrInvalidRecordID):
		return codeInvalidParams
	default:
		return codeServerError
	}
}

func httpStatusFor(code int) int {
	switch code {
	case codeUnauthorized:
		return http.StatusUnauthorized
	case codeNotFound:
		return http.StatusNotFound
	case codeConflict:
		return http.StatusConflict
	case codePaused:
		return http.StatusServiceUnavailable
	case codeInsufficient:
		return http.StatusUnprocessableEntity
	case codeInvalidParams, codeInvalidRequest, codeParseError:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// handle is the main request handler that routes to module handlers.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	requestID := uuid.NewString()
	started := time.Now()
	s.log.Debug("rpc request", "request_id", requestID, "method", req.Method, "remote", r.RemoteAddr)
	defer func() {
		s.metrics.ObserveRequestDuration(req.Method, time.Since(started).Seconds())
	}()

	switch req.Method {
	case "bank_deposit":
		s.handleBankDeposit(w, req)
	case "bank_withdraw":
		s.handleBankWithdraw(w, req)
	case "bank_transfer":
		s.handleBankTransfer(w, req)
	case "bank_getAccount":
		s.handleBankGetAccount(w, req)
	case "bank_getProfile":
		s.handleBankGetProfile(w, req)
	case "vesting_createCompany":
		s.handleVestingCreateCompany(w, req)
	case "vesting_createSchedule":
		s.handleVestingCreateSchedule(w, req)
	case "vesting_claim":
		s.handleVestingClaim(w, req)
	case "vesting_revoke":
		s.handleVestingRevoke(w, req)
	case "vesting_getCompany":
		s.handleVestingGetCompany(w, req)
	case "vesting_getSchedule":
		s.handleVestingGetSchedule(w, req)
	case "lending_create":
		s.handleLendingCreate(w, req)
	case "lending_approve":
		if authErr := s.requireAuth(r, requestID); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleLendingApprove(w, req)
	case "lending_repay":
		s.handleLendingRepay(w, req)
	case "lending_liquidate":
		s.handleLendingLiquidate(w, req)
	case "lending_get":
		s.handleLendingGet(w, req)
	case "staking_stake":
		s.handleStakingStake(w, req)
	case "staking_unstake":
		s.handleStakingUnstake(w, req)
	case "staking_getPool":
		s.handleStakingGetPool(w, req)
	case "savings_create":
		s.handleSavingsCreate(w, req)
	case "savings_deposit":
		s.handleSavingsDeposit(w, req)
	case "savings_withdraw":
		s.handleSavingsWithdraw(w, req)
	case "savings_compound":
		s.handleSavingsCompound(w, req)
	case "savings_lock":
		s.handleSavingsLock(w, req)
	case "savings_get":
		s.handleSavingsGet(w, req)
	case "platform_init":
		if authErr := s.requireAuth(r, requestID); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handlePlatformInit(w, req)
	case "platform_pause":
		if authErr := s.requireAuth(r, requestID); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handlePlatformPause(w, req)
	case "platform_unpause":
		if authErr := s.requireAuth(r, requestID); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handlePlatformUnpause(w, req)
	case "platform_get":
		s.handlePlatformGet(w, req)
	case "custody_fund":
		if authErr := s.requireAuth(r, requestID); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleCustodyFund(w, req)
	case "custody_balance":
		if authErr := s.requireAuth(r, requestID); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleCustodyBalance(w, req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("unknown method %s", req.Method), nil)
	}
}

func (s *Server) requireAuth(r *http.Request, requestID string) *RPCError {
	if s.authToken == "" {
		return &RPCError{Code: codeUnauthorized, Message: "RPC authentication token not configured"}
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing Authorization header"}
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return &RPCError{Code: codeUnauthorized, Message: "Authorization header must use Bearer scheme"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
		s.log.Warn("rejected RPC credentials",
			"request_id", requestID,
			logging.MaskField("token", token),
		)
		return &RPCError{Code: codeUnauthorized, Message: "invalid RPC credentials"}
	}
	return nil
}

func decodeParams(req *RPCRequest, out any) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("parameter object required")
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return fmt.Errorf("invalid parameter object: %w", err)
	}
	return nil
}

func parseAddress(field, value string) (crypto.Address, error) {
	addr, err := crypto.DecodeAddress(value)
	if err != nil {
		return crypto.Address{}, fmt.Errorf("invalid %s address: %w", field, err)
	}
	return addr, nil
}
