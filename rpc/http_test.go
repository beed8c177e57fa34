package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"bankvest/crypto"
	"bankvest/native/banking"
	"bankvest/native/common"
	"bankvest/native/custody"
	"bankvest/native/lending"
	"bankvest/native/platform"
	"bankvest/native/savings"
	"bankvest/native/staking"
	"bankvest/native/vesting"
	"bankvest/storage"
)

const (
	testNow   = int64(1_700_000_000)
	testToken = "test-secret"
)

type testEnv struct {
	router  http.Handler
	ledger  *custody.Memory
	admin   crypto.Address
	asset   crypto.Address
	user    crypto.Address
	company crypto.Address
}

func testAddr(b byte) crypto.Address {
	raw := make([]byte, crypto.AddressLength)
	raw[0] = b
	return crypto.MustNewAddress(raw)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("BANKVEST_RPC_TOKEN", testToken)

	store, err := storage.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ledger := custody.NewMemory()
	asset := testAddr(0xEE)
	admin := testAddr(1)
	now := func() int64 { return testNow }
	limits := common.AccountLimits{MaxVestingSchedules: 10, MaxActiveLoans: 5, MaxSavingsAccounts: 3}

	platformEngine := platform.NewEngine()
	platformEngine.SetState(store)
	platformEngine.SetNowFunc(now)
	pauses := platform.NewPauseView(platformEngine)

	bankingEngine := banking.NewEngine(asset)
	bankingEngine.SetState(store)
	bankingEngine.SetCustody(ledger)
	bankingEngine.SetValueTracker(platformEngine)
	bankingEngine.SetPauses(pauses)
	bankingEngine.SetNowFunc(now)

	vestingEngine := vesting.NewEngine()
	vestingEngine.SetState(store)
	vestingEngine.SetCustody(ledger)
	vestingEngine.SetPlatform(platformEngine)
	vestingEngine.SetPauses(pauses)
	vestingEngine.SetLimits(limits)
	vestingEngine.SetNowFunc(now)

	lendingEngine := lending.NewEngine()
	lendingEngine.SetState(store)
	lendingEngine.SetCustody(ledger)
	lendingEngine.SetAdminView(platformEngine)
	lendingEngine.SetValueTracker(platformEngine)
	lendingEngine.SetPauses(pauses)
	lendingEngine.SetLimits(limits)
	lendingEngine.SetNowFunc(now)

	stakingEngine := staking.NewEngine(admin)
	stakingEngine.SetState(store)
	stakingEngine.SetCustody(ledger)
	stakingEngine.SetValueTracker(platformEngine)
	stakingEngine.SetPauses(pauses)
	stakingEngine.SetNowFunc(now)

	savingsEngine := savings.NewEngine()
	savingsEngine.SetState(store)
	savingsEngine.SetCustody(ledger)
	savingsEngine.SetValueTracker(platformEngine)
	savingsEngine.SetPauses(pauses)
	savingsEngine.SetLimits(limits)
	savingsEngine.SetNowFunc(now)

	srv := NewServer(Engines{
		Platform: platformEngine,
		Banking:  bankingEngine,
		Vesting:  vestingEngine,
		Lending:  lendingEngine,
		Staking:  stakingEngine,
		Savings:  savingsEngine,
		Custody:  ledger,
	}, nil)

	return &testEnv{
		router:  srv.Router(),
		ledger:  ledger,
		admin:   admin,
		asset:   asset,
		user:    testAddr(2),
		company: testAddr(3),
	}
}

func (env *testEnv) call(t *testing.T, token, method string, params any) (int, RPCResponse) {
	t.Helper()
	payload := map[string]any{"jsonrpc": jsonRPCVersion, "id": 1, "method": method}
	if params != nil {
		payload["params"] = []any{params}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	var resp RPCResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, resp
}

func (env *testEnv) mustCall(t *testing.T, token, method string, params any) map[string]any {
	t.Helper()
	status, resp := env.call(t, token, method, params)
	if resp.Error != nil {
		t.Fatalf("%s failed: HTTP %d, rpc error %d %s", method, status, resp.Error.Code, resp.Error.Message)
	}
	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("%s: unexpected result shape %T", method, resp.Result)
	}
	return result
}

func (env *testEnv) initPlatform(t *testing.T) {
	t.Helper()
	env.mustCall(t, testToken, "platform_init", map[string]any{
		"admin":    env.admin.String(),
		"treasury": testAddr(4).String(),
	})
}

func TestUnknownMethod(t *testing.T) {
	env := newTestEnv(t)
	status, resp := env.call(t, "", "bank_fooBar", map[string]any{})
	if status != http.StatusNotFound {
		t.Fatalf("unexpected status %d", status)
	}
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected method-not-found error, got %+v", resp.Error)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestPlatformInitRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.call(t, "", "platform_init", map[string]any{
		"admin":    env.admin.String(),
		"treasury": testAddr(4).String(),
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", status)
	}
	if resp.Error == nil || resp.Error.Code != codeUnauthorized {
		t.Fatalf("expected unauthorized error, got %+v", resp.Error)
	}

	status, resp = env.call(t, "wrong-token", "platform_init", map[string]any{
		"admin":    env.admin.String(),
		"treasury": testAddr(4).String(),
	})
	if status != http.StatusUnauthorized || resp.Error == nil {
		t.Fatalf("expected rejection for bad token, got status %d %+v", status, resp.Error)
	}

	result := env.mustCall(t, testToken, "platform_init", map[string]any{
		"admin":    env.admin.String(),
		"treasury": testAddr(4).String(),
	})
	if result["admin"] != env.admin.String() {
		t.Fatalf("unexpected admin %v", result["admin"])
	}
}

func TestBankDepositWithdrawRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.initPlatform(t)

	result := env.mustCall(t, "", "bank_deposit", map[string]any{
		"owner":  env.user.String(),
		"amount": 5_000_000,
	})
	if result["balance"] != float64(5_000_000) {
		t.Fatalf("unexpected balance after deposit: %v", result["balance"])
	}

	result = env.mustCall(t, "", "bank_getAccount", map[string]any{"owner": env.user.String()})
	if result["balance"] != float64(5_000_000) {
		t.Fatalf("unexpected queried balance: %v", result["balance"])
	}

	status, resp := env.call(t, "", "bank_withdraw", map[string]any{
		"owner":  env.user.String(),
		"amount": 6_000_000,
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", status)
	}
	if resp.Error == nil || resp.Error.Code != codeInsufficient {
		t.Fatalf("expected insufficient-funds error, got %+v", resp.Error)
	}

	result = env.mustCall(t, "", "bank_withdraw", map[string]any{
		"owner":  env.user.String(),
		"amount": 2_000_000,
	})
	if result["balance"] != float64(3_000_000) {
		t.Fatalf("unexpected balance after withdrawal: %v", result["balance"])
	}
}

func TestPauseBlocksMutations(t *testing.T) {
	env := newTestEnv(t)
	env.initPlatform(t)

	env.mustCall(t, testToken, "platform_pause", map[string]any{"caller": env.admin.String()})

	status, resp := env.call(t, "", "bank_deposit", map[string]any{
		"owner":  env.user.String(),
		"amount": 1_000_000,
	})
	if status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d", status)
	}
	if resp.Error == nil || resp.Error.Code != codePaused {
		t.Fatalf("expected paused error, got %+v", resp.Error)
	}

	env.mustCall(t, testToken, "platform_unpause", map[string]any{"caller": env.admin.String()})
	env.mustCall(t, "", "bank_deposit", map[string]any{
		"owner":  env.user.String(),
		"amount": 1_000_000,
	})
}

func TestVestingLifecycleOverRPC(t *testing.T) {
	env := newTestEnv(t)
	env.initPlatform(t)
	env.ledger.Fund(custody.CompanyPool, 1_000_000)

	companyResult := env.mustCall(t, "", "vesting_createCompany", map[string]any{
		"authority":   env.company.String(),
		"name":        "Acme",
		"symbol":      "ACME",
		"asset":       env.asset.String(),
		"totalSupply": 1_000_000_000,
	})
	companyID, _ := companyResult["id"].(string)
	if companyID == "" {
		t.Fatalf("missing company id in %v", companyResult)
	}

	// Start one day back with no cliff so the grant is fully vested at the
	// fixed test clock.
	scheduleResult := env.mustCall(t, "", "vesting_createSchedule", map[string]any{
		"authority":       env.company.String(),
		"companyId":       companyID,
		"beneficiary":     env.user.String(),
		"totalAmount":     10_000,
		"startTime":       testNow - 86_400,
		"cliffDuration":   0,
		"vestingDuration": 86_400,
		"vestingType":     0,
	})
	scheduleID, _ := scheduleResult["id"].(string)
	if scheduleID == "" {
		t.Fatalf("missing schedule id in %v", scheduleResult)
	}

	claimResult := env.mustCall(t, "", "vesting_claim", map[string]any{
		"beneficiary": env.user.String(),
		"scheduleId":  scheduleID,
	})
	if claimResult["claimed"] != float64(10_000) {
		t.Fatalf("unexpected claim amount %v", claimResult["claimed"])
	}

	fetched := env.mustCall(t, "", "vesting_getSchedule", map[string]any{"id": scheduleID})
	if fetched["claimedAmount"] != float64(10_000) {
		t.Fatalf("claim not persisted: %v", fetched["claimedAmount"])
	}

	status, resp := env.call(t, "", "vesting_getSchedule", map[string]any{"id": "0xdeadbeef"})
	if status != http.StatusBadRequest || resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid-params for malformed id, got status %d %+v", status, resp.Error)
	}
}

func TestLendingRequiresAdminApproval(t *testing.T) {
	env := newTestEnv(t)
	env.initPlatform(t)
	env.ledger.Fund(custody.Treasury, 100_000_000)

	env.mustCall(t, "", "bank_deposit", map[string]any{
		"owner":  env.user.String(),
		"amount": 20_000_000,
	})

	loanResult := env.mustCall(t, "", "lending_create", map[string]any{
		"borrower":         env.user.String(),
		"asset":            env.asset.String(),
		"amount":           10_000_000,
		"collateralAmount": 15_000_000,
		"duration":         30 * 86_400,
	})
	loanID, _ := loanResult["id"].(string)
	if loanID == "" || loanResult["status"] != lending.StatusPending.String() {
		t.Fatalf("unexpected loan result %v", loanResult)
	}

	status, resp := env.call(t, "", "lending_approve", map[string]any{
		"caller": env.admin.String(),
		"loanId": loanID,
	})
	if status != http.StatusUnauthorized || resp.Error == nil {
		t.Fatalf("approve without token should fail, got status %d %+v", status, resp.Error)
	}

	approved := env.mustCall(t, testToken, "lending_approve", map[string]any{
		"caller": env.admin.String(),
		"loanId": loanID,
	})
	if approved["status"] != lending.StatusActive.String() {
		t.Fatalf("unexpected status after approval: %v", approved["status"])
	}
}

func TestCustodyFundOverRPC(t *testing.T) {
	env := newTestEnv(t)
	env.initPlatform(t)

	status, resp := env.call(t, "", "custody_fund", map[string]any{
		"bucket": string(custody.Treasury),
		"amount": 50_000_000,
	})
	if status != http.StatusUnauthorized || resp.Error == nil {
		t.Fatalf("funding without token should fail, got status %d %+v", status, resp.Error)
	}

	status, resp = env.call(t, testToken, "custody_fund", map[string]any{
		"bucket": "petty-cash",
		"amount": 1,
	})
	if status != http.StatusBadRequest || resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("unknown bucket should be rejected, got status %d %+v", status, resp.Error)
	}

	result := env.mustCall(t, testToken, "custody_fund", map[string]any{
		"bucket": string(custody.Treasury),
		"amount": 50_000_000,
	})
	if result["balance"] != float64(50_000_000) {
		t.Fatalf("unexpected balance after funding: %v", result["balance"])
	}

	result = env.mustCall(t, testToken, "custody_balance", map[string]any{
		"bucket": string(custody.Treasury),
	})
	if result["balance"] != float64(50_000_000) {
		t.Fatalf("unexpected queried balance: %v", result["balance"])
	}

	// The seeded treasury now backs a loan disbursement end to end.
	env.mustCall(t, "", "bank_deposit", map[string]any{
		"owner":  env.user.String(),
		"amount": 20_000_000,
	})
	loanResult := env.mustCall(t, "", "lending_create", map[string]any{
		"borrower":         env.user.String(),
		"asset":            env.asset.String(),
		"amount":           10_000_000,
		"collateralAmount": 15_000_000,
		"duration":         30 * 86_400,
	})
	approved := env.mustCall(t, testToken, "lending_approve", map[string]any{
		"caller": env.admin.String(),
		"loanId": loanResult["id"],
	})
	if approved["status"] != lending.StatusActive.String() {
		t.Fatalf("unexpected status after approval: %v", approved["status"])
	}
}

func TestBankTransferOverRPC(t *testing.T) {
	env := newTestEnv(t)
	env.initPlatform(t)
	recipient := testAddr(5)

	env.mustCall(t, "", "bank_deposit", map[string]any{
		"owner":  env.user.String(),
		"amount": 5_000_000,
	})

	result := env.mustCall(t, "", "bank_transfer", map[string]any{
		"from":   env.user.String(),
		"to":     recipient.String(),
		"amount": 2_000_000,
	})
	if result["balance"] != float64(3_000_000) {
		t.Fatalf("unexpected source balance: %v", result["balance"])
	}

	fetched := env.mustCall(t, "", "bank_getAccount", map[string]any{"owner": recipient.String()})
	if fetched["balance"] != float64(2_000_000) {
		t.Fatalf("recipient not credited: %v", fetched["balance"])
	}
}

func TestValueLockedTracksFlows(t *testing.T) {
	env := newTestEnv(t)
	env.initPlatform(t)

	env.mustCall(t, "", "bank_deposit", map[string]any{
		"owner":  env.user.String(),
		"amount": 5_000_000,
	})
	env.mustCall(t, "", "bank_withdraw", map[string]any{
		"owner":  env.user.String(),
		"amount": 2_000_000,
	})

	record := env.mustCall(t, "", "platform_get", nil)
	if record["totalValueLocked"] != float64(3_000_000) {
		t.Fatalf("unexpected tvl: %v", record["totalValueLocked"])
	}
}
