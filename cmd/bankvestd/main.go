package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bankvest/config"
	"bankvest/core/events"
	"bankvest/crypto"
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
	"bankvest/rpc"
	"bankvest/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("BANKVEST_ENV"))

	cfg, err := config.Load(*configFile)
	if err != nil {
		logging.Setup(logging.Config{Service: "bankvestd", Env: env})
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	if env == "" {
		env = cfg.Env
	}

	logger := logging.Setup(logging.Config{
		Service:    "bankvestd",
		Env:        env,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})

	asset, err := cfg.Asset()
	if err != nil {
		logger.Error("failed to resolve asset address", slog.Any("error", err))
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to prepare data directory", slog.Any("error", err))
		os.Exit(1)
	}
	store, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	ledgerMetrics := metrics.Ledger()
	vault := meteredCustody{inner: custody.NewMemory(), metrics: ledgerMetrics}
	limits := common.AccountLimits{
		MaxVestingSchedules: cfg.Limits.MaxVestingSchedules,
		MaxActiveLoans:      cfg.Limits.MaxActiveLoans,
		MaxSavingsAccounts:  cfg.Limits.MaxSavingsAccounts,
	}

	audit := events.SlogEmitter{Log: logger.With("component", "audit")}

	platformEngine := platform.NewEngine()
	platformEngine.SetState(store)
	platformEngine.SetEmitter(audit)
	pauses := platform.NewPauseView(platformEngine)

	bankingEngine := banking.NewEngine(asset)
	bankingEngine.SetState(store)
	bankingEngine.SetCustody(vault)
	bankingEngine.SetValueTracker(platformEngine)
	bankingEngine.SetEmitter(audit)
	bankingEngine.SetPauses(pauses)

	vestingEngine := vesting.NewEngine()
	vestingEngine.SetState(store)
	vestingEngine.SetCustody(vault)
	vestingEngine.SetPlatform(platformEngine)
	vestingEngine.SetEmitter(audit)
	vestingEngine.SetPauses(pauses)
	vestingEngine.SetLimits(limits)

	lendingEngine := lending.NewEngine()
	lendingEngine.SetState(store)
	lendingEngine.SetCustody(vault)
	lendingEngine.SetAdminView(platformEngine)
	lendingEngine.SetValueTracker(platformEngine)
	lendingEngine.SetEmitter(audit)
	lendingEngine.SetPauses(pauses)
	lendingEngine.SetLimits(limits)

	stakingEngine := staking.NewEngine(stakingAuthority(platformEngine))
	stakingEngine.SetState(store)
	stakingEngine.SetCustody(vault)
	stakingEngine.SetValueTracker(platformEngine)
	stakingEngine.SetEmitter(audit)
	stakingEngine.SetPauses(pauses)

	savingsEngine := savings.NewEngine()
	savingsEngine.SetState(store)
	savingsEngine.SetCustody(vault)
	savingsEngine.SetValueTracker(platformEngine)
	savingsEngine.SetEmitter(audit)
	savingsEngine.SetPauses(pauses)
	savingsEngine.SetLimits(limits)

	server := rpc.NewServer(rpc.Engines{
		Platform: platformEngine,
		Banking:  bankingEngine,
		Vesting:  vestingEngine,
		Lending:  lendingEngine,
		Staking:  stakingEngine,
		Savings:  savingsEngine,
		Custody:  vault,
	}, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting JSON-RPC server", "remote", cfg.ListenAddress)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server terminated", slog.Any("error", err))
			os.Exit(1)
		}
	}
}

// stakingAuthority resolves the pool authority for lazily created staking
// pools. Before the platform record exists pools fall back to the zero
// address; the authority is recorded on pool creation only.
func stakingAuthority(engine *platform.Engine) crypto.Address {
	if record, err := engine.Get(); err == nil {
		return record.Admin
	}
	return crypto.Address{}
}

// meteredCustody counts settlement moves by destination bucket on top of the
// in-memory custody ledger.
type meteredCustody struct {
	inner   *custody.Memory
	metrics *metrics.LedgerMetrics
}

func (c meteredCustody) MoveExact(from, to custody.Account, amount uint64) error {
	err := c.inner.MoveExact(from, to, amount)
	if err == nil {
		c.metrics.IncCustodyMove(string(to))
	}
	return err
}

func (c meteredCustody) BalanceOf(account custody.Account) uint64 {
	return c.inner.BalanceOf(account)
}

// Fund seeds bucket liquidity through the admin RPC surface.
func (c meteredCustody) Fund(account custody.Account, amount uint64) {
	c.inner.Fund(account, amount)
}
