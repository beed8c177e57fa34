package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics aggregates the prometheus collectors for ledger operations.
// Access it through Ledger(); collectors register once per process.
type LedgerMetrics struct {
	operations    *prometheus.CounterVec
	valueLocked   prometheus.Gauge
	activeLoans   prometheus.Gauge
	custodyMoves  *prometheus.CounterVec
	requestLength *prometheus.HistogramVec
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *LedgerMetrics
)

func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Count of ledger operations by module, method and outcome.",
			}, []string{"module", "method", "outcome"}),
			valueLocked: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "ledger_total_value_locked",
				Help: "Total value currently locked across all products.",
			}),
			activeLoans: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "ledger_active_loans",
				Help: "Number of loans currently in the active state.",
			}),
			custodyMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ledger_custody_moves_total",
				Help: "Count of custody transfers by destination bucket.",
			}, []string{"bucket"}),
			requestLength: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "ledger_rpc_duration_seconds",
				Help:    "Latency of RPC method handlers.",
				Buckets: prometheus.DefBuckets,
			}, []string{"method"}),
		}
		prometheus.MustRegister(
			ledgerRegistry.operations,
			ledgerRegistry.valueLocked,
			ledgerRegistry.activeLoans,
			ledgerRegistry.custodyMoves,
			ledgerRegistry.requestLength,
		)
	})
	return ledgerRegistry
}

// ObserveOperation records one completed operation. The outcome label is "ok"
// for success and "error" otherwise.
func (m *LedgerMetrics) ObserveOperation(module, method string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(module, method, outcome).Inc()
}

func (m *LedgerMetrics) SetValueLocked(amount float64) {
	if m == nil {
		return
	}
	m.valueLocked.Set(amount)
}

func (m *LedgerMetrics) AddActiveLoans(delta float64) {
	if m == nil {
		return
	}
	m.activeLoans.Add(delta)
}

func (m *LedgerMetrics) IncCustodyMove(bucket string) {
	if m == nil {
		return
	}
	if bucket == "" {
		bucket = "unknown"
	}
	m.custodyMoves.WithLabelValues(bucket).Inc()
}

func (m *LedgerMetrics) ObserveRequestDuration(method string, seconds float64) {
	if m == nil {
		return
	}
	m.requestLength.WithLabelValues(method).Observe(seconds)
}
