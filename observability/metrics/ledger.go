package metrics

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type LedgerMetrics struct {
	transfersTotal   prometheus.Counter
	mintsTotal       prometheus.Counter
	feesCollected    prometheus.Counter
	poolBalance      prometheus.Gauge
	payoutsTotal     *prometheus.CounterVec
	scoreTransitions *prometheus.CounterVec
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *LedgerMetrics
)

func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			transfersTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "ledger_transfers_total",
				Help: "Count of applied transfers.",
			}),
			mintsTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "ledger_mints_total",
				Help: "Count of applied mint operations.",
			}),
			feesCollected: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "ledger_fees_collected_units",
				Help: "Token units routed into the redistribution pool.",
			}),
			poolBalance: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "ledger_redistribution_pool",
				Help: "Current undistributed fee pool in token units.",
			}),
			payoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ledger_redistribution_payouts_total",
				Help: "Count of batch payout evaluations by outcome.",
			}, []string{"outcome"}),
			scoreTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ledger_score_transitions_total",
				Help: "Count of participation score transitions by kind.",
			}, []string{"kind"}),
		}
		prometheus.MustRegister(
			ledgerRegistry.transfersTotal,
			ledgerRegistry.mintsTotal,
			ledgerRegistry.feesCollected,
			ledgerRegistry.poolBalance,
			ledgerRegistry.payoutsTotal,
			ledgerRegistry.scoreTransitions,
		)
	})
	return ledgerRegistry
}

func (m *LedgerMetrics) ObserveTransfer(fee *big.Int) {
	if m == nil {
		return
	}
	m.transfersTotal.Inc()
	if fee != nil && fee.Sign() > 0 {
		value, _ := new(big.Float).SetInt(fee).Float64()
		m.feesCollected.Add(value)
	}
}

func (m *LedgerMetrics) ObserveMint() {
	if m == nil {
		return
	}
	m.mintsTotal.Inc()
}

func (m *LedgerMetrics) SetPoolBalance(pool *big.Int) {
	if m == nil || pool == nil {
		return
	}
	value, _ := new(big.Float).SetInt(pool).Float64()
	m.poolBalance.Set(value)
}

func (m *LedgerMetrics) ObservePayout(eligible bool) {
	if m == nil {
		return
	}
	outcome := "paid"
	if !eligible {
		outcome = "skipped"
	}
	m.payoutsTotal.WithLabelValues(outcome).Inc()
}

func (m *LedgerMetrics) ObserveScoreTransition(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.scoreTransitions.WithLabelValues(kind).Inc()
}
