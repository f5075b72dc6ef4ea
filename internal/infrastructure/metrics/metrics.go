package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	TransactionsPosted   *prometheus.CounterVec
	EntriesPosted        *prometheus.CounterVec
	AccountsMaterialized *prometheus.CounterVec

	// Balance metrics
	BalanceFetches        *prometheus.CounterVec
	BalanceFetchDuration  *prometheus.HistogramVec
	ConsistencyViolations *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics on the given registerer.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_transactions_posted_total",
				Help: "Total number of transactions posted",
			},
			[]string{"ledger"},
		),
		EntriesPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_entries_posted_total",
				Help: "Total number of ledger entries posted",
			},
			[]string{"ledger"},
		),
		AccountsMaterialized: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_accounts_materialized_total",
				Help: "Total number of entity accounts created on first posting",
			},
			[]string{"ledger"},
		),

		BalanceFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_balance_fetches_total",
				Help: "Total number of account balance reconstructions",
			},
			[]string{"ledger"},
		),
		BalanceFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookkeeper_balance_fetch_duration_seconds",
				Help:    "Duration of account balance reconstruction",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"ledger"},
		),
		ConsistencyViolations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_consistency_violations_total",
				Help: "Total number of ledgers found with unequal debit and credit sums",
			},
			[]string{"ledger"},
		),
	}
}

// TransactionPosted records a committed posting.
func (m *Metrics) TransactionPosted(ledger string, entries int) {
	m.TransactionsPosted.WithLabelValues(ledger).Inc()
	m.EntriesPosted.WithLabelValues(ledger).Add(float64(entries))
}

// AccountMaterialized records an entity account created by a posting.
func (m *Metrics) AccountMaterialized(ledger string) {
	m.AccountsMaterialized.WithLabelValues(ledger).Inc()
}

// BalanceFetched records a balance reconstruction.
func (m *Metrics) BalanceFetched(ledger string, duration time.Duration) {
	m.BalanceFetches.WithLabelValues(ledger).Inc()
	m.BalanceFetchDuration.WithLabelValues(ledger).Observe(duration.Seconds())
}

// ConsistencyViolation records a ledger whose debits and credits disagree.
func (m *Metrics) ConsistencyViolation(ledger string) {
	m.ConsistencyViolations.WithLabelValues(ledger).Inc()
}
