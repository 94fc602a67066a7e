package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Ledger holds the movement counters. A nil *Ledger is a valid no-op.
type Ledger struct {
	movements  *prometheus.CounterVec
	txDuration *prometheus.HistogramVec
}

func NewLedger(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "movements_total",
			Help:      "Stock movements by kind and outcome.",
		}, []string{"kind", "outcome"}),
		txDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inventory",
			Name:      "movement_tx_seconds",
			Help:      "Duration of the movement transaction.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	reg.MustRegister(m.movements, m.txDuration)
	return m
}

func (m *Ledger) Observe(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.movements.WithLabelValues(kind, outcome).Inc()
	m.txDuration.WithLabelValues(kind).Observe(d.Seconds())
}
