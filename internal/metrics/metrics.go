package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const Namespace = "kakarot"

type Metrics struct {
	// Transaction lifecycle
	txSubmitted prometheus.Counter
	txReverted  prometheus.Counter
	txSucceeded prometheus.Counter

	// Event reconstruction
	logsReconstructed prometheus.Counter
	logsFiltered      prometheus.Counter
	eventsDecoded     *prometheus.CounterVec

	// RPC metrics
	rpcCalls    *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
	rpcInFlight prometheus.Gauge
}

// New creates a new Metrics instance and registers all metrics with the provided registerer.
// Returns an error if any metric registration fails.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		txSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "transactions_submitted_total",
			Help:      "Total EVM transactions wrapped and submitted to the base chain",
		}),
		txReverted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "transactions_reverted_total",
			Help:      "Total submitted transactions that reverted at the EVM level",
		}),
		txSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "transactions_succeeded_total",
			Help:      "Total submitted transactions that succeeded at the EVM level",
		}),
		logsReconstructed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "logs_reconstructed_total",
			Help:      "Total native events reassembled into Ethereum logs",
		}),
		logsFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "logs_filtered_total",
			Help:      "Total native events rejected by the Kakarot origin filter",
		}),
		eventsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "events_decoded_total",
			Help:      "Total logs decoded per ABI event name",
		}, []string{"event"}),
		rpcCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "rpc",
			Name:      "calls_total",
			Help:      "Total RPC calls by method and status",
		}, []string{"method", "status"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "rpc",
			Name:      "duration_seconds",
			Help:      "RPC call duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		rpcInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "rpc",
			Name:      "in_flight",
			Help:      "Number of RPC calls currently in progress",
		}),
	}

	err := errors.Join(
		reg.Register(m.txSubmitted),
		reg.Register(m.txReverted),
		reg.Register(m.txSucceeded),
		reg.Register(m.logsReconstructed),
		reg.Register(m.logsFiltered),
		reg.Register(m.eventsDecoded),
		reg.Register(m.rpcCalls),
		reg.Register(m.rpcDuration),
		reg.Register(m.rpcInFlight),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// TxSubmitted records a wrapped EVM transaction being submitted.
func (m *Metrics) TxSubmitted() {
	m.txSubmitted.Inc()
}

// TxOutcome records the EVM-level outcome of a confirmed transaction.
func (m *Metrics) TxOutcome(success bool) {
	if success {
		m.txSucceeded.Inc()
	} else {
		m.txReverted.Inc()
	}
}

// LogsReconstructed records how many native events were kept and rejected by
// the origin filter in one reconstruction pass.
func (m *Metrics) LogsReconstructed(kept, filtered int) {
	m.logsReconstructed.Add(float64(kept))
	m.logsFiltered.Add(float64(filtered))
}

// EventDecoded records one decoded log for the named ABI event.
func (m *Metrics) EventDecoded(event string) {
	m.eventsDecoded.WithLabelValues(event).Inc()
}

// IncRPCInFlight increments the in-flight RPC gauge.
func (m *Metrics) IncRPCInFlight() {
	m.rpcInFlight.Inc()
}

// DecRPCInFlight decrements the in-flight RPC gauge.
func (m *Metrics) DecRPCInFlight() {
	m.rpcInFlight.Dec()
}

// RecordRPCCall records an RPC call outcome.
func (m *Metrics) RecordRPCCall(method string, err error, durationSeconds float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.rpcCalls.WithLabelValues(method, status).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(durationSeconds)
}
