package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAll(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	// Double registration against the same registry must fail.
	_, err = New(reg)
	require.Error(t, err)
}

func TestTxOutcome(t *testing.T) {
	t.Parallel()
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.TxSubmitted()
	m.TxOutcome(true)
	m.TxOutcome(false)
	m.TxOutcome(false)

	require.Equal(t, float64(1), testutil.ToFloat64(m.txSubmitted))
	require.Equal(t, float64(1), testutil.ToFloat64(m.txSucceeded))
	require.Equal(t, float64(2), testutil.ToFloat64(m.txReverted))
}

func TestLogCounters(t *testing.T) {
	t.Parallel()
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.LogsReconstructed(3, 2)
	m.EventDecoded("Transfer")
	m.EventDecoded("Transfer")

	require.Equal(t, float64(3), testutil.ToFloat64(m.logsReconstructed))
	require.Equal(t, float64(2), testutil.ToFloat64(m.logsFiltered))
	require.Equal(t, float64(2), testutil.ToFloat64(m.eventsDecoded.WithLabelValues("Transfer")))
}

func TestRPCCounters(t *testing.T) {
	t.Parallel()
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.IncRPCInFlight()
	m.IncRPCInFlight()
	m.DecRPCInFlight()
	require.Equal(t, float64(1), testutil.ToFloat64(m.rpcInFlight))

	m.RecordRPCCall("starknet_call", nil, 0.01)
	m.RecordRPCCall("starknet_call", nil, 0.02)
	m.RecordRPCCall("starknet_call", errors.New("timeout"), 0.5)
	require.Equal(t, float64(2), testutil.ToFloat64(m.rpcCalls.WithLabelValues("starknet_call", "success")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.rpcCalls.WithLabelValues("starknet_call", "error")))
}
