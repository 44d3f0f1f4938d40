package starknet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"

	"github.com/kkrt-labs/kakarot-go/internal/metrics"
)

// ErrContractNotFound is returned by ClassHashAt when no contract is deployed
// at the queried address.
var ErrContractNotFound = errors.New("contract not found")

const defaultPollInterval = 2 * time.Second

// Provider implements Client on top of a Starknet JSON-RPC endpoint.
type Provider struct {
	inner        *rpc.Provider
	pollInterval time.Duration
	metrics      *metrics.Metrics // nil if metrics disabled
}

var _ Client = (*Provider)(nil)

// ProviderOption configures the Provider.
type ProviderOption func(*Provider)

// WithMetrics enables metrics collection for the provider.
func WithMetrics(m *metrics.Metrics) ProviderOption {
	return func(p *Provider) {
		p.metrics = m
	}
}

// WithPollInterval overrides the confirmation polling interval.
func WithPollInterval(d time.Duration) ProviderOption {
	return func(p *Provider) {
		p.pollInterval = d
	}
}

// NewProvider creates a Client backed by the Starknet JSON-RPC node at url.
func NewProvider(url string, opts ...ProviderOption) (*Provider, error) {
	inner, err := rpc.NewProvider(url)
	if err != nil {
		return nil, fmt.Errorf("dial starknet rpc: %w", err)
	}

	p := &Provider{
		inner:        inner,
		pollInterval: defaultPollInterval,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// RPC exposes the underlying starknet.go provider for account construction.
func (p *Provider) RPC() *rpc.Provider {
	return p.inner
}

func (p *Provider) CallContract(ctx context.Context, call Call) ([]*felt.Felt, error) {
	const method = "CallContract"
	start := time.Now()

	if p.metrics != nil {
		p.metrics.IncRPCInFlight()
		defer p.metrics.DecRPCInFlight()
	}

	result, err := p.inner.Call(ctx, rpc.FunctionCall{
		ContractAddress:    call.To,
		EntryPointSelector: call.Selector,
		Calldata:           call.Calldata,
	}, rpc.WithBlockTag("latest"))

	if p.metrics != nil {
		p.metrics.RecordRPCCall(method, err, time.Since(start).Seconds())
	}

	if err != nil {
		return nil, fmt.Errorf("call contract %s: %w", call.To, err)
	}
	return result, nil
}

func (p *Provider) Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	const method = "Nonce"
	start := time.Now()

	if p.metrics != nil {
		p.metrics.IncRPCInFlight()
		defer p.metrics.DecRPCInFlight()
	}

	nonce, err := p.inner.Nonce(ctx, rpc.WithBlockTag("latest"), address)

	if p.metrics != nil {
		p.metrics.RecordRPCCall(method, err, time.Since(start).Seconds())
	}

	if err != nil {
		return nil, fmt.Errorf("get nonce of %s: %w", address, err)
	}
	return nonce, nil
}

func (p *Provider) ClassHashAt(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	const method = "ClassHashAt"
	start := time.Now()

	if p.metrics != nil {
		p.metrics.IncRPCInFlight()
		defer p.metrics.DecRPCInFlight()
	}

	hash, err := p.inner.ClassHashAt(ctx, rpc.WithBlockTag("latest"), address)

	if p.metrics != nil {
		p.metrics.RecordRPCCall(method, err, time.Since(start).Seconds())
	}

	if err != nil {
		if strings.Contains(err.Error(), "Contract not found") {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("get class hash at %s: %w", address, err)
	}
	return hash, nil
}

func (p *Provider) TransactionReceipt(ctx context.Context, hash *felt.Felt) (*Receipt, error) {
	const method = "TransactionReceipt"
	start := time.Now()

	if p.metrics != nil {
		p.metrics.IncRPCInFlight()
		defer p.metrics.DecRPCInFlight()
	}

	raw, err := p.inner.TransactionReceipt(ctx, hash)

	if p.metrics != nil {
		p.metrics.RecordRPCCall(method, err, time.Since(start).Seconds())
	}

	if err != nil {
		return nil, fmt.Errorf("get receipt of %s: %w", hash, err)
	}
	return mapReceipt(hash, raw)
}

// WaitForTransaction polls the node until the transaction hash resolves to a
// receipt. Polling errors are retried until the context is done; the last
// error seen is then wrapped into the returned error.
func (p *Provider) WaitForTransaction(ctx context.Context, hash *felt.Felt) error {
	t := time.NewTicker(p.pollInterval)
	defer t.Stop()

	var lastErr error
	for {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("wait for transaction %s: %w (last poll error: %v)", hash, ctx.Err(), lastErr)
			}
			return fmt.Errorf("wait for transaction %s: %w", hash, ctx.Err())

		case <-t.C:
			_, err := p.inner.TransactionReceipt(ctx, hash)
			if err == nil {
				return nil
			}
			lastErr = err
		}
	}
}

// mapReceipt converts the starknet.go receipt representation into the
// internal one, keeping only what the translation layer consumes.
func mapReceipt(hash *felt.Felt, raw rpc.TransactionReceipt) (*Receipt, error) {
	var events []rpc.Event

	switch r := raw.(type) {
	case rpc.InvokeTransactionReceipt:
		events = r.Events
	case *rpc.InvokeTransactionReceipt:
		events = r.Events
	case rpc.DeployAccountTransactionReceipt:
		events = r.Events
	case *rpc.DeployAccountTransactionReceipt:
		events = r.Events
	case rpc.L1HandlerTransactionReceipt:
		events = r.Events
	case *rpc.L1HandlerTransactionReceipt:
		events = r.Events
	default:
		return nil, fmt.Errorf("unexpected receipt type %T for transaction %s", raw, hash)
	}

	receipt := &Receipt{TransactionHash: hash, Events: make([]Event, 0, len(events))}
	for _, ev := range events {
		receipt.Events = append(receipt.Events, Event{
			FromAddress: ev.FromAddress,
			Keys:        ev.Keys,
			Data:        ev.Data,
		})
	}
	return receipt, nil
}
