package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kkrt-labs/kakarot-go/internal/metrics"
	"github.com/kkrt-labs/kakarot-go/pkg/config"
	"github.com/kkrt-labs/kakarot-go/pkg/foundry"
	"github.com/kkrt-labs/kakarot-go/pkg/kakarot"
	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
	"github.com/kkrt-labs/kakarot-go/pkg/utils"
)

const metricsShutdownTimeout = 5 * time.Second

// runtime wires the provider, the Kakarot handle and their configuration for
// one command invocation.
type runtime struct {
	cfg        config.Config
	log        *zap.SugaredLogger
	provider   *starknet.Provider
	kkrt       *kakarot.Kakarot
	metrics    *metrics.Metrics
	metricsSrv *metrics.Server
}

func newRuntime(c *cli.Context) (*runtime, error) {
	log, err := utils.NewSugaredLogger(c.Bool("verbose"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cfg := buildConfig(c)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	var metricsSrv *metrics.Server
	if port := c.Int("metrics-port"); port > 0 {
		metricsSrv = metrics.NewServer(fmt.Sprintf(":%d", port), reg)
		errCh := metricsSrv.Start()
		go func() {
			if err := <-errCh; err != nil {
				log.Errorw("metrics server failed", "error", err)
			}
		}()
	}

	provider, err := starknet.NewProvider(cfg.RPCURL, starknet.WithMetrics(m))
	if err != nil {
		return nil, err
	}

	kakarotAddress, err := cfg.Kakarot()
	if err != nil {
		return nil, err
	}
	feeToken, err := cfg.FeeToken()
	if err != nil {
		return nil, err
	}

	// The deployer is optional: read-only commands work without it.
	var deployer starknet.Account
	if cfg.DeployerAddress != "" {
		address, key, err := cfg.Deployer()
		if err != nil {
			return nil, err
		}
		deployer, err = starknet.NewAccount(provider, provider, address, key)
		if err != nil {
			return nil, err
		}
	}

	accounts := func(address *felt.Felt, privateKey *big.Int) (starknet.Account, error) {
		return starknet.NewAccount(provider, provider, address, privateKey)
	}

	kkrt := kakarot.New(
		provider, kakarotAddress, feeToken, deployer, accounts, log,
		kakarot.WithKakarotMetrics(m),
	)

	return &runtime{
		cfg:        cfg,
		log:        log,
		provider:   provider,
		kkrt:       kkrt,
		metrics:    m,
		metricsSrv: metricsSrv,
	}, nil
}

func (r *runtime) Close() {
	if r.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := r.metricsSrv.Shutdown(ctx); err != nil {
			r.log.Errorw("metrics server shutdown failed", "error", err)
		}
	}
	_ = r.log.Desugar().Sync() //nolint:errcheck // best-effort flush; ignore sync errors
}

// foundry opens the artifact registry of the configured workspace.
func (r *runtime) foundry() (*foundry.Registry, error) {
	return foundry.NewRegistry(r.cfg.FoundryRoot)
}

// newSender ensures the caller EOA is deployed and funded, then builds the
// transaction packager around it.
func (r *runtime) newSender(ctx context.Context, c *cli.Context) (*kakarot.Sender, error) {
	key, err := r.cfg.EVMKey()
	if err != nil {
		return nil, err
	}

	funding, err := parseAmount(c.String("funding-wei"))
	if err != nil {
		return nil, fmt.Errorf("invalid funding-wei: %w", err)
	}

	eoa, err := r.kkrt.GetEOA(ctx, key, funding)
	if err != nil {
		return nil, fmt.Errorf("prepare caller eoa: %w", err)
	}

	return kakarot.NewSender(
		r.provider, eoa.Account, key, r.cfg.ChainID(), r.log,
		kakarot.WithSenderMetrics(r.metrics),
	), nil
}

// txOptions builds contract transaction options from CLI flags.
func txOptions(c *cli.Context) (*kakarot.TxOptions, error) {
	value, err := parseAmount(c.String("value"))
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	opts := &kakarot.TxOptions{
		Gas:   c.Uint64("gas"),
		Value: value,
	}
	if raw := c.String("max-fee"); raw != "" {
		fee, err := parseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid max-fee: %w", err)
		}
		opts.MaxFee = starknet.FeltFromBig(fee)
	}
	return opts, nil
}

// parseAmount parses a decimal or 0x-prefixed hex integer.
func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("not a non-negative integer: %q", s)
	}
	return v, nil
}
