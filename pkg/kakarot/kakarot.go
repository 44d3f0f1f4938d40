package kakarot

import (
	"context"
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/kkrt-labs/kakarot-go/internal/metrics"
	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
)

// AccountFactory builds a native account bound to the given address and
// signing key. It decouples EOA construction from the concrete provider.
type AccountFactory func(address *felt.Felt, privateKey *big.Int) (starknet.Account, error)

// Kakarot is a handle on the Kakarot system contract: the read-only EVM call
// entrypoint, EOA deployment, funding and bytecode inspection.
type Kakarot struct {
	client   starknet.Client
	address  *felt.Felt
	feeToken *felt.Felt
	deployer starknet.Account
	accounts AccountFactory
	log      *zap.SugaredLogger
	metrics  *metrics.Metrics // nil if metrics disabled
}

// KakarotOption configures the handle.
type KakarotOption func(*Kakarot)

// WithKakarotMetrics enables metrics collection.
func WithKakarotMetrics(m *metrics.Metrics) KakarotOption {
	return func(k *Kakarot) {
		k.metrics = m
	}
}

// New creates a handle on the Kakarot system contract deployed at address.
// deployer is a funded native account used for EOA deployment and funding;
// feeToken is the native ERC20 used to fund accounts.
func New(
	client starknet.Client,
	address *felt.Felt,
	feeToken *felt.Felt,
	deployer starknet.Account,
	accounts AccountFactory,
	log *zap.SugaredLogger,
	opts ...KakarotOption,
) *Kakarot {
	k := &Kakarot{
		client:   client,
		address:  address,
		feeToken: feeToken,
		deployer: deployer,
		accounts: accounts,
		log:      log,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Address returns the native address of the Kakarot system contract.
func (k *Kakarot) Address() *felt.Felt {
	return k.address
}

// EthCall runs a read-only EVM call through the Kakarot eth_call entrypoint
// and returns the raw return bytes. Zero gasLimit and gasPrice fall back to
// generous defaults. A reverted call raises an ExecutionError carrying the
// revert payload.
func (k *Kakarot) EthCall(
	ctx context.Context,
	origin common.Address,
	to common.Address,
	gasLimit, gasPrice uint64,
	value *big.Int,
	data []byte,
) ([]byte, error) {
	if value == nil {
		value = new(big.Int)
	}
	if gasLimit == 0 {
		gasLimit = defaultCallGasLimit
	}
	if gasPrice == 0 {
		gasPrice = defaultGasPrice
	}

	calldata := make([]*felt.Felt, 0, 6+len(data))
	calldata = append(calldata,
		FeltFromEvmAddress(origin),
		FeltFromEvmAddress(to),
		starknet.FeltFromUint64(gasLimit),
		starknet.FeltFromUint64(gasPrice),
		starknet.FeltFromBig(value),
		starknet.FeltFromUint64(uint64(len(data))),
	)
	calldata = append(calldata, BytesToFelts(data)...)

	ret, err := k.client.CallContract(ctx, starknet.Call{
		To:       k.address,
		Selector: starknet.SelectorEthCall,
		Calldata: calldata,
	})
	if err != nil {
		return nil, err
	}

	// Result layout: [return_data_len, return_data..., success].
	if len(ret) < 2 {
		return nil, fmt.Errorf("%w: only %d values", ErrMalformedCallResult, len(ret))
	}
	declared := starknet.FeltToBig(ret[0])
	actual := len(ret) - 2
	if !declared.IsUint64() || declared.Uint64() != uint64(actual) {
		return nil, fmt.Errorf("%w: declared %s, got %d", ErrMalformedCallResult, declared, actual)
	}

	response := ret[1 : len(ret)-1]
	if ret[len(ret)-1].IsZero() {
		return nil, &ExecutionError{Response: response}
	}
	return FeltsToBytes(response)
}
