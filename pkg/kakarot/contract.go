package kakarot

import (
	"context"
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
)

// Defaults mirror the Kakarot deployment scripts: gas is not priced natively,
// so limits are generous placeholders rather than estimates.
const (
	defaultCallGasLimit = 1_000_000_000
	defaultGasPrice     = 1_000
	deployGasLimit      = 1e18
)

// CallOptions tunes a read-only contract call.
type CallOptions struct {
	GasLimit uint64
	GasPrice uint64
	Value    *big.Int
	// Origin overrides the EVM caller address; zero value uses the sender's.
	Origin common.Address
}

// TxOptions tunes a state-mutating contract transaction.
type TxOptions struct {
	Gas    uint64
	Value  *big.Int
	MaxFee *felt.Felt
}

// Contract binds an ABI to an EVM address reachable through Kakarot. All
// methods dispatch through two shared routines: Call for pure/view functions
// (single native eth_call, local ABI decode) and Transact for state-mutating
// ones (full outbound packager path).
type Contract struct {
	Name            string
	ABI             abi.ABI
	Bytecode        []byte
	Address         common.Address
	StarknetAddress *felt.Felt

	kkrt   *Kakarot
	sender *Sender
}

// NewContract binds name's ABI and bytecode at address. sender supplies the
// caller identity for both call paths.
func NewContract(name string, contractABI abi.ABI, bytecode []byte, address common.Address, kkrt *Kakarot, sender *Sender) *Contract {
	return &Contract{
		Name:     name,
		ABI:      contractABI,
		Bytecode: bytecode,
		Address:  address,
		kkrt:     kkrt,
		sender:   sender,
	}
}

// Call invokes a pure/view method through the read-only eth_call entrypoint
// and ABI-decodes the return data. opts may be nil.
func (c *Contract) Call(ctx context.Context, opts *CallOptions, method string, args ...any) ([]any, error) {
	m, ok := c.ABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("contract %s has no method %q", c.Name, method)
	}
	if !m.IsConstant() {
		return nil, fmt.Errorf("method %q of %s is state-mutating, use Transact", method, c.Name)
	}

	calldata, err := c.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s.%s: %w", c.Name, method, err)
	}

	if opts == nil {
		opts = &CallOptions{}
	}
	origin := opts.Origin
	if origin == (common.Address{}) {
		origin = c.sender.EvmAddress()
	}
	gasLimit := opts.GasLimit
	if gasLimit == 0 {
		gasLimit = defaultCallGasLimit
	}
	gasPrice := opts.GasPrice
	if gasPrice == 0 {
		gasPrice = defaultGasPrice
	}

	ret, err := c.kkrt.EthCall(ctx, origin, c.Address, gasLimit, gasPrice, opts.Value, calldata)
	if err != nil {
		return nil, err
	}

	outs, err := m.Outputs.Unpack(ret)
	if err != nil {
		return nil, fmt.Errorf("decode %s.%s return data: %w", c.Name, method, err)
	}
	return outs, nil
}

// Transact invokes a state-mutating method through the outbound packager and
// waits for the receipt. An EVM-level revert is raised as an ExecutionError
// carrying the revert payload; it is never retried here. opts may be nil.
func (c *Contract) Transact(ctx context.Context, opts *TxOptions, method string, args ...any) (*starknet.Receipt, error) {
	m, ok := c.ABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("contract %s has no method %q", c.Name, method)
	}
	if m.IsConstant() {
		return nil, fmt.Errorf("method %q of %s is pure/view, use Call", method, c.Name)
	}

	calldata, err := c.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s.%s: %w", c.Name, method, err)
	}

	if opts == nil {
		opts = &TxOptions{}
	}
	gas := opts.Gas
	if gas == 0 {
		gas = defaultCallGasLimit
	}

	c.kkrt.log.Infow("executing contract method", "contract", c.Name, "address", c.Address, "method", method)
	receipt, outcome, err := c.sender.SendTransaction(ctx, TxRequest{
		To:     &c.Address,
		Data:   calldata,
		Gas:    gas,
		Value:  opts.Value,
		MaxFee: opts.MaxFee,
	})
	if err != nil {
		return nil, err
	}
	if !outcome.Success {
		c.kkrt.log.Errorw("contract method reverted", "contract", c.Name, "address", c.Address, "method", method)
		return nil, &ExecutionError{Response: outcome.Response}
	}
	return receipt, nil
}

// ParseStarknetEvents reconstructs Ethereum logs from native events and
// decodes them against this contract's ABI, grouped by event name.
func (c *Contract) ParseStarknetEvents(events []starknet.Event) map[string][]map[string]any {
	logs := ReconstructLogs(c.kkrt.Address(), events)
	if c.kkrt.metrics != nil {
		c.kkrt.metrics.LogsReconstructed(len(logs), len(events)-len(logs))
	}

	decoded := DecodeLogs(c.ABI, logs)
	if c.kkrt.metrics != nil {
		for name, matches := range decoded {
			for range matches {
				c.kkrt.metrics.EventDecoded(name)
			}
		}
	}
	return decoded
}

// Deploy creates a new EVM contract through Kakarot: constructor calldata is
// appended to the creation bytecode and submitted with a nil destination. The
// status event response carries the native and EVM addresses of the new
// contract.
func (k *Kakarot) Deploy(
	ctx context.Context,
	sender *Sender,
	name string,
	contractABI abi.ABI,
	bytecode []byte,
	opts *TxOptions,
	args ...any,
) (*Contract, error) {
	k.log.Infow("deploying contract", "contract", name)

	// Constructor arguments are packed and appended when given; callers with
	// pre-encoded constructor calldata append it to bytecode themselves.
	data := bytecode
	if len(args) > 0 {
		ctorArgs, err := contractABI.Pack("", args...)
		if err != nil {
			return nil, fmt.Errorf("pack %s constructor: %w", name, err)
		}
		data = append(append([]byte{}, bytecode...), ctorArgs...)
	}

	if opts == nil {
		opts = &TxOptions{}
	}
	gas := opts.Gas
	if gas == 0 {
		gas = deployGasLimit
	}

	receipt, outcome, err := sender.SendTransaction(ctx, TxRequest{
		To:     nil,
		Data:   data,
		Gas:    gas,
		Value:  opts.Value,
		MaxFee: opts.MaxFee,
	})
	if err != nil {
		return nil, err
	}
	if !outcome.Success {
		return nil, &ExecutionError{Response: outcome.Response}
	}

	// Contract creation responds with the native and EVM addresses.
	if len(outcome.Response) != 2 {
		return nil, fmt.Errorf("%w: contract creation returned %d values, want 2",
			ErrMalformedStatusEvent, len(outcome.Response))
	}
	address, ok := EvmAddressFromFelt(outcome.Response[1])
	if !ok {
		return nil, fmt.Errorf("%w: deployed evm address out of range", ErrMalformedStatusEvent)
	}

	contract := NewContract(name, contractABI, bytecode, address, k, sender)
	contract.StarknetAddress = outcome.Response[0]
	k.log.Infow("contract deployed",
		"contract", name,
		"address", address.Hex(),
		"starknetAddress", contract.StarknetAddress,
		"txHash", receipt.TransactionHash,
	)
	return contract, nil
}
