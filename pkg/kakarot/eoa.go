package kakarot

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
)

// EOA is an externally owned account: an EVM identity backed by a dedicated
// Starknet account contract deployed through Kakarot.
type EOA struct {
	Address         common.Address
	StarknetAddress *felt.Felt
	PrivateKey      *ecdsa.PrivateKey
	Account         starknet.Account
}

// ComputeStarknetAddress asks Kakarot for the deterministic native address
// backing the given EVM address.
func (k *Kakarot) ComputeStarknetAddress(ctx context.Context, address common.Address) (*felt.Felt, error) {
	ret, err := k.client.CallContract(ctx, starknet.Call{
		To:       k.address,
		Selector: starknet.SelectorComputeStarknetAddress,
		Calldata: []*felt.Felt{FeltFromEvmAddress(address)},
	})
	if err != nil {
		return nil, err
	}
	if len(ret) != 1 {
		return nil, fmt.Errorf("compute_starknet_address returned %d values, want 1", len(ret))
	}
	return ret[0], nil
}

// ContractExists reports whether a contract is deployed at the native address.
func (k *Kakarot) ContractExists(ctx context.Context, address *felt.Felt) (bool, error) {
	_, err := k.client.ClassHashAt(ctx, address)
	if errors.Is(err, starknet.ErrContractNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FundStarknetAddress transfers amount (in fee token base units) from the
// deployer account to the given native address.
func (k *Kakarot) FundStarknetAddress(ctx context.Context, address *felt.Felt, amount *big.Int) error {
	low, high := SplitUint256(amount)
	txHash, err := k.deployer.Execute(ctx, []starknet.Call{{
		To:       k.feeToken,
		Selector: starknet.SelectorTransfer,
		Calldata: []*felt.Felt{address, low, high},
	}}, DefaultMaxFee)
	if err != nil {
		return fmt.Errorf("transfer %s to %s: %w", amount, address, err)
	}
	return k.client.WaitForTransaction(ctx, txHash)
}

// FundAddress funds the native account backing the given EVM address.
func (k *Kakarot) FundAddress(ctx context.Context, address common.Address, amount *big.Int) error {
	starknetAddress, err := k.ComputeStarknetAddress(ctx, address)
	if err != nil {
		return err
	}
	k.log.Infow("funding evm address", "address", address.Hex(), "starknetAddress", starknetAddress, "amount", amount)
	return k.FundStarknetAddress(ctx, starknetAddress, amount)
}

// DeployAndFundEVMAddress deploys the EOA account contract backing the given
// EVM address (funding it first) unless it already exists, and returns its
// native address.
func (k *Kakarot) DeployAndFundEVMAddress(ctx context.Context, address common.Address, amount *big.Int) (*felt.Felt, error) {
	starknetAddress, err := k.ComputeStarknetAddress(ctx, address)
	if err != nil {
		return nil, err
	}

	exists, err := k.ContractExists(ctx, starknetAddress)
	if err != nil {
		return nil, err
	}
	if exists {
		return starknetAddress, nil
	}

	if err := k.FundStarknetAddress(ctx, starknetAddress, amount); err != nil {
		return nil, err
	}

	txHash, err := k.deployer.Execute(ctx, []starknet.Call{{
		To:       k.address,
		Selector: starknet.SelectorDeployExternallyOwnedAccount,
		Calldata: []*felt.Felt{FeltFromEvmAddress(address)},
	}}, DefaultMaxFee)
	if err != nil {
		return nil, fmt.Errorf("deploy externally owned account for %s: %w", address.Hex(), err)
	}
	if err := k.client.WaitForTransaction(ctx, txHash); err != nil {
		return nil, err
	}
	return starknetAddress, nil
}

// GetEOA ensures the EOA backing privateKey is deployed and funded with
// amount, and returns it with a bound native account.
func (k *Kakarot) GetEOA(ctx context.Context, privateKey *ecdsa.PrivateKey, amount *big.Int) (*EOA, error) {
	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	starknetAddress, err := k.DeployAndFundEVMAddress(ctx, address, amount)
	if err != nil {
		return nil, err
	}

	// The EVM key doubles as the native account key: the EOA account
	// contract validates the EVM signature carried in the payload.
	account, err := k.accounts(starknetAddress, privateKey.D)
	if err != nil {
		return nil, err
	}

	return &EOA{
		Address:         address,
		StarknetAddress: starknetAddress,
		PrivateKey:      privateKey,
		Account:         account,
	}, nil
}

// GetBytecode returns the EVM bytecode stored for the given EVM address by
// querying its backing contract account.
func (k *Kakarot) GetBytecode(ctx context.Context, address common.Address) ([]byte, error) {
	starknetAddress, err := k.ComputeStarknetAddress(ctx, address)
	if err != nil {
		return nil, err
	}

	ret, err := k.client.CallContract(ctx, starknet.Call{
		To:       starknetAddress,
		Selector: starknet.SelectorBytecode,
	})
	if err != nil {
		return nil, err
	}

	// Result layout: [bytecode_len, bytecode...].
	if len(ret) == 0 {
		return nil, fmt.Errorf("empty bytecode result for %s", address.Hex())
	}
	declared := starknet.FeltToBig(ret[0])
	if !declared.IsUint64() || declared.Uint64() != uint64(len(ret)-1) {
		return nil, fmt.Errorf("bytecode result for %s declared %s values, got %d", address.Hex(), declared, len(ret)-1)
	}
	return FeltsToBytes(ret[1:])
}

// EVM opcodes used by the StoreBytecode prelude.
const (
	opPush1    = 0x60
	opPush2    = 0x61
	opCodeCopy = 0x39
	opReturn   = 0xf3

	// preludeSize is the byte length of the init code before the payload.
	preludeSize = 0x0e
)

// deployPrelude wraps runtime bytecode in init code that CODECOPYs the
// trailing payload into memory and RETURNs it, so the payload becomes the
// stored bytecode of the new contract.
func deployPrelude(bytecode []byte) []byte {
	size := len(bytecode)
	code := []byte{
		opPush2, byte(size >> 8), byte(size),
		opPush1, preludeSize,
		opPush1, 0x00,
		opCodeCopy,
		opPush2, byte(size >> 8), byte(size),
		opPush1, 0x00,
		opReturn,
	}
	return append(code, bytecode...)
}

// StoreBytecode deploys a contract account through Kakarot whose stored
// bytecode is exactly the given bytes, and verifies the round-trip. Deploying
// through Kakarot (rather than writing storage directly) is required for the
// contract to be registered as an EVM contract.
func (k *Kakarot) StoreBytecode(ctx context.Context, sender *Sender, bytecode []byte, opts *TxOptions) (common.Address, error) {
	if opts == nil {
		opts = &TxOptions{}
	}
	gas := opts.Gas
	if gas == 0 {
		gas = deployGasLimit
	}

	_, outcome, err := sender.SendTransaction(ctx, TxRequest{
		To:     nil,
		Data:   deployPrelude(bytecode),
		Gas:    gas,
		Value:  opts.Value,
		MaxFee: opts.MaxFee,
	})
	if err != nil {
		return common.Address{}, err
	}
	if !outcome.Success {
		return common.Address{}, &ExecutionError{Response: outcome.Response}
	}
	if len(outcome.Response) != 2 {
		return common.Address{}, fmt.Errorf("%w: contract creation returned %d values, want 2",
			ErrMalformedStatusEvent, len(outcome.Response))
	}
	address, ok := EvmAddressFromFelt(outcome.Response[1])
	if !ok {
		return common.Address{}, fmt.Errorf("%w: deployed evm address out of range", ErrMalformedStatusEvent)
	}

	stored, err := k.GetBytecode(ctx, address)
	if err != nil {
		return common.Address{}, err
	}
	if !bytes.Equal(stored, bytecode) {
		return common.Address{}, fmt.Errorf("stored bytecode of %s does not match input", address.Hex())
	}
	return address, nil
}
