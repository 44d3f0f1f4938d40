package kakarot

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/kkrt-labs/kakarot-go/internal/metrics"
	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
)

// DefaultGasLimit is applied to requests that leave Gas unset.
const DefaultGasLimit = 21_000

var (
	// feeCap fills the EIP-1559 fee fields. The chain does not price EVM gas
	// yet, so both caps are pinned to a large constant instead of estimated.
	feeCap = new(big.Int).Mul(big.NewInt(10), big.NewInt(1e18))

	// DefaultMaxFee caps the native fee of the wrapping invoke transaction
	// when the request does not override it (5e17).
	DefaultMaxFee = starknet.FeltFromBig(big.NewInt(5e17))

	// callSentinel fills the target and selector of the native call envelope.
	// The EOA account contract dispatches on the payload alone and never
	// reads either field.
	callSentinel = starknet.FeltFromUint64(0xDEAD)
)

// TxRequest describes one EVM transaction to wrap and submit.
type TxRequest struct {
	// To is the destination contract; nil deploys a new contract.
	To    *common.Address
	Data  []byte
	Gas   uint64
	Value *big.Int
	// MaxFee caps the native fee of the wrapping transaction; nil uses the
	// sender default.
	MaxFee *felt.Felt
}

// Sender packages EVM transactions into native invoke transactions: it signs
// an EIP-1559 transaction with the EOA's secp256k1 key, wraps the raw bytes
// as the calldata of a single account call, submits, waits for finality and
// extracts the EVM outcome from the receipt.
//
// A Sender is safe for concurrent use; each SendTransaction owns its full
// nonce-to-receipt lifecycle and no state is shared between invocations.
type Sender struct {
	client  starknet.Client
	account starknet.Account
	key     *ecdsa.PrivateKey
	chainID *big.Int
	maxFee  *felt.Felt
	log     *zap.SugaredLogger
	metrics *metrics.Metrics // nil if metrics disabled
}

// SenderOption configures the Sender.
type SenderOption func(*Sender)

// WithSenderMetrics enables metrics collection for the sender.
func WithSenderMetrics(m *metrics.Metrics) SenderOption {
	return func(s *Sender) {
		s.metrics = m
	}
}

// WithDefaultMaxFee overrides the default native max fee.
func WithDefaultMaxFee(maxFee *felt.Felt) SenderOption {
	return func(s *Sender) {
		s.maxFee = maxFee
	}
}

// NewSender creates a Sender submitting through account and confirming
// through client. chainID is the EVM chain ID Kakarot reports.
func NewSender(
	client starknet.Client,
	account starknet.Account,
	key *ecdsa.PrivateKey,
	chainID *big.Int,
	log *zap.SugaredLogger,
	opts ...SenderOption,
) *Sender {
	s := &Sender{
		client:  client,
		account: account,
		key:     key,
		chainID: chainID,
		maxFee:  DefaultMaxFee,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Account returns the native account submitting for this sender.
func (s *Sender) Account() starknet.Account {
	return s.account
}

// EvmAddress returns the EVM address derived from the sender's signing key.
func (s *Sender) EvmAddress() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// SendTransaction runs the full outbound path for one request. The returned
// outcome carries the EVM success flag: an on-chain revert is NOT an error
// here, callers decide whether to surface it as an ExecutionError. Errors are
// reserved for submission failures and protocol mismatches.
func (s *Sender) SendTransaction(ctx context.Context, req TxRequest) (*starknet.Receipt, *Outcome, error) {
	nonce, err := s.account.Nonce(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch nonce: %w", err)
	}

	gas := req.Gas
	if gas == 0 {
		gas = DefaultGasLimit
	}
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	signed, err := types.SignNewTx(s.key, types.LatestSignerForChainID(s.chainID), &types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     starknet.FeltToBig(nonce).Uint64(),
		GasTipCap: feeCap,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        req.To,
		Value:     value,
		Data:      req.Data,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("sign evm transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("encode evm transaction: %w", err)
	}

	maxFee := req.MaxFee
	if maxFee == nil {
		maxFee = s.maxFee
	}

	txHash, err := s.account.Execute(ctx, []starknet.Call{{
		To:       callSentinel,
		Selector: callSentinel,
		Calldata: BytesToFelts(raw),
	}}, maxFee)
	if err != nil {
		return nil, nil, fmt.Errorf("execute wrapped transaction: %w", err)
	}
	if s.metrics != nil {
		s.metrics.TxSubmitted()
	}
	s.log.Infow("submitted wrapped evm transaction",
		"txHash", txHash,
		"evmHash", signed.Hash(),
		"to", req.To,
		"gas", gas,
	)

	if err := s.client.WaitForTransaction(ctx, txHash); err != nil {
		return nil, nil, err
	}

	receipt, err := s.client.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, nil, err
	}

	outcome, err := ExtractOutcome(s.account.Address(), receipt)
	if err != nil {
		return nil, nil, err
	}
	if s.metrics != nil {
		s.metrics.TxOutcome(outcome.Success)
	}

	return receipt, outcome, nil
}
