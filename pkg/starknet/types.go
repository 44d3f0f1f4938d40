package starknet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
)

// Call is a single entry of a Starknet account multicall. The Kakarot EOA
// account contract dispatches purely on the calldata payload, so To and
// Selector may carry sentinel values it never reads.
type Call struct {
	To       *felt.Felt
	Selector *felt.Felt
	Calldata []*felt.Felt
}

// Event is a native Starknet event as found in a transaction receipt.
type Event struct {
	FromAddress *felt.Felt
	Keys        []*felt.Felt
	Data        []*felt.Felt
}

// Receipt is the subset of a Starknet transaction receipt this layer consumes.
type Receipt struct {
	TransactionHash *felt.Felt
	Events          []Event
}

// Client is the read surface of the base chain that this layer consumes.
// Concrete implementations wrap a Starknet JSON-RPC provider.
type Client interface {
	// CallContract performs a read-only call against the latest state.
	CallContract(ctx context.Context, call Call) ([]*felt.Felt, error)

	// Nonce returns the account nonce of the given contract.
	Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error)

	// ClassHashAt returns the class hash deployed at the given address.
	// Returns ErrContractNotFound if nothing is deployed there.
	ClassHashAt(ctx context.Context, address *felt.Felt) (*felt.Felt, error)

	// TransactionReceipt fetches the receipt of a finalized transaction.
	TransactionReceipt(ctx context.Context, hash *felt.Felt) (*Receipt, error)

	// WaitForTransaction blocks until the transaction is accepted on the
	// chain or the context is done.
	WaitForTransaction(ctx context.Context, hash *felt.Felt) error
}

// Account is the write surface: a deployed Starknet account able to sign and
// submit invoke transactions.
type Account interface {
	// Address returns the native address of the account contract.
	Address() *felt.Felt

	// Nonce returns the current account nonce.
	Nonce(ctx context.Context) (*felt.Felt, error)

	// Execute signs and submits an invoke transaction wrapping the given
	// calls, paying at most maxFee in the native fee token. It returns the
	// transaction hash without waiting for confirmation.
	Execute(ctx context.Context, calls []Call, maxFee *felt.Felt) (*felt.Felt, error)
}

// FeltFromBig converts a non-negative big integer to a field element. Values
// are reduced modulo the field prime by the underlying implementation, so
// callers must guarantee v fits in ~252 bits.
func FeltFromBig(v *big.Int) *felt.Felt {
	var buf [32]byte
	v.FillBytes(buf[:])
	return new(felt.Felt).SetBytes(buf[:])
}

// FeltToBig returns the integer value of a field element.
func FeltToBig(f *felt.Felt) *big.Int {
	b := f.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// FeltFromHex parses a 0x-prefixed or bare hex string into a field element.
func FeltFromHex(s string) (*felt.Felt, error) {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("invalid felt hex %q", s)
	}
	if v.BitLen() > 252 {
		return nil, fmt.Errorf("felt overflow: %q needs %d bits", s, v.BitLen())
	}
	return FeltFromBig(v), nil
}

// FeltFromUint64 converts an unsigned integer to a field element.
func FeltFromUint64(v uint64) *felt.Felt {
	return new(felt.Felt).SetUint64(v)
}
