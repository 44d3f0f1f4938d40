package kakarot

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	// ErrStatusEventNotUnique reports a receipt with zero or several
	// transaction_executed events where exactly one is required. This is a
	// chain-level inconsistency, not a recoverable condition.
	ErrStatusEventNotUnique = errors.New("cannot locate the unique transaction status event")

	// ErrMalformedStatusEvent reports a status event whose declared response
	// length does not match the number of trailing response values.
	ErrMalformedStatusEvent = errors.New("status event data does not match its declared response length")

	// ErrMalformedCallResult reports an eth_call result whose declared return
	// data length does not match the actual payload.
	ErrMalformedCallResult = errors.New("eth_call result does not match its declared return data length")
)

// ExecutionError is raised when a transaction or call reverts at the EVM
// level. Response carries the raw revert payload for diagnostics; it is never
// retried here.
type ExecutionError struct {
	Response []*felt.Felt
}

func (e *ExecutionError) Error() string {
	data, err := FeltsToBytes(e.Response)
	if err != nil {
		return fmt.Sprintf("evm execution reverted with %d response values", len(e.Response))
	}
	return fmt.Sprintf("evm execution reverted: %s", hexutil.Encode(data))
}

// ResponseBytes returns the revert payload as raw bytes when the response is
// byte-encoded, or nil otherwise.
func (e *ExecutionError) ResponseBytes() []byte {
	data, err := FeltsToBytes(e.Response)
	if err != nil {
		return nil
	}
	return data
}
