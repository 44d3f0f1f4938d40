package kakarot

import (
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/common"

	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
)

// Outcome is the EVM-level result of a wrapped transaction, recovered from
// the transaction_executed status event of the submitting account.
//
// For contract creation the response is [starknet_address, evm_address]; for
// calls it is the raw return data, one byte per felt. Interpretation is the
// caller's responsibility.
type Outcome struct {
	MsgHash  common.Hash
	Response []*felt.Felt
	Success  bool
}

// minStatusEventFields is msg_hash_low, msg_hash_high, response_len, success.
const minStatusEventFields = 4

// ExtractOutcome locates the unique status event emitted by accountAddress in
// the receipt and destructures it.
//
// Event data layout: [msg_hash_low, msg_hash_high, response_len,
// response..., success]. A receipt with zero or several matching events, or a
// response_len that disagrees with the actual field count, is a protocol
// error and fails extraction.
func ExtractOutcome(accountAddress *felt.Felt, receipt *starknet.Receipt) (*Outcome, error) {
	var match *starknet.Event
	for i := range receipt.Events {
		ev := &receipt.Events[i]
		if !ev.FromAddress.Equal(accountAddress) {
			continue
		}
		if len(ev.Keys) == 0 || !ev.Keys[0].Equal(starknet.TransactionExecutedKey) {
			continue
		}
		if match != nil {
			return nil, ErrStatusEventNotUnique
		}
		match = ev
	}
	if match == nil {
		return nil, ErrStatusEventNotUnique
	}

	data := match.Data
	if len(data) < minStatusEventFields {
		return nil, fmt.Errorf("%w: only %d data fields", ErrMalformedStatusEvent, len(data))
	}

	declared := starknet.FeltToBig(data[2])
	actual := len(data) - minStatusEventFields
	if !declared.IsUint64() || declared.Uint64() != uint64(actual) {
		return nil, fmt.Errorf("%w: declared %s, got %d", ErrMalformedStatusEvent, declared, actual)
	}

	return &Outcome{
		MsgHash:  CombineTopic(data[0], data[1]),
		Response: data[3 : len(data)-1],
		Success:  !data[len(data)-1].IsZero(),
	}, nil
}
