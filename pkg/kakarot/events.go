package kakarot

import (
	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
)

// ReconstructLogs rebuilds Ethereum logs from native events.
//
// An event qualifies as a Kakarot-origin EVM log when it was emitted by the
// Kakarot system contract and its first key fits in 160 bits (the EVM address
// of the logical emitter). The guard is a heuristic: a foreign event matching
// both conditions would be misclassified, which is accepted. Everything else
// is dropped silently.
//
// Subsequent keys come in (low, high) pairs, each pair one 32-byte topic. A
// dangling key without its high half is ignored. Data felts are one byte
// each; events whose data is not byte-encoded are dropped.
//
// Block and transaction context is not reconstructed: those fields stay
// zero, and the log index is the position among retained events.
func ReconstructLogs(kakarotAddress *felt.Felt, events []starknet.Event) []types.Log {
	logs := make([]types.Log, 0, len(events))
	for _, ev := range events {
		if !ev.FromAddress.Equal(kakarotAddress) || len(ev.Keys) == 0 {
			continue
		}
		address, ok := EvmAddressFromFelt(ev.Keys[0])
		if !ok {
			continue
		}
		data, err := FeltsToBytes(ev.Data)
		if err != nil {
			continue
		}

		topics := make([]common.Hash, 0, (len(ev.Keys)-1)/2)
		for i := 1; i+1 < len(ev.Keys); i += 2 {
			topics = append(topics, CombineTopic(ev.Keys[i], ev.Keys[i+1]))
		}

		logs = append(logs, types.Log{
			Address: address,
			Topics:  topics,
			Data:    data,
			Index:   uint(len(logs)),
		})
	}
	return logs
}

// DecodeEvents reconstructs logs from the native events and decodes them
// against every event descriptor of the ABI. The result maps each event name
// to its decoded argument sets, preserving the relative order of retained
// events. Logs that do not match a descriptor (wrong signature, wrong topic
// count, short data) are expected when scanning a full event set and are
// skipped silently; every requested name is present in the result, possibly
// with an empty list.
func DecodeEvents(contractABI abi.ABI, kakarotAddress *felt.Felt, events []starknet.Event) map[string][]map[string]any {
	return DecodeLogs(contractABI, ReconstructLogs(kakarotAddress, events))
}

// DecodeLogs decodes already reconstructed logs against every event
// descriptor of the ABI.
func DecodeLogs(contractABI abi.ABI, logs []types.Log) map[string][]map[string]any {
	out := make(map[string][]map[string]any, len(contractABI.Events))
	for name, ev := range contractABI.Events {
		out[name] = decodeMatchingLogs(contractABI, ev, logs)
	}
	return out
}

func decodeMatchingLogs(contractABI abi.ABI, ev abi.Event, logs []types.Log) []map[string]any {
	indexed := make(abi.Arguments, 0, len(ev.Inputs))
	for _, input := range ev.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}

	decoded := []map[string]any{}
	for _, log := range logs {
		if len(log.Topics) == 0 || log.Topics[0] != ev.ID {
			continue
		}
		if len(log.Topics)-1 != len(indexed) {
			continue
		}

		args := make(map[string]any)
		if err := contractABI.UnpackIntoMap(args, ev.Name, log.Data); err != nil {
			continue
		}
		if err := abi.ParseTopicsIntoMap(args, indexed, log.Topics[1:]); err != nil {
			continue
		}
		decoded = append(decoded, args)
	}
	return decoded
}
