package kakarot

import (
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
)

// maxEvmAddress bounds the first event key of a Kakarot-origin EVM log:
// anything >= 2^160 cannot be an EVM address and is filtered out.
var maxEvmAddress = new(big.Int).Lsh(big.NewInt(1), 160)

// BytesToFelts encodes a byte string as one field element per byte, the
// layout the Kakarot account contracts expect for raw payloads.
func BytesToFelts(data []byte) []*felt.Felt {
	out := make([]*felt.Felt, len(data))
	for i, b := range data {
		out[i] = new(felt.Felt).SetUint64(uint64(b))
	}
	return out
}

// FeltsToBytes is the inverse of BytesToFelts. Any element outside [0, 255]
// means the values were not byte-encoded and is an error.
func FeltsToBytes(felts []*felt.Felt) ([]byte, error) {
	out := make([]byte, len(felts))
	for i, f := range felts {
		v := starknet.FeltToBig(f)
		if !v.IsUint64() || v.Uint64() > 0xff {
			return nil, fmt.Errorf("felt at index %d is not a byte: %s", i, f)
		}
		out[i] = byte(v.Uint64())
	}
	return out, nil
}

// CombineTopic reassembles a 32-byte Ethereum topic from its native split
// representation: low + high*2^128.
func CombineTopic(low, high *felt.Felt) common.Hash {
	l, _ := uint256.FromBig(starknet.FeltToBig(low))
	h, _ := uint256.FromBig(starknet.FeltToBig(high))
	h.Lsh(h, 128)
	h.Add(h, l)
	return common.Hash(h.Bytes32())
}

// SplitTopic splits a 32-byte topic into the (low, high) native field pair.
func SplitTopic(topic common.Hash) (low, high *felt.Felt) {
	v := new(uint256.Int).SetBytes32(topic[:])
	l := new(uint256.Int).And(v, lowMask)
	h := new(uint256.Int).Rsh(v, 128)
	return starknet.FeltFromBig(l.ToBig()), starknet.FeltFromBig(h.ToBig())
}

var lowMask = new(uint256.Int).SubUint64(new(uint256.Int).Lsh(uint256.NewInt(1), 128), 1)

// SplitUint256 splits an unsigned 256-bit integer into the (low, high) felt
// pair used for u256 calldata arguments.
func SplitUint256(v *big.Int) (low, high *felt.Felt) {
	u, _ := uint256.FromBig(v)
	l := new(uint256.Int).And(u, lowMask)
	h := new(uint256.Int).Rsh(u, 128)
	return starknet.FeltFromBig(l.ToBig()), starknet.FeltFromBig(h.ToBig())
}

// EvmAddressFromFelt interprets a field element as a 160-bit EVM address.
// The boolean reports whether the value is in range.
func EvmAddressFromFelt(f *felt.Felt) (common.Address, bool) {
	v := starknet.FeltToBig(f)
	if v.Cmp(maxEvmAddress) >= 0 {
		return common.Address{}, false
	}
	return common.BigToAddress(v), true
}

// FeltFromEvmAddress encodes an EVM address as a single field element.
func FeltFromEvmAddress(addr common.Address) *felt.Felt {
	return new(felt.Felt).SetBytes(addr.Bytes())
}
