package kakarot

import (
	"math/big"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
)

func TestBytesFeltsRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: []byte{}},
		{name: "single", data: []byte{0x01}},
		{name: "boundaries", data: []byte{0x00, 0x7f, 0x80, 0xff}},
		{name: "calldata", data: common.FromHex("0xa9059cbb000000000000000000000000deadbeef")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			felts := BytesToFelts(tt.data)
			require.Len(t, felts, len(tt.data))
			got, err := FeltsToBytes(felts)
			require.NoError(t, err)
			require.Equal(t, tt.data, got)
		})
	}
}

func TestFeltsToBytesRejectsNonBytes(t *testing.T) {
	t.Parallel()
	_, err := FeltsToBytes([]*felt.Felt{starknet.FeltFromUint64(256)})
	require.Error(t, err)

	_, err = FeltsToBytes([]*felt.Felt{
		starknet.FeltFromUint64(1),
		starknet.FeltFromBig(new(big.Int).Lsh(big.NewInt(1), 200)),
	})
	require.Error(t, err)
}

func TestCombineSplitTopic(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		topic common.Hash
	}{
		{name: "zero", topic: common.Hash{}},
		{
			name:  "transfer signature",
			topic: common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"),
		},
		{
			name:  "low half only",
			topic: common.HexToHash("0x00000000000000000000000000000000ffffffffffffffffffffffffffffffff"),
		},
		{
			name:  "high half only",
			topic: common.HexToHash("0xffffffffffffffffffffffffffffffff00000000000000000000000000000000"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			low, high := SplitTopic(tt.topic)
			require.Equal(t, tt.topic, CombineTopic(low, high))
		})
	}
}

func TestSplitTopicHalves(t *testing.T) {
	t.Parallel()
	topic := common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
	low, high := SplitTopic(topic)

	wantLow, ok := new(big.Int).SetString("952ba7f163c4a11628f55a4df523b3ef", 16)
	require.True(t, ok)
	wantHigh, ok := new(big.Int).SetString("ddf252ad1be2c89b69c2b068fc378daa", 16)
	require.True(t, ok)

	require.Zero(t, starknet.FeltToBig(low).Cmp(wantLow))
	require.Zero(t, starknet.FeltToBig(high).Cmp(wantHigh))
}

func TestSplitUint256(t *testing.T) {
	t.Parallel()
	v := new(big.Int).Lsh(big.NewInt(1), 130) // needs the high half
	v.Add(v, big.NewInt(7))

	low, high := SplitUint256(v)
	require.Zero(t, starknet.FeltToBig(low).Cmp(big.NewInt(7)))
	require.Zero(t, starknet.FeltToBig(high).Cmp(big.NewInt(4)))
}

func TestEvmAddressFromFelt(t *testing.T) {
	t.Parallel()
	address := common.HexToAddress("0x00000000000000000000000000000000000A11cE")
	got, ok := EvmAddressFromFelt(FeltFromEvmAddress(address))
	require.True(t, ok)
	require.Equal(t, address, got)

	_, ok = EvmAddressFromFelt(starknet.FeltFromBig(new(big.Int).Lsh(big.NewInt(1), 160)))
	require.False(t, ok, "2^160 is out of the address range")

	got, ok = EvmAddressFromFelt(starknet.FeltFromBig(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))))
	require.True(t, ok, "2^160-1 is the highest valid address")
	require.Equal(t, common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff"), got)
}
