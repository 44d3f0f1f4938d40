package kakarot

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

// FuzzBytesFeltsRoundTrip checks the byte-per-felt payload encoding is lossless.
// Run with: go test -fuzz=FuzzBytesFeltsRoundTrip -fuzztime=30s ./pkg/kakarot/
func FuzzBytesFeltsRoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0xff})
	f.Add(common.FromHex("0xa9059cbb000000000000000000000000deadbeef"))

	f.Fuzz(func(t *testing.T, data []byte) {
		got, err := FeltsToBytes(BytesToFelts(data))
		require.NoError(t, err)
		require.Equal(t, data, got)
	})
}

// FuzzTopicRoundTrip checks that splitting a topic into its native (low, high)
// pair and recombining it is the identity.
// Run with: go test -fuzz=FuzzTopicRoundTrip -fuzztime=30s ./pkg/kakarot/
func FuzzTopicRoundTrip(f *testing.F) {
	f.Add(make([]byte, 32))
	f.Add(common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef").Bytes())

	f.Fuzz(func(t *testing.T, raw []byte) {
		var topic common.Hash
		copy(topic[:], raw)
		low, high := SplitTopic(topic)
		require.Equal(t, topic, CombineTopic(low, high))
	})
}
