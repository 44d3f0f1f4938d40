package starknet

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeltBigRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value *big.Int
	}{
		{name: "zero", value: big.NewInt(0)},
		{name: "one", value: big.NewInt(1)},
		{name: "byte", value: big.NewInt(0xff)},
		{name: "large", value: new(big.Int).Lsh(big.NewInt(1), 200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FeltToBig(FeltFromBig(tt.value))
			require.Zero(t, got.Cmp(tt.value), "round trip of %s gave %s", tt.value, got)
		})
	}
}

func TestFeltFromHex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr bool
	}{
		{name: "prefixed", input: "0x2a", want: 42},
		{name: "bare", input: "2a", want: 42},
		{name: "uppercase prefix", input: "0X2A", want: 42},
		{name: "garbage", input: "0xzz", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{
			name:    "overflow",
			input:   "0x10000000000000000000000000000000000000000000000000000000000000000",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FeltFromHex(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, got.Equal(FeltFromUint64(tt.want)))
		})
	}
}

func TestFeltFromUint64(t *testing.T) {
	t.Parallel()
	require.Zero(t, FeltToBig(FeltFromUint64(0xDEAD)).Cmp(big.NewInt(0xDEAD)))
}
