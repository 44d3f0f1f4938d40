package starknet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Expected values are the selectors the Kakarot cairo contracts expose.
func TestSnKeccak(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		want string
	}{
		{
			name: "transaction_executed",
			want: "0x5ad857f66a5b55f1301ff1ed7e098ac6d4433148f0b72ebc4a2945ab85ad53",
		},
		{
			name: "eth_call",
			want: "0x33d491efd720ed4ee7eefa453c5f6da71912805fc96d4c91a3d37672b06b30d",
		},
		{
			name: "compute_starknet_address",
			want: "0xad7772990f7f5a506d84e5723efd1242e989c23f45653870d49d6d107f6e7",
		},
		{
			name: "deploy_externally_owned_account",
			want: "0x213d5a7b4e6a19207509d6d5aa09e3ae296bb21b182be4ec0106fb019ca016d",
		},
		{
			name: "transfer",
			want: "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e",
		},
		{
			name: "bytecode",
			want: "0x2f22d9e1ae4a391b4a190b8225f2f6f772a083382b7ded3e8d85743a8fcfdcd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			want, err := FeltFromHex(tt.want)
			require.NoError(t, err)
			require.True(t, SnKeccak(tt.name).Equal(want), "SnKeccak(%q) = %s, want %s", tt.name, SnKeccak(tt.name), want)
		})
	}
}

func TestPackageSelectorsMatchNames(t *testing.T) {
	t.Parallel()
	require.True(t, TransactionExecutedKey.Equal(SnKeccak("transaction_executed")))
	require.True(t, SelectorEthCall.Equal(SnKeccak("eth_call")))
	require.True(t, SelectorComputeStarknetAddress.Equal(SnKeccak("compute_starknet_address")))
	require.True(t, SelectorDeployExternallyOwnedAccount.Equal(SnKeccak("deploy_externally_owned_account")))
	require.True(t, SelectorTransfer.Equal(SnKeccak("transfer")))
	require.True(t, SelectorBytecode.Equal(SnKeccak("bytecode")))
}
