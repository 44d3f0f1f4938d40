//go:build e2e

package e2e

import (
	"context"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/kkrt-labs/kakarot-go/pkg/config"
	"github.com/kkrt-labs/kakarot-go/pkg/kakarot"
	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
	"github.com/kkrt-labs/kakarot-go/pkg/utils"
)

// The suite runs against a live devnet with Kakarot deployed. Configure it
// through the same environment the CLI reads:
//
//	STARKNET_RPC_URL, KAKAROT_ADDRESS, DEPLOYER_ADDRESS,
//	DEPLOYER_PRIVATE_KEY, EVM_PRIVATE_KEY
//
// Run with: go test -tags e2e ./test/e2e/

const fundingWei = 1e18

func setupKakarot(t *testing.T) (*kakarot.Kakarot, *starknet.Provider, config.Config) {
	t.Helper()
	if os.Getenv("KAKAROT_ADDRESS") == "" {
		t.Skip("KAKAROT_ADDRESS not set, skipping devnet suite")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	log := utils.NewNopSugaredLogger()
	provider, err := starknet.NewProvider(cfg.RPCURL)
	require.NoError(t, err)

	kakarotAddress, err := cfg.Kakarot()
	require.NoError(t, err)
	feeToken, err := cfg.FeeToken()
	require.NoError(t, err)

	deployerAddress, deployerKey, err := cfg.Deployer()
	require.NoError(t, err)
	deployer, err := starknet.NewAccount(provider, provider, deployerAddress, deployerKey)
	require.NoError(t, err)

	accounts := func(address *felt.Felt, privateKey *big.Int) (starknet.Account, error) {
		return starknet.NewAccount(provider, provider, address, privateKey)
	}

	return kakarot.New(provider, kakarotAddress, feeToken, deployer, accounts, log), provider, cfg
}

func TestEOALifecycle(t *testing.T) {
	k, _, cfg := setupKakarot(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	key, err := cfg.EVMKey()
	require.NoError(t, err)

	eoa, err := k.GetEOA(ctx, key, big.NewInt(fundingWei))
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), eoa.Address)

	// Ensuring an already deployed EOA must be idempotent.
	again, err := k.GetEOA(ctx, key, big.NewInt(fundingWei))
	require.NoError(t, err)
	require.True(t, eoa.StarknetAddress.Equal(again.StarknetAddress))
}

func TestStoreBytecodeRoundTrip(t *testing.T) {
	k, provider, cfg := setupKakarot(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	key, err := cfg.EVMKey()
	require.NoError(t, err)
	eoa, err := k.GetEOA(ctx, key, big.NewInt(fundingWei))
	require.NoError(t, err)

	log := utils.NewNopSugaredLogger()
	sender := kakarot.NewSender(provider, eoa.Account, key, cfg.ChainID(), log)

	// PUSH1 1 PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	bytecode := []byte{0x60, 0x01, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xf3}
	address, err := k.StoreBytecode(ctx, sender, bytecode, nil)
	require.NoError(t, err)

	stored, err := k.GetBytecode(ctx, address)
	require.NoError(t, err)
	require.Equal(t, bytecode, stored)
}
