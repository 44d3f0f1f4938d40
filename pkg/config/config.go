package config

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"

	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
)

// KakarotChainID is the default EVM chain ID Kakarot reports ("KKRT" as a
// big-endian integer).
const KakarotChainID = 0x4b4b5254

// defaultFeeToken is the canonical Starknet ETH fee token address.
const defaultFeeToken = "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"

// Config holds the environment-derived settings of the deployment scripts.
type Config struct {
	RPCURL             string `env:"STARKNET_RPC_URL" envDefault:"http://127.0.0.1:5050/rpc"`
	KakarotAddress     string `env:"KAKAROT_ADDRESS"`
	KakarotChainID     uint64 `env:"KAKAROT_CHAIN_ID" envDefault:"1263227476"`
	EVMPrivateKey      string `env:"EVM_PRIVATE_KEY"`
	DeployerAddress    string `env:"DEPLOYER_ADDRESS"`
	DeployerPrivateKey string `env:"DEPLOYER_PRIVATE_KEY"`
	FeeTokenAddress    string `env:"FEE_TOKEN_ADDRESS" envDefault:"0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"`
	FoundryRoot        string `env:"FOUNDRY_ROOT" envDefault:"."`
}

// Load reads optional dotenv files and parses the environment into a Config.
func Load(dotenvFiles ...string) (Config, error) {
	// Missing dotenv files are fine; the environment may be set directly.
	_ = godotenv.Load(dotenvFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// ChainID returns the EVM chain ID as a big integer.
func (c Config) ChainID() *big.Int {
	return new(big.Int).SetUint64(c.KakarotChainID)
}

// Kakarot parses the Kakarot system contract address.
func (c Config) Kakarot() (*felt.Felt, error) {
	if c.KakarotAddress == "" {
		return nil, fmt.Errorf("KAKAROT_ADDRESS is not set")
	}
	return starknet.FeltFromHex(c.KakarotAddress)
}

// FeeToken parses the fee token contract address.
func (c Config) FeeToken() (*felt.Felt, error) {
	if c.FeeTokenAddress == "" {
		return starknet.FeltFromHex(defaultFeeToken)
	}
	return starknet.FeltFromHex(c.FeeTokenAddress)
}

// Deployer parses the deployer account address and key scalar.
func (c Config) Deployer() (*felt.Felt, *big.Int, error) {
	if c.DeployerAddress == "" || c.DeployerPrivateKey == "" {
		return nil, nil, fmt.Errorf("DEPLOYER_ADDRESS and DEPLOYER_PRIVATE_KEY are not set")
	}
	address, err := starknet.FeltFromHex(c.DeployerAddress)
	if err != nil {
		return nil, nil, err
	}
	key, ok := new(big.Int).SetString(strings.TrimPrefix(c.DeployerPrivateKey, "0x"), 16)
	if !ok {
		return nil, nil, fmt.Errorf("invalid DEPLOYER_PRIVATE_KEY")
	}
	return address, key, nil
}

// EVMKey parses the EVM signing key.
func (c Config) EVMKey() (*ecdsa.PrivateKey, error) {
	if c.EVMPrivateKey == "" {
		return nil, fmt.Errorf("EVM_PRIVATE_KEY is not set")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(c.EVMPrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse EVM_PRIVATE_KEY: %w", err)
	}
	return key, nil
}
