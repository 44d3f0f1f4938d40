package main

import (
	"time"

	"github.com/urfave/cli/v2"
)

// commonFlags are shared by every command.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable verbose logging",
			EnvVars: []string{"VERBOSE"},
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "rpc-url",
			Aliases: []string{"r"},
			Usage:   "The Starknet JSON-RPC URL",
			EnvVars: []string{"STARKNET_RPC_URL"},
			Value:   "http://127.0.0.1:5050/rpc",
		},
		&cli.StringFlag{
			Name:     "kakarot-address",
			Aliases:  []string{"k"},
			Usage:    "The native address of the Kakarot system contract",
			EnvVars:  []string{"KAKAROT_ADDRESS"},
			Required: true,
		},
		&cli.Uint64Flag{
			Name:    "chain-id",
			Aliases: []string{"C"},
			Usage:   "The EVM chain ID Kakarot reports",
			EnvVars: []string{"KAKAROT_CHAIN_ID"},
			Value:   1263227476,
		},
		&cli.StringFlag{
			Name:    "evm-private-key",
			Usage:   "The EVM private key of the caller EOA (hex)",
			EnvVars: []string{"EVM_PRIVATE_KEY"},
		},
		&cli.StringFlag{
			Name:    "deployer-address",
			Usage:   "The native address of the funded deployer account",
			EnvVars: []string{"DEPLOYER_ADDRESS"},
		},
		&cli.StringFlag{
			Name:    "deployer-private-key",
			Usage:   "The private key of the deployer account (hex)",
			EnvVars: []string{"DEPLOYER_PRIVATE_KEY"},
		},
		&cli.StringFlag{
			Name:    "fee-token-address",
			Usage:   "The native fee token (ERC20) used to fund accounts",
			EnvVars: []string{"FEE_TOKEN_ADDRESS"},
			Value:   "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7",
		},
		&cli.StringFlag{
			Name:    "foundry-root",
			Usage:   "The foundry workspace holding foundry.toml and compiled artifacts",
			EnvVars: []string{"FOUNDRY_ROOT"},
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "funding-wei",
			Usage:   "Fee token amount (wei) used when an EOA must be deployed and funded",
			EnvVars: []string{"FUNDING_WEI"},
			Value:   "10000000000000000000",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Overall timeout for the command, including confirmation polling",
			EnvVars: []string{"TIMEOUT"},
			Value:   5 * time.Minute,
		},
		&cli.IntFlag{
			Name:    "metrics-port",
			Aliases: []string{"m"},
			Usage:   "Port for the Prometheus metrics server (0 disables it)",
			EnvVars: []string{"METRICS_PORT"},
			Value:   0,
		},
	}
}

func txFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Uint64Flag{
			Name:    "gas",
			Usage:   "EVM gas limit (0 uses the per-command default)",
			EnvVars: []string{"GAS_LIMIT"},
		},
		&cli.StringFlag{
			Name:    "value",
			Usage:   "EVM value in wei",
			EnvVars: []string{"TX_VALUE"},
			Value:   "0",
		},
		&cli.StringFlag{
			Name:    "max-fee",
			Usage:   "Max native fee (hex or decimal) of the wrapping transaction",
			EnvVars: []string{"MAX_FEE"},
		},
	}
}

func deployFlags() []cli.Flag {
	return append(append(commonFlags(), txFlags()...),
		&cli.StringFlag{
			Name:     "app",
			Aliases:  []string{"a"},
			Usage:    "The solidity app directory the contracts live in (src/<app>)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "calldata",
			Usage: "Pre-encoded constructor calldata (hex), appended to the creation bytecode",
		},
		&cli.IntFlag{
			Name:    "concurrency",
			Aliases: []string{"c"},
			Usage:   "Parallel deployments (each needs its own nonce; keep 1 for a single EOA)",
			Value:   1,
		},
	)
}

func callFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{
			Name:     "to",
			Usage:    "The EVM address to call",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "data",
			Usage:    "ABI-encoded calldata (hex)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "origin",
			Usage: "EVM caller address (defaults to the address of the EVM private key)",
		},
	)
}

func sendFlags() []cli.Flag {
	return append(append(commonFlags(), txFlags()...),
		&cli.StringFlag{
			Name:  "to",
			Usage: "The EVM destination address (omit to deploy raw creation bytecode)",
		},
		&cli.StringFlag{
			Name:     "data",
			Usage:    "ABI-encoded calldata or creation bytecode (hex)",
			Required: true,
		},
	)
}

func fundFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{
			Name:     "address",
			Usage:    "The EVM address to fund",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "Fee token amount in wei",
			Required: true,
		},
	)
}

func bytecodeFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{
			Name:     "address",
			Usage:    "The EVM contract address",
			Required: true,
		},
	)
}

func storeBytecodeFlags() []cli.Flag {
	return append(append(commonFlags(), txFlags()...),
		&cli.StringFlag{
			Name:     "bytecode",
			Usage:    "Runtime bytecode (hex) to store in a fresh contract account",
			Required: true,
		},
	)
}

func eventsFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{
			Name:     "tx-hash",
			Usage:    "The native transaction hash to read events from",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "app",
			Aliases:  []string{"a"},
			Usage:    "The solidity app directory the contract lives in (src/<app>)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "contract",
			Usage:    "The contract name whose ABI describes the events",
			Required: true,
		},
	)
}
