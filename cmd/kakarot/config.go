package main

import (
	"github.com/urfave/cli/v2"

	"github.com/kkrt-labs/kakarot-go/pkg/config"
)

// buildConfig builds a Config from CLI context flags.
func buildConfig(c *cli.Context) config.Config {
	return config.Config{
		RPCURL:             c.String("rpc-url"),
		KakarotAddress:     c.String("kakarot-address"),
		KakarotChainID:     c.Uint64("chain-id"),
		EVMPrivateKey:      c.String("evm-private-key"),
		DeployerAddress:    c.String("deployer-address"),
		DeployerPrivateKey: c.String("deployer-private-key"),
		FeeTokenAddress:    c.String("fee-token-address"),
		FoundryRoot:        c.String("foundry-root"),
	}
}
