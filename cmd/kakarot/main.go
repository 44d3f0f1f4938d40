package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Flags read their EnvVars while parsing, so the dotenv file must be
	// loaded before the app runs. A missing file is fine.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "kakarot",
		Usage: "Deploy and interact with EVM contracts through Kakarot on Starknet",
		Commands: []*cli.Command{
			{
				Name:      "deploy",
				Usage:     "Deploy one or more compiled contracts from a foundry workspace",
				ArgsUsage: "CONTRACT [CONTRACT...]",
				Flags:     deployFlags(),
				Action:    runDeploy,
			},
			{
				Name:   "call",
				Usage:  "Execute a read-only EVM call and print the return data",
				Flags:  callFlags(),
				Action: runCall,
			},
			{
				Name:   "send",
				Usage:  "Sign and submit an EVM transaction wrapped in a native invoke",
				Flags:  sendFlags(),
				Action: runSend,
			},
			{
				Name:   "fund",
				Usage:  "Transfer fee tokens to the native account of an EVM address",
				Flags:  fundFlags(),
				Action: runFund,
			},
			{
				Name:   "deploy-eoa",
				Usage:  "Deploy and fund the account contract of the configured EVM key",
				Flags:  commonFlags(),
				Action: runDeployEOA,
			},
			{
				Name:   "bytecode",
				Usage:  "Print the runtime bytecode stored at an EVM address",
				Flags:  bytecodeFlags(),
				Action: runBytecode,
			},
			{
				Name:   "store-bytecode",
				Usage:  "Store raw runtime bytecode in a fresh contract account",
				Flags:  storeBytecodeFlags(),
				Action: runStoreBytecode,
			},
			{
				Name:   "events",
				Usage:  "Decode the EVM logs of a native transaction against a contract ABI",
				Flags:  eventsFlags(),
				Action: runEvents,
			},
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
