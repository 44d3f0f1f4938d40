package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/kkrt-labs/kakarot-go/pkg/kakarot"
	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
)

// commandContext applies the command timeout and interrupt handling.
func commandContext(c *cli.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, c.Duration("timeout"))
	return ctx, func() {
		cancel()
		stop()
	}
}

func runDeploy(c *cli.Context) error {
	names := c.Args().Slice()
	if len(names) == 0 {
		return fmt.Errorf("at least one contract name is required")
	}

	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(c)
	defer cancel()

	registry, err := rt.foundry()
	if err != nil {
		return err
	}

	sender, err := rt.newSender(ctx, c)
	if err != nil {
		return err
	}

	opts, err := txOptions(c)
	if err != nil {
		return err
	}
	app := c.String("app")
	ctorCalldata := common.FromHex(c.String("calldata"))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Int("concurrency"))
	for _, name := range names {
		g.Go(func() error {
			artifact, err := registry.Load(app, name)
			if err != nil {
				return err
			}

			// Pre-encoded constructor calldata rides on the creation bytecode.
			data := artifact.Bytecode
			if len(ctorCalldata) > 0 {
				data = append(append([]byte{}, data...), ctorCalldata...)
			}

			contract, err := rt.kkrt.Deploy(gctx, sender, name, artifact.ABI, data, opts)
			if err != nil {
				return fmt.Errorf("deploy %s: %w", name, err)
			}
			fmt.Printf("%s deployed at %s (starknet address %s)\n",
				name, contract.Address.Hex(), contract.StarknetAddress)
			return nil
		})
	}
	return g.Wait()
}

func runCall(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(c)
	defer cancel()

	to := common.HexToAddress(c.String("to"))
	data := common.FromHex(c.String("data"))

	var origin common.Address
	if raw := c.String("origin"); raw != "" {
		origin = common.HexToAddress(raw)
	} else if rt.cfg.EVMPrivateKey != "" {
		key, err := rt.cfg.EVMKey()
		if err != nil {
			return err
		}
		origin = crypto.PubkeyToAddress(key.PublicKey)
	}

	ret, err := rt.kkrt.EthCall(ctx, origin, to, 0, 0, nil, data)
	if err != nil {
		return err
	}
	fmt.Println(hexutil.Encode(ret))
	return nil
}

func runSend(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(c)
	defer cancel()

	sender, err := rt.newSender(ctx, c)
	if err != nil {
		return err
	}

	opts, err := txOptions(c)
	if err != nil {
		return err
	}

	req := kakarot.TxRequest{
		Data:   common.FromHex(c.String("data")),
		Gas:    opts.Gas,
		Value:  opts.Value,
		MaxFee: opts.MaxFee,
	}
	if raw := c.String("to"); raw != "" {
		to := common.HexToAddress(raw)
		req.To = &to
	}

	receipt, outcome, err := sender.SendTransaction(ctx, req)
	if err != nil {
		return err
	}
	if !outcome.Success {
		return &kakarot.ExecutionError{Response: outcome.Response}
	}
	fmt.Printf("transaction %s succeeded\n", receipt.TransactionHash)

	// Contract creation responds with the address pair instead of return data.
	if req.To == nil && len(outcome.Response) == 2 {
		address, ok := kakarot.EvmAddressFromFelt(outcome.Response[1])
		if ok {
			fmt.Printf("deployed at %s (starknet address %s)\n", address.Hex(), outcome.Response[0])
			return nil
		}
	}
	response, err := kakarot.FeltsToBytes(outcome.Response)
	if err != nil {
		return err
	}
	fmt.Printf("response: %s\n", hexutil.Encode(response))
	return nil
}

func runFund(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(c)
	defer cancel()

	amount, err := parseAmount(c.String("amount"))
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	address := common.HexToAddress(c.String("address"))

	if err := rt.kkrt.FundAddress(ctx, address, amount); err != nil {
		return err
	}
	fmt.Printf("funded %s with %s\n", address.Hex(), amount)
	return nil
}

func runDeployEOA(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(c)
	defer cancel()

	key, err := rt.cfg.EVMKey()
	if err != nil {
		return err
	}
	funding, err := parseAmount(c.String("funding-wei"))
	if err != nil {
		return fmt.Errorf("invalid funding-wei: %w", err)
	}

	eoa, err := rt.kkrt.GetEOA(ctx, key, funding)
	if err != nil {
		return err
	}
	fmt.Printf("eoa %s ready (starknet address %s)\n", eoa.Address.Hex(), eoa.StarknetAddress)
	return nil
}

func runBytecode(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(c)
	defer cancel()

	address := common.HexToAddress(c.String("address"))
	code, err := rt.kkrt.GetBytecode(ctx, address)
	if err != nil {
		return err
	}
	fmt.Println(hexutil.Encode(code))
	return nil
}

func runStoreBytecode(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(c)
	defer cancel()

	sender, err := rt.newSender(ctx, c)
	if err != nil {
		return err
	}

	opts, err := txOptions(c)
	if err != nil {
		return err
	}

	bytecode := common.FromHex(c.String("bytecode"))
	if len(bytecode) == 0 {
		return fmt.Errorf("bytecode must not be empty")
	}

	address, err := rt.kkrt.StoreBytecode(ctx, sender, bytecode, opts)
	if err != nil {
		return err
	}
	fmt.Printf("bytecode stored at %s\n", address.Hex())
	return nil
}

func runEvents(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(c)
	defer cancel()

	txHash, err := starknet.FeltFromHex(c.String("tx-hash"))
	if err != nil {
		return fmt.Errorf("invalid tx-hash: %w", err)
	}

	registry, err := rt.foundry()
	if err != nil {
		return err
	}
	artifact, err := registry.Load(c.String("app"), c.String("contract"))
	if err != nil {
		return err
	}

	receipt, err := rt.provider.TransactionReceipt(ctx, txHash)
	if err != nil {
		return err
	}

	decoded := kakarot.DecodeEvents(artifact.ABI, rt.kkrt.Address(), receipt.Events)
	out, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
