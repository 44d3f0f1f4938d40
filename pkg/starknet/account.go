package starknet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/account"
	"github.com/NethermindEth/starknet.go/rpc"
)

// StarkAccount implements Account on top of a deployed Starknet account
// contract. The signing key lives in an in-memory keystore: Kakarot EOA
// account contracts validate the EVM signature carried inside the wrapped
// payload, so the same secp256k1 scalar doubles as the account key here, the
// way the original deployment scripts stuff the EVM key into a Stark signer.
type StarkAccount struct {
	inner   *account.Account
	client  Client
	address *felt.Felt
}

var _ Account = (*StarkAccount)(nil)

// NewAccount binds a Starknet account contract at address to the given
// private key scalar, using provider for submission and client for reads.
func NewAccount(provider *Provider, client Client, address *felt.Felt, privateKey *big.Int) (*StarkAccount, error) {
	// The keystore is keyed by public key string; the account address works
	// as the key since validation happens inside the account contract.
	pub := address.String()
	ks := account.SetNewMemKeystore(pub, privateKey)

	inner, err := account.NewAccount(provider.RPC(), address, pub, ks, 1)
	if err != nil {
		return nil, fmt.Errorf("bind account %s: %w", address, err)
	}

	return &StarkAccount{
		inner:   inner,
		client:  client,
		address: address,
	}, nil
}

func (a *StarkAccount) Address() *felt.Felt {
	return a.address
}

func (a *StarkAccount) Nonce(ctx context.Context) (*felt.Felt, error) {
	return a.client.Nonce(ctx, a.address)
}

// Execute signs and submits a single invoke transaction carrying the given
// calls. It returns the transaction hash; confirmation is the caller's
// concern (Client.WaitForTransaction).
func (a *StarkAccount) Execute(ctx context.Context, calls []Call, maxFee *felt.Felt) (*felt.Felt, error) {
	nonce, err := a.Nonce(ctx)
	if err != nil {
		return nil, err
	}

	fnCalls := make([]rpc.FunctionCall, 0, len(calls))
	for _, c := range calls {
		fnCalls = append(fnCalls, rpc.FunctionCall{
			ContractAddress:    c.To,
			EntryPointSelector: c.Selector,
			Calldata:           c.Calldata,
		})
	}

	calldata, err := a.inner.FmtCalldata(fnCalls)
	if err != nil {
		return nil, fmt.Errorf("format multicall calldata: %w", err)
	}

	tx := rpc.InvokeTxnV1{
		MaxFee:        maxFee,
		Version:       rpc.TransactionV1,
		Nonce:         nonce,
		Type:          rpc.TransactionType_Invoke,
		SenderAddress: a.address,
		Calldata:      calldata,
	}
	if err := a.inner.SignInvokeTransaction(ctx, &tx); err != nil {
		return nil, fmt.Errorf("sign invoke transaction: %w", err)
	}

	resp, err := a.inner.AddInvokeTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("submit invoke transaction: %w", err)
	}
	return resp.TransactionHash, nil
}
