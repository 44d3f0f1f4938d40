package starknet

import (
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/crypto"
)

// selectorMask keeps the low 250 bits of a keccak256 digest, which is how
// Starknet derives entrypoint selectors and event keys from names
// (sn_keccak). The result always fits in a field element.
var selectorMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 250), big.NewInt(1))

// SnKeccak computes the Starknet keccak of the given name: keccak256
// truncated to its 250 least significant bits.
func SnKeccak(name string) *felt.Felt {
	h := new(big.Int).SetBytes(crypto.Keccak256([]byte(name)))
	return FeltFromBig(h.And(h, selectorMask))
}

// Entrypoint selectors and event keys used by the Kakarot system contracts.
var (
	// TransactionExecutedKey is the first key of the status event emitted by
	// a Kakarot EOA account contract after running an EVM transaction.
	TransactionExecutedKey = SnKeccak("transaction_executed")

	SelectorEthCall                      = SnKeccak("eth_call")
	SelectorComputeStarknetAddress       = SnKeccak("compute_starknet_address")
	SelectorDeployExternallyOwnedAccount = SnKeccak("deploy_externally_owned_account")
	SelectorTransfer                     = SnKeccak("transfer")
	SelectorBytecode                     = SnKeccak("bytecode")
)
