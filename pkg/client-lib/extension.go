package registryclient

import (
	registrylib "github.com/arkade-os/mint-registry/pkg/registry-lib"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/state"
	"github.com/gagliardetto/solana-go"
)

// DecodeMintExtension decodes the data of an extension account.
func DecodeMintExtension(
	key solana.PublicKey, lamports uint64, data []byte,
) (*registrylib.MintExtensionView, error) {
	ext, err := state.NewMintExtensionFromBytes(data)
	if err != nil {
		return nil, err
	}
	return &registrylib.MintExtensionView{
		Extension:   key.String(),
		Mint:        ext.Mint.String(),
		Symbol:      ext.SymbolString(),
		Name:        ext.NameString(),
		Initialized: ext.IsInitialized,
		Lamports:    lamports,
	}, nil
}

// MinBalanceForRentExemptExtension returns the lamports an extension account
// must be funded with at creation.
func MinBalanceForRentExemptExtension() uint64 {
	return registrylib.RentExemptMinimum(state.MINT_EXTENSION_LEN)
}
