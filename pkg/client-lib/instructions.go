package registryclient

import (
	"fmt"

	registrylib "github.com/arkade-os/mint-registry/pkg/registry-lib"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/instruction"
	"github.com/gagliardetto/solana-go"
)

// NewRegisterMintInstruction builds the instruction attaching symbol and name
// to mint. Both authority and extension must sign the transaction carrying
// it.
func NewRegisterMintInstruction(
	programID, mint solana.PublicKey, symbol, name string,
	authority, extension solana.PublicKey,
) (*solana.GenericInstruction, error) {
	if err := validateLabels(symbol, name); err != nil {
		return nil, err
	}
	data, err := instruction.RegisterMint{Mint: mint, Symbol: symbol, Name: name}.Serialize()
	if err != nil {
		return nil, err
	}
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(authority, true, true),
		solana.NewAccountMeta(extension, true, true),
	}
	return solana.NewInstruction(programID, accounts, data), nil
}

// NewModifyMintInstruction builds the instruction replacing the symbol and
// name of a registered extension. Only authority signs.
func NewModifyMintInstruction(
	programID, mint solana.PublicKey, symbol, name string,
	authority, extension solana.PublicKey,
) (*solana.GenericInstruction, error) {
	if err := validateLabels(symbol, name); err != nil {
		return nil, err
	}
	data, err := instruction.ModifyMint{Symbol: symbol, Name: name}.Serialize()
	if err != nil {
		return nil, err
	}
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(authority, false, true),
		solana.NewAccountMeta(extension, true, false),
	}
	return solana.NewInstruction(programID, accounts, data), nil
}

// NewCloseMintInstruction builds the instruction revoking an extension. The
// destination must be the mint authority and receives the extension lamports.
func NewCloseMintInstruction(
	programID, extension, destination, mint solana.PublicKey,
) (*solana.GenericInstruction, error) {
	data, err := instruction.CloseMint{}.Serialize()
	if err != nil {
		return nil, err
	}
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(extension, true, false),
		solana.NewAccountMeta(destination, true, true),
		solana.NewAccountMeta(mint, false, false),
	}
	return solana.NewInstruction(programID, accounts, data), nil
}

func validateLabels(symbol, name string) error {
	if len(symbol) > registrylib.MAX_LABEL_LEN {
		return fmt.Errorf(
			"symbol too long: got %d bytes, max %d", len(symbol), registrylib.MAX_LABEL_LEN,
		)
	}
	if len(name) > registrylib.MAX_LABEL_LEN {
		return fmt.Errorf(
			"name too long: got %d bytes, max %d", len(name), registrylib.MAX_LABEL_LEN,
		)
	}
	return nil
}
