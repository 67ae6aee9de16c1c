package processor

import (
	"github.com/arkade-os/mint-registry/pkg/errors"
	registrylib "github.com/arkade-os/mint-registry/pkg/registry-lib"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/instruction"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/state"
	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
)

// Process decodes and executes one registry instruction against the given
// accounts. Every check runs before the first write, so on error the data and
// lamports of all accounts are left untouched.
//
// Process does not verify that the extension account belongs to the mint of
// the instruction: Register records the mint in the extension and later
// instructions trust the extension account they are given.
func Process(
	programID solana.PublicKey, accounts []*registrylib.AccountInfo, input []byte,
) error {
	ix, err := instruction.Decode(input)
	if err != nil {
		return err
	}

	log.WithField("program", programID.String()).
		Debugf("mint-registry: Instruction: %s", ix.Tag())

	switch v := ix.(type) {
	case instruction.RegisterMint:
		return processRegisterMint(accounts, v)
	case instruction.ModifyMint:
		return processModifyMint(accounts, v)
	case instruction.CloseMint:
		return processCloseMint(accounts)
	default:
		return errors.INVALID_INSTRUCTION.New("unsupported instruction %T", ix)
	}
}

func processRegisterMint(accounts []*registrylib.AccountInfo, ix instruction.RegisterMint) error {
	if err := validateLabels(ix.Symbol, ix.Name); err != nil {
		return err
	}

	iter := registrylib.NewAccountIter(accounts)
	mintInfo, err := iter.Next()
	if err != nil {
		return err
	}
	authorityInfo, err := iter.Next()
	if err != nil {
		return err
	}
	extensionInfo, err := iter.Next()
	if err != nil {
		return err
	}

	if err := checkAuthority(mintInfo, authorityInfo); err != nil {
		return err
	}
	if err := requireSigner(extensionInfo); err != nil {
		return err
	}

	ext, err := state.NewMintExtensionFromBytes(extensionInfo.Data)
	if err != nil {
		return err
	}
	if ext.IsInitialized {
		return errors.ALREADY_REGISTERED.New(
			"extension %s is already registered", extensionInfo.Key,
		).WithMetadata(errors.ExtensionMetadata{
			Extension: extensionInfo.Key.String(),
			Mint:      ext.Mint.String(),
		})
	}

	ext.IsInitialized = true
	ext.Mint = ix.Mint
	if err := ext.SetSymbol(ix.Symbol); err != nil {
		return err
	}
	if err := ext.SetName(ix.Name); err != nil {
		return err
	}

	return ext.PackInto(extensionInfo.Data)
}

func processModifyMint(accounts []*registrylib.AccountInfo, ix instruction.ModifyMint) error {
	if err := validateLabels(ix.Symbol, ix.Name); err != nil {
		return err
	}

	iter := registrylib.NewAccountIter(accounts)
	mintInfo, err := iter.Next()
	if err != nil {
		return err
	}
	authorityInfo, err := iter.Next()
	if err != nil {
		return err
	}
	extensionInfo, err := iter.Next()
	if err != nil {
		return err
	}

	if err := checkAuthority(mintInfo, authorityInfo); err != nil {
		return err
	}

	ext, err := state.NewMintExtensionFromBytes(extensionInfo.Data)
	if err != nil {
		return err
	}
	if !ext.IsInitialized {
		return errors.NO_REGISTRY.New(
			"extension %s is not registered", extensionInfo.Key,
		).WithMetadata(errors.ExtensionMetadata{Extension: extensionInfo.Key.String()})
	}

	if err := ext.SetSymbol(ix.Symbol); err != nil {
		return err
	}
	if err := ext.SetName(ix.Name); err != nil {
		return err
	}

	return ext.PackInto(extensionInfo.Data)
}

func processCloseMint(accounts []*registrylib.AccountInfo) error {
	iter := registrylib.NewAccountIter(accounts)
	extensionInfo, err := iter.Next()
	if err != nil {
		return err
	}
	destinationInfo, err := iter.Next()
	if err != nil {
		return err
	}
	mintInfo, err := iter.Next()
	if err != nil {
		return err
	}

	if err := checkAuthority(mintInfo, destinationInfo); err != nil {
		return err
	}

	ext, err := state.NewMintExtensionFromBytes(extensionInfo.Data)
	if err != nil {
		return err
	}

	destinationLamports, ok := checkedAdd(destinationInfo.Lamports, extensionInfo.Lamports)
	if !ok {
		return errors.OVERFLOW.New(
			"crediting %d lamports to %s overflows", extensionInfo.Lamports, destinationInfo.Key,
		).WithMetadata(errors.OverflowMetadata{
			Destination:       destinationInfo.Key.String(),
			DestinationAmount: destinationInfo.Lamports,
			SourceAmount:      extensionInfo.Lamports,
		})
	}

	ext.IsInitialized = false
	if err := ext.PackInto(extensionInfo.Data); err != nil {
		return err
	}
	destinationInfo.Lamports = destinationLamports
	extensionInfo.Lamports = 0
	return nil
}

func validateLabels(symbol, name string) error {
	for _, label := range []struct{ field, value string }{
		{"symbol", symbol}, {"name", name},
	} {
		if len(label.value) > registrylib.MAX_LABEL_LEN {
			return errors.SYMBOL_TOO_LONG.New(
				"%s is %d bytes long, max %d", label.field, len(label.value), registrylib.MAX_LABEL_LEN,
			).WithMetadata(errors.SymbolTooLongMetadata{
				Field:     label.field,
				Length:    len(label.value),
				MaxLength: registrylib.MAX_LABEL_LEN,
			})
		}
	}
	return nil
}

// checkAuthority resolves the authority of the mint and requires it to be the
// given account, which must also sign.
func checkAuthority(mintInfo, authorityInfo *registrylib.AccountInfo) error {
	mint, err := state.NewMintFromBytes(mintInfo.Data)
	if err != nil {
		return err
	}
	if mint.MintAuthority == nil {
		return errors.NO_MINT_AUTHORITY.New(
			"mint %s has no authority", mintInfo.Key,
		).WithMetadata(errors.AuthorityMetadata{
			Mint: mintInfo.Key.String(),
			Got:  authorityInfo.Key.String(),
		})
	}
	if !mint.MintAuthority.Equals(authorityInfo.Key) {
		return errors.NO_AUTHORITY.New(
			"%s is not the authority of mint %s", authorityInfo.Key, mintInfo.Key,
		).WithMetadata(errors.AuthorityMetadata{
			Mint:     mintInfo.Key.String(),
			Expected: mint.MintAuthority.String(),
			Got:      authorityInfo.Key.String(),
		})
	}
	return requireSigner(authorityInfo)
}

func requireSigner(account *registrylib.AccountInfo) error {
	if !account.IsSigner {
		return errors.MISSING_REQUIRED_SIGNATURE.New(
			"account %s must sign", account.Key,
		).WithMetadata(errors.AccountMetadata{Account: account.Key.String()})
	}
	return nil
}

func checkedAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum >= a
}
