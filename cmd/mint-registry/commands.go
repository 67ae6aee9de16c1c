package main

import (
	"encoding/hex"
	"fmt"

	registryclient "github.com/arkade-os/mint-registry/pkg/client-lib"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/instruction"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

func keygen(_ *cli.Context) error {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return err
	}
	return printJSON(map[string]string{
		"public_key":  key.PublicKey().String(),
		"private_key": key.String(),
	})
}

func createMint(ctx *cli.Context) error {
	authority, err := parseOptionalKey(ctx.String(authorityFlagName))
	if err != nil {
		return fmt.Errorf("invalid authority: %s", err)
	}
	freezeAuthority, err := parseOptionalKey(ctx.String(freezeAuthorityFlagName))
	if err != nil {
		return fmt.Errorf("invalid freeze authority: %s", err)
	}
	decimals := ctx.Uint(decimalsFlagName)
	if decimals > 255 {
		return fmt.Errorf("decimals must be at most 255")
	}

	svc, err := appService()
	if err != nil {
		return err
	}
	defer svc.Close()

	mint, err := svc.CreateMint(
		ctx.Context, authority, freezeAuthority, uint8(decimals), ctx.Uint64(supplyFlagName),
	)
	if err != nil {
		return err
	}
	return printJSON(map[string]string{"mint": mint.String()})
}

func createExtension(ctx *cli.Context) error {
	extension, err := solana.PublicKeyFromBase58(ctx.String(extensionFlagName))
	if err != nil {
		return fmt.Errorf("invalid extension: %s", err)
	}

	svc, err := appService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.CreateExtensionAccount(
		ctx.Context, extension, ctx.Uint64(lamportsFlagName),
	); err != nil {
		return err
	}
	view, err := svc.GetMintExtension(ctx.Context, extension)
	if err != nil {
		return err
	}
	return printJSON(view)
}

func airdrop(ctx *cli.Context) error {
	address, err := solana.PublicKeyFromBase58(ctx.String(addressFlagName))
	if err != nil {
		return fmt.Errorf("invalid address: %s", err)
	}

	svc, err := appService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Airdrop(ctx.Context, address, ctx.Uint64(lamportsFlagName)); err != nil {
		return err
	}
	account, err := svc.GetAccount(ctx.Context, address)
	if err != nil {
		return err
	}
	return printJSON(map[string]interface{}{
		"address":  address.String(),
		"lamports": account.Lamports,
	})
}

func register(ctx *cli.Context) error {
	mint, err := solana.PublicKeyFromBase58(ctx.String(mintFlagName))
	if err != nil {
		return fmt.Errorf("invalid mint: %s", err)
	}
	authority, err := privateKey(ctx, authorityKeyFlagName)
	if err != nil {
		return err
	}
	extension, err := privateKey(ctx, extensionKeyFlagName)
	if err != nil {
		return err
	}

	svc, err := appService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ix, err := registryclient.NewRegisterMintInstruction(
		svc.ProgramID(), mint, ctx.String(symbolFlagName), ctx.String(nameFlagName),
		authority.PublicKey(), extension.PublicKey(),
	)
	if err != nil {
		return err
	}
	result, err := svc.Execute(ctx.Context, ix, authority, extension)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func modify(ctx *cli.Context) error {
	mint, err := solana.PublicKeyFromBase58(ctx.String(mintFlagName))
	if err != nil {
		return fmt.Errorf("invalid mint: %s", err)
	}
	extension, err := solana.PublicKeyFromBase58(ctx.String(extensionFlagName))
	if err != nil {
		return fmt.Errorf("invalid extension: %s", err)
	}
	authority, err := privateKey(ctx, authorityKeyFlagName)
	if err != nil {
		return err
	}

	svc, err := appService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ix, err := registryclient.NewModifyMintInstruction(
		svc.ProgramID(), mint, ctx.String(symbolFlagName), ctx.String(nameFlagName),
		authority.PublicKey(), extension,
	)
	if err != nil {
		return err
	}
	result, err := svc.Execute(ctx.Context, ix, authority)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func closeMint(ctx *cli.Context) error {
	mint, err := solana.PublicKeyFromBase58(ctx.String(mintFlagName))
	if err != nil {
		return fmt.Errorf("invalid mint: %s", err)
	}
	extension, err := solana.PublicKeyFromBase58(ctx.String(extensionFlagName))
	if err != nil {
		return fmt.Errorf("invalid extension: %s", err)
	}
	authority, err := privateKey(ctx, authorityKeyFlagName)
	if err != nil {
		return err
	}

	svc, err := appService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ix, err := registryclient.NewCloseMintInstruction(
		svc.ProgramID(), extension, authority.PublicKey(), mint,
	)
	if err != nil {
		return err
	}
	result, err := svc.Execute(ctx.Context, ix, authority)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func show(ctx *cli.Context) error {
	svc, err := appService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if ctx.String(extensionFlagName) == "" {
		mint, err := parseOptionalKey(ctx.String(mintFlagName))
		if err != nil {
			return fmt.Errorf("invalid mint: %s", err)
		}
		views, err := svc.ListMintExtensions(ctx.Context, mint)
		if err != nil {
			return err
		}
		return printJSON(views)
	}

	extension, err := solana.PublicKeyFromBase58(ctx.String(extensionFlagName))
	if err != nil {
		return fmt.Errorf("invalid extension: %s", err)
	}
	view, err := svc.GetMintExtension(ctx.Context, extension)
	if err != nil {
		return err
	}
	return printJSON(view)
}

func balance(ctx *cli.Context) error {
	address, err := solana.PublicKeyFromBase58(ctx.String(addressFlagName))
	if err != nil {
		return fmt.Errorf("invalid address: %s", err)
	}

	svc, err := appService()
	if err != nil {
		return err
	}
	defer svc.Close()

	account, err := svc.GetAccount(ctx.Context, address)
	if err != nil {
		return err
	}
	return printJSON(map[string]interface{}{
		"address":  address.String(),
		"owner":    account.Owner.String(),
		"lamports": account.Lamports,
		"data_len": len(account.Data),
	})
}

func decodeInstruction(ctx *cli.Context) error {
	data, err := hex.DecodeString(ctx.String(dataFlagName))
	if err != nil {
		return fmt.Errorf("invalid hex data: %s", err)
	}
	ix, err := instruction.Decode(data)
	if err != nil {
		return err
	}

	resp := map[string]interface{}{"instruction": ix.Tag().String()}
	switch v := ix.(type) {
	case instruction.RegisterMint:
		resp["mint"] = v.Mint.String()
		resp["symbol"] = v.Symbol
		resp["name"] = v.Name
	case instruction.ModifyMint:
		resp["symbol"] = v.Symbol
		resp["name"] = v.Name
	}
	return printJSON(resp)
}

// privateKey reads a base58 private key from the given flag, falling back to
// the matching MINT_REGISTRY_ env var.
func privateKey(ctx *cli.Context, flagName string) (solana.PrivateKey, error) {
	value := ctx.String(flagName)
	if value == "" {
		value = viper.GetString(flagName)
	}
	if value == "" {
		return nil, fmt.Errorf("missing --%s", flagName)
	}
	key, err := solana.PrivateKeyFromBase58(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", flagName, err)
	}
	return key, nil
}
