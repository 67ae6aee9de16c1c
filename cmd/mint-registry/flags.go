package main

import (
	"github.com/urfave/cli/v2"
)

const (
	mintFlagName            = "mint"
	extensionFlagName       = "extension"
	addressFlagName         = "address"
	authorityFlagName       = "authority"
	freezeAuthorityFlagName = "freeze-authority"
	decimalsFlagName        = "decimals"
	supplyFlagName          = "supply"
	lamportsFlagName        = "lamports"
	symbolFlagName          = "symbol"
	nameFlagName            = "name"
	dataFlagName            = "data"

	// private keys can also be provided with MINT_REGISTRY_AUTHORITY_KEY and
	// MINT_REGISTRY_EXTENSION_KEY.
	authorityKeyFlagName = "authority-key"
	extensionKeyFlagName = "extension-key"
)

var (
	mintFlag = &cli.StringFlag{
		Name:     mintFlagName,
		Usage:    "base58 address of the mint",
		Required: true,
	}
	mintFilterFlag = &cli.StringFlag{
		Name:  mintFlagName,
		Usage: "only show the extensions recording this mint",
	}
	extensionFlag = func(required bool) *cli.StringFlag {
		return &cli.StringFlag{
			Name:     extensionFlagName,
			Usage:    "base58 address of the extension account",
			Required: required,
		}
	}
	addressFlag = &cli.StringFlag{
		Name:     addressFlagName,
		Usage:    "base58 address of the account",
		Required: true,
	}
	authorityFlag = &cli.StringFlag{
		Name:  authorityFlagName,
		Usage: "base58 address of the mint authority, omit to create a mint without authority",
	}
	freezeAuthorityFlag = &cli.StringFlag{
		Name:  freezeAuthorityFlagName,
		Usage: "base58 address of the freeze authority",
	}
	decimalsFlag = &cli.UintFlag{
		Name:  decimalsFlagName,
		Usage: "number of base 10 digits to the right of the decimal place",
		Value: 9,
	}
	supplyFlag = &cli.Uint64Flag{
		Name:  supplyFlagName,
		Usage: "total supply of the mint",
	}
	lamportsFlag = func(required bool, usage string) *cli.Uint64Flag {
		return &cli.Uint64Flag{
			Name:     lamportsFlagName,
			Usage:    usage,
			Required: required,
		}
	}
	symbolFlag = &cli.StringFlag{
		Name:     symbolFlagName,
		Usage:    "token symbol, at most 15 bytes",
		Required: true,
	}
	nameFlag = &cli.StringFlag{
		Name:     nameFlagName,
		Usage:    "token name, at most 15 bytes",
		Required: true,
	}
	dataFlag = &cli.StringFlag{
		Name:     dataFlagName,
		Usage:    "hex encoded instruction data",
		Required: true,
	}
	authorityKeyFlag = &cli.StringFlag{
		Name:  authorityKeyFlagName,
		Usage: "base58 private key of the mint authority",
	}
	extensionKeyFlag = &cli.StringFlag{
		Name:  extensionKeyFlagName,
		Usage: "base58 private key of the extension account",
	}
)
