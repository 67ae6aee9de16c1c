package main

import (
	"fmt"
	"os"

	"github.com/arkade-os/mint-registry/internal/config"
	"github.com/arkade-os/mint-registry/internal/core/application"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	Version = "dev"
	cfg     *config.Config
)

func main() {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "mint-registry"
	app.Usage = "register symbol and name of token mints on a local registry host"
	app.Commands = append(
		app.Commands,
		&keygenCommand,
		&createMintCommand,
		&createExtensionCommand,
		&airdropCommand,
		&registerCommand,
		&modifyCommand,
		&closeCommand,
		&showCommand,
		&balanceCommand,
		&decodeInstructionCommand,
	)
	app.Flags = config.Flags
	app.Before = func(ctx *cli.Context) error {
		c, err := config.LoadConfig(ctx)
		if err != nil {
			return fmt.Errorf("invalid config: %s", err)
		}
		cfg = c
		log.Debugf("mint-registry config: %s", cfg)
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println(fmt.Errorf("error: %v", err))
		os.Exit(1)
	}
}

var (
	keygenCommand = cli.Command{
		Name:  "keygen",
		Usage: "Generate a new key pair",
		Action: func(ctx *cli.Context) error {
			return keygen(ctx)
		},
	}
	createMintCommand = cli.Command{
		Name:  "create-mint",
		Usage: "Create an initialized mint account",
		Action: func(ctx *cli.Context) error {
			return createMint(ctx)
		},
		Flags: []cli.Flag{authorityFlag, freezeAuthorityFlag, decimalsFlag, supplyFlag},
	}
	createExtensionCommand = cli.Command{
		Name:  "create-extension",
		Usage: "Allocate a zeroed extension account owned by the registry program",
		Action: func(ctx *cli.Context) error {
			return createExtension(ctx)
		},
		Flags: []cli.Flag{
			extensionFlag(true),
			lamportsFlag(false, "initial balance, defaults to the rent exempt minimum"),
		},
	}
	airdropCommand = cli.Command{
		Name:  "airdrop",
		Usage: "Credit lamports to an account",
		Action: func(ctx *cli.Context) error {
			return airdrop(ctx)
		},
		Flags: []cli.Flag{addressFlag, lamportsFlag(true, "amount to credit")},
	}
	registerCommand = cli.Command{
		Name:  "register",
		Usage: "Attach symbol and name to a mint",
		Action: func(ctx *cli.Context) error {
			return register(ctx)
		},
		Flags: []cli.Flag{mintFlag, symbolFlag, nameFlag, authorityKeyFlag, extensionKeyFlag},
	}
	modifyCommand = cli.Command{
		Name:  "modify",
		Usage: "Replace symbol and name of a registered mint",
		Action: func(ctx *cli.Context) error {
			return modify(ctx)
		},
		Flags: []cli.Flag{mintFlag, symbolFlag, nameFlag, extensionFlag(true), authorityKeyFlag},
	}
	closeCommand = cli.Command{
		Name:  "close",
		Usage: "Revoke a registration and refund the extension balance to the mint authority",
		Action: func(ctx *cli.Context) error {
			return closeMint(ctx)
		},
		Flags: []cli.Flag{mintFlag, extensionFlag(true), authorityKeyFlag},
	}
	showCommand = cli.Command{
		Name:  "show",
		Usage: "Show an extension account, or all of them if none is given",
		Action: func(ctx *cli.Context) error {
			return show(ctx)
		},
		Flags: []cli.Flag{extensionFlag(false), mintFilterFlag},
	}
	balanceCommand = cli.Command{
		Name:  "balance",
		Usage: "Show the balance of an account",
		Action: func(ctx *cli.Context) error {
			return balance(ctx)
		},
		Flags: []cli.Flag{addressFlag},
	}
	decodeInstructionCommand = cli.Command{
		Name:  "decode-instruction",
		Usage: "Decode hex encoded registry instruction data",
		Action: func(ctx *cli.Context) error {
			return decodeInstruction(ctx)
		},
		Flags: []cli.Flag{dataFlag},
	}
)

func appService() (application.Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("missing config")
	}
	return cfg.AppService()
}
