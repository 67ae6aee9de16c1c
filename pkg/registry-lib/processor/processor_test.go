package processor_test

import (
	"math"
	"testing"

	"github.com/arkade-os/mint-registry/pkg/errors"
	registrylib "github.com/arkade-os/mint-registry/pkg/registry-lib"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/instruction"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/processor"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/state"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

var (
	programID    = registrylib.ProgramID
	authorityKey = key(1)
	mintKey      = key(2)
	extensionKey = key(3)
	otherKey     = key(4)
)

func TestRegisterMint(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		accounts := registerAccounts(mintAccount(&authorityKey), emptyExtension(1000))
		data := encode(t, instruction.RegisterMint{Mint: mintKey, Symbol: "CZCOIN", Name: "CZ's COIN"})

		err := processor.Process(programID, accounts, data)
		require.NoError(t, err)

		ext, err := state.NewMintExtensionFromBytes(accounts[2].Data)
		require.NoError(t, err)
		require.True(t, ext.IsInitialized)
		require.Equal(t, mintKey, ext.Mint)
		require.Equal(t, "CZCOIN", ext.SymbolString())
		require.Equal(t, "CZ's COIN", ext.NameString())
		require.Equal(t, uint64(1000), accounts[2].Lamports)
	})

	t.Run("max length labels", func(t *testing.T) {
		accounts := registerAccounts(mintAccount(&authorityKey), emptyExtension(1000))
		data := encode(t, instruction.RegisterMint{
			Mint: mintKey, Symbol: "ABCDEFGHIJKLMNO", Name: "abcdefghijklmno",
		})
		require.NoError(t, processor.Process(programID, accounts, data))
	})

	t.Run("invalid", func(t *testing.T) {
		registered, err := state.NewMintExtension(mintKey, "OLD", "Old name")
		require.NoError(t, err)

		testCases := []struct {
			name     string
			accounts []*registrylib.AccountInfo
			ix       instruction.RegisterMint
			code     uint16
		}{
			{
				name:     "symbol too long",
				accounts: registerAccounts(mintAccount(&authorityKey), emptyExtension(1000)),
				ix:       instruction.RegisterMint{Mint: mintKey, Symbol: "ABCDEFGHIJKLMNOP"},
				code:     errors.SYMBOL_TOO_LONG.Code,
			},
			{
				name:     "name too long",
				accounts: registerAccounts(mintAccount(&authorityKey), emptyExtension(1000)),
				ix:       instruction.RegisterMint{Mint: mintKey, Name: "abcdefghijklmnop"},
				code:     errors.SYMBOL_TOO_LONG.Code,
			},
			{
				name:     "already registered",
				accounts: registerAccounts(mintAccount(&authorityKey), extensionAccount(registered, 1000)),
				ix:       instruction.RegisterMint{Mint: mintKey, Symbol: "NEW"},
				code:     errors.ALREADY_REGISTERED.Code,
			},
			{
				name:     "mint without authority",
				accounts: registerAccounts(mintAccount(nil), emptyExtension(1000)),
				ix:       instruction.RegisterMint{Mint: mintKey, Symbol: "CZ"},
				code:     errors.NO_MINT_AUTHORITY.Code,
			},
			{
				name:     "authority mismatch",
				accounts: registerAccounts(mintAccount(&otherKey), emptyExtension(1000)),
				ix:       instruction.RegisterMint{Mint: mintKey, Symbol: "CZ"},
				code:     errors.NO_AUTHORITY.Code,
			},
			{
				name: "authority did not sign",
				accounts: func() []*registrylib.AccountInfo {
					accounts := registerAccounts(mintAccount(&authorityKey), emptyExtension(1000))
					accounts[1].IsSigner = false
					return accounts
				}(),
				ix:   instruction.RegisterMint{Mint: mintKey, Symbol: "CZ"},
				code: errors.MISSING_REQUIRED_SIGNATURE.Code,
			},
			{
				name: "extension did not sign",
				accounts: func() []*registrylib.AccountInfo {
					accounts := registerAccounts(mintAccount(&authorityKey), emptyExtension(1000))
					accounts[2].IsSigner = false
					return accounts
				}(),
				ix:   instruction.RegisterMint{Mint: mintKey, Symbol: "CZ"},
				code: errors.MISSING_REQUIRED_SIGNATURE.Code,
			},
			{
				name:     "not enough accounts",
				accounts: registerAccounts(mintAccount(&authorityKey), emptyExtension(1000))[:2],
				ix:       instruction.RegisterMint{Mint: mintKey, Symbol: "CZ"},
				code:     errors.NOT_ENOUGH_ACCOUNT_KEYS.Code,
			},
			{
				name: "malformed mint",
				accounts: func() []*registrylib.AccountInfo {
					accounts := registerAccounts(mintAccount(&authorityKey), emptyExtension(1000))
					accounts[0].Data = accounts[0].Data[:state.MINT_LEN-1]
					return accounts
				}(),
				ix:   instruction.RegisterMint{Mint: mintKey, Symbol: "CZ"},
				code: errors.INVALID_ACCOUNT_DATA.Code,
			},
			{
				name: "malformed extension",
				accounts: func() []*registrylib.AccountInfo {
					accounts := registerAccounts(mintAccount(&authorityKey), emptyExtension(1000))
					accounts[2].Data = make([]byte, state.MINT_EXTENSION_LEN+1)
					return accounts
				}(),
				ix:   instruction.RegisterMint{Mint: mintKey, Symbol: "CZ"},
				code: errors.INVALID_ACCOUNT_DATA.Code,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				before := snapshot(tc.accounts)
				err := processor.Process(programID, tc.accounts, encode(t, tc.ix))
				requireCode(t, tc.code, err)
				require.Equal(t, before, tc.accounts)
			})
		}
	})
}

func TestModifyMint(t *testing.T) {
	registered, err := state.NewMintExtension(mintKey, "LONGSYMBOL", "A long name")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		accounts := modifyAccounts(mintAccount(&authorityKey), extensionAccount(registered, 1000))
		data := encode(t, instruction.ModifyMint{Symbol: "CZ", Name: ""})

		err := processor.Process(programID, accounts, data)
		require.NoError(t, err)

		ext, err := state.NewMintExtensionFromBytes(accounts[2].Data)
		require.NoError(t, err)
		require.True(t, ext.IsInitialized)
		require.Equal(t, mintKey, ext.Mint)
		require.Equal(t, "CZ", ext.SymbolString())
		require.Equal(t, "", ext.NameString())

		// stale bytes of the previous, longer values are cleared
		want, err := state.NewMintExtension(mintKey, "CZ", "")
		require.NoError(t, err)
		require.Equal(t, want.Serialize(), accounts[2].Data)
	})

	t.Run("invalid", func(t *testing.T) {
		testCases := []struct {
			name     string
			accounts []*registrylib.AccountInfo
			ix       instruction.ModifyMint
			code     uint16
		}{
			{
				name:     "not registered",
				accounts: modifyAccounts(mintAccount(&authorityKey), emptyExtension(1000)),
				ix:       instruction.ModifyMint{Symbol: "CZ"},
				code:     errors.NO_REGISTRY.Code,
			},
			{
				name:     "symbol too long",
				accounts: modifyAccounts(mintAccount(&authorityKey), extensionAccount(registered, 1000)),
				ix:       instruction.ModifyMint{Symbol: "ABCDEFGHIJKLMNOP"},
				code:     errors.SYMBOL_TOO_LONG.Code,
			},
			{
				name:     "authority mismatch",
				accounts: modifyAccounts(mintAccount(&otherKey), extensionAccount(registered, 1000)),
				ix:       instruction.ModifyMint{Symbol: "CZ"},
				code:     errors.NO_AUTHORITY.Code,
			},
			{
				name:     "mint without authority",
				accounts: modifyAccounts(mintAccount(nil), extensionAccount(registered, 1000)),
				ix:       instruction.ModifyMint{Symbol: "CZ"},
				code:     errors.NO_MINT_AUTHORITY.Code,
			},
			{
				name: "authority did not sign",
				accounts: func() []*registrylib.AccountInfo {
					accounts := modifyAccounts(mintAccount(&authorityKey), extensionAccount(registered, 1000))
					accounts[1].IsSigner = false
					return accounts
				}(),
				ix:   instruction.ModifyMint{Symbol: "CZ"},
				code: errors.MISSING_REQUIRED_SIGNATURE.Code,
			},
			{
				name:     "not enough accounts",
				accounts: modifyAccounts(mintAccount(&authorityKey), extensionAccount(registered, 1000))[:1],
				ix:       instruction.ModifyMint{Symbol: "CZ"},
				code:     errors.NOT_ENOUGH_ACCOUNT_KEYS.Code,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				before := snapshot(tc.accounts)
				err := processor.Process(programID, tc.accounts, encode(t, tc.ix))
				requireCode(t, tc.code, err)
				require.Equal(t, before, tc.accounts)
			})
		}
	})
}

func TestCloseMint(t *testing.T) {
	registered, err := state.NewMintExtension(mintKey, "CZCOIN", "CZ's COIN")
	require.NoError(t, err)
	data := encode(t, instruction.CloseMint{})

	t.Run("valid", func(t *testing.T) {
		accounts := closeAccounts(extensionAccount(registered, 100), 50, mintAccount(&authorityKey))

		err := processor.Process(programID, accounts, data)
		require.NoError(t, err)
		require.Equal(t, uint64(0), accounts[0].Lamports)
		require.Equal(t, uint64(150), accounts[1].Lamports)

		ext, err := state.NewMintExtensionFromBytes(accounts[0].Data)
		require.NoError(t, err)
		require.False(t, ext.IsInitialized)
		require.Equal(t, mintKey, ext.Mint)
		require.Equal(t, "CZCOIN", ext.SymbolString())
		require.Equal(t, "CZ's COIN", ext.NameString())
	})

	t.Run("invalid", func(t *testing.T) {
		testCases := []struct {
			name     string
			accounts []*registrylib.AccountInfo
			code     uint16
		}{
			{
				name: "overflow",
				accounts: closeAccounts(
					extensionAccount(registered, 1), math.MaxUint64, mintAccount(&authorityKey),
				),
				code: errors.OVERFLOW.Code,
			},
			{
				name: "destination is not the authority",
				accounts: closeAccounts(
					extensionAccount(registered, 100), 50, mintAccount(&otherKey),
				),
				code: errors.NO_AUTHORITY.Code,
			},
			{
				name: "mint without authority",
				accounts: closeAccounts(
					extensionAccount(registered, 100), 50, mintAccount(nil),
				),
				code: errors.NO_MINT_AUTHORITY.Code,
			},
			{
				name: "destination did not sign",
				accounts: func() []*registrylib.AccountInfo {
					accounts := closeAccounts(
						extensionAccount(registered, 100), 50, mintAccount(&authorityKey),
					)
					accounts[1].IsSigner = false
					return accounts
				}(),
				code: errors.MISSING_REQUIRED_SIGNATURE.Code,
			},
			{
				name: "not enough accounts",
				accounts: closeAccounts(
					extensionAccount(registered, 100), 50, mintAccount(&authorityKey),
				)[:2],
				code: errors.NOT_ENOUGH_ACCOUNT_KEYS.Code,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				before := snapshot(tc.accounts)
				err := processor.Process(programID, tc.accounts, data)
				requireCode(t, tc.code, err)
				require.Equal(t, before, tc.accounts)
			})
		}
	})
}

func TestInvalidInstruction(t *testing.T) {
	accounts := registerAccounts(mintAccount(&authorityKey), emptyExtension(1000))
	for _, data := range [][]byte{nil, {0}, {4}, {1, 2, 3}} {
		before := snapshot(accounts)
		err := processor.Process(programID, accounts, data)
		requireCode(t, errors.INVALID_INSTRUCTION.Code, err)
		require.Equal(t, before, accounts)
	}
}

func key(b byte) solana.PublicKey {
	var k solana.PublicKey
	for i := range k {
		k[i] = b
	}
	return k
}

func mintAccount(authority *solana.PublicKey) *registrylib.AccountInfo {
	mint := &state.Mint{
		MintAuthority: authority,
		Supply:        1_000_000,
		Decimals:      6,
		IsInitialized: true,
	}
	return &registrylib.AccountInfo{
		Key:      mintKey,
		Owner:    solana.TokenProgramID,
		Lamports: 1_461_600,
		Data:     mint.Serialize(),
	}
}

func emptyExtension(lamports uint64) *registrylib.AccountInfo {
	return &registrylib.AccountInfo{
		Key:        extensionKey,
		Owner:      programID,
		IsSigner:   true,
		IsWritable: true,
		Lamports:   lamports,
		Data:       make([]byte, state.MINT_EXTENSION_LEN),
	}
}

func extensionAccount(ext *state.MintExtension, lamports uint64) *registrylib.AccountInfo {
	account := emptyExtension(lamports)
	account.IsSigner = false
	account.Data = ext.Serialize()
	return account
}

func authorityAccount(lamports uint64) *registrylib.AccountInfo {
	return &registrylib.AccountInfo{
		Key:        authorityKey,
		Owner:      solana.SystemProgramID,
		IsSigner:   true,
		IsWritable: true,
		Lamports:   lamports,
	}
}

func registerAccounts(mint, ext *registrylib.AccountInfo) []*registrylib.AccountInfo {
	ext.IsSigner = true
	return []*registrylib.AccountInfo{mint, authorityAccount(0), ext}
}

func modifyAccounts(mint, ext *registrylib.AccountInfo) []*registrylib.AccountInfo {
	return []*registrylib.AccountInfo{mint, authorityAccount(0), ext}
}

func closeAccounts(
	ext *registrylib.AccountInfo, destinationLamports uint64, mint *registrylib.AccountInfo,
) []*registrylib.AccountInfo {
	return []*registrylib.AccountInfo{ext, authorityAccount(destinationLamports), mint}
}

func snapshot(accounts []*registrylib.AccountInfo) []*registrylib.AccountInfo {
	out := make([]*registrylib.AccountInfo, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Clone())
	}
	return out
}

func encode(t *testing.T, ix instruction.Instruction) []byte {
	t.Helper()
	data, err := ix.Serialize()
	require.NoError(t, err)
	return data
}

func requireCode(t *testing.T, want uint16, err error) {
	t.Helper()
	require.Error(t, err)
	got, ok := errors.CodeOf(err)
	require.True(t, ok, "error %v carries no code", err)
	require.Equal(t, want, got, err.Error())
}
