package state_test

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"testing"

	"github.com/arkade-os/mint-registry/pkg/errors"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/state"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

type mintExtensionFixtures struct {
	Valid []struct {
		Name          string `json:"name"`
		SerializedHex string `json:"serialized_hex"`
		Initialized   bool   `json:"initialized"`
		Mint          string `json:"mint"`
		Symbol        string `json:"symbol"`
		Label         string `json:"label"`
	} `json:"valid"`
	Invalid []struct {
		Name          string `json:"name"`
		SerializedHex string `json:"serialized_hex"`
		ExpectedError string `json:"expected_error"`
	} `json:"invalid"`
}

func TestMintExtension(t *testing.T) {
	var fixtures mintExtensionFixtures
	buf, err := os.ReadFile("testdata/mint_extension_fixtures.json")
	require.NoError(t, err)
	err = json.Unmarshal(buf, &fixtures)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		for _, v := range fixtures.Valid {
			t.Run(v.Name, func(t *testing.T) {
				ext, err := state.NewMintExtensionFromString(v.SerializedHex)
				require.NoError(t, err)
				require.NotNil(t, ext)
				require.Equal(t, v.Initialized, ext.IsInitialized)
				require.Equal(t, v.Mint, ext.Mint.String())
				require.Equal(t, v.Symbol, ext.SymbolString())
				require.Equal(t, v.Label, ext.NameString())

				got := ext.Serialize()
				require.Len(t, got, state.MINT_EXTENSION_LEN)
				require.Equal(t, v.SerializedHex, ext.String())

				again, err := state.NewMintExtensionFromBytes(got)
				require.NoError(t, err)
				require.Equal(t, ext, again)
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, v := range fixtures.Invalid {
			t.Run(v.Name, func(t *testing.T) {
				got, err := state.NewMintExtensionFromString(v.SerializedHex)
				require.Error(t, err)
				require.Contains(t, err.Error(), v.ExpectedError)
				require.Nil(t, got)
			})
		}
	})
}

func TestMintExtensionInvalidAccountData(t *testing.T) {
	_, err := state.NewMintExtensionFromBytes(make([]byte, state.MINT_EXTENSION_LEN-1))
	require.True(t, errors.INVALID_ACCOUNT_DATA.Is(err))

	bad := make([]byte, state.MINT_EXTENSION_LEN)
	bad[0] = 7
	_, err = state.NewMintExtensionFromBytes(bad)
	require.True(t, errors.INVALID_ACCOUNT_DATA.Is(err))
}

func TestMintExtensionLabels(t *testing.T) {
	mint := solana.PublicKeyFromBytes(repeat(2, 32))

	t.Run("new", func(t *testing.T) {
		ext, err := state.NewMintExtension(mint, "CZCOIN", "CZ's COIN")
		require.NoError(t, err)
		require.True(t, ext.IsInitialized)
		require.Equal(t, uint8(6), ext.SymbolLen)
		require.Equal(t, uint8(9), ext.NameLen)
		require.Equal(t, "CZCOIN", ext.SymbolString())
		require.Equal(t, "CZ's COIN", ext.NameString())
	})

	t.Run("too long", func(t *testing.T) {
		ext, err := state.NewMintExtension(mint, "ABCDEFGHIJKLMNOP", "")
		require.Error(t, err)
		require.Nil(t, ext)
		require.True(t, errors.SYMBOL_TOO_LONG.Is(err))

		ext, err = state.NewMintExtension(mint, "", "abcdefghijklmnop")
		require.Error(t, err)
		require.Nil(t, ext)
		require.True(t, errors.SYMBOL_TOO_LONG.Is(err))
	})

	t.Run("shorter value clears stale bytes", func(t *testing.T) {
		ext, err := state.NewMintExtension(mint, "LONGSYMBOL", "A long name")
		require.NoError(t, err)

		require.NoError(t, ext.SetSymbol("X"))
		require.NoError(t, ext.SetName(""))
		require.Equal(t, "X", ext.SymbolString())
		require.Equal(t, "", ext.NameString())

		var wantSymbol [state.LABEL_BUFFER_LEN]byte
		wantSymbol[0] = 'X'
		require.Equal(t, wantSymbol, ext.Symbol)
		require.Equal(t, [state.LABEL_BUFFER_LEN]byte{}, ext.Name)
	})

	t.Run("failed set keeps previous value", func(t *testing.T) {
		ext, err := state.NewMintExtension(mint, "CZCOIN", "")
		require.NoError(t, err)
		require.Error(t, ext.SetSymbol("ABCDEFGHIJKLMNOP"))
		require.Equal(t, "CZCOIN", ext.SymbolString())
	})

	t.Run("out of range length is clamped", func(t *testing.T) {
		raw := make([]byte, state.MINT_EXTENSION_LEN)
		raw[0] = 1
		raw[33] = 200
		copy(raw[34:], "0123456789abcdef")
		ext, err := state.NewMintExtensionFromBytes(raw)
		require.NoError(t, err)
		require.Equal(t, "0123456789abcdef", ext.SymbolString())
		require.Equal(t, hex.EncodeToString(raw), ext.String())
	})
}

func TestMintExtensionPackInto(t *testing.T) {
	ext, err := state.NewMintExtension(solana.PublicKeyFromBytes(repeat(1, 32)), "SYM", "Name")
	require.NoError(t, err)

	dst := make([]byte, state.MINT_EXTENSION_LEN)
	require.NoError(t, ext.PackInto(dst))
	require.Equal(t, ext.Serialize(), dst)

	err = ext.PackInto(make([]byte, state.MINT_EXTENSION_LEN+1))
	require.True(t, errors.INVALID_ACCOUNT_DATA.Is(err))
}

func repeat(b byte, n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = b
	}
	return buf
}
