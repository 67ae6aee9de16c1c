package instruction_test

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/arkade-os/mint-registry/pkg/errors"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/instruction"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

type instructionFixtures struct {
	Valid []struct {
		Name          string `json:"name"`
		SerializedHex string `json:"serialized_hex"`
		Type          string `json:"type"`
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

func TestInstruction(t *testing.T) {
	var fixtures instructionFixtures
	buf, err := os.ReadFile("testdata/instruction_fixtures.json")
	require.NoError(t, err)
	err = json.Unmarshal(buf, &fixtures)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		for _, v := range fixtures.Valid {
			t.Run(v.Name, func(t *testing.T) {
				ix, err := instruction.NewInstructionFromString(v.SerializedHex)
				require.NoError(t, err)
				require.NotNil(t, ix)
				require.Equal(t, v.Type, ix.Tag().String())

				switch decoded := ix.(type) {
				case instruction.RegisterMint:
					require.Equal(t, v.Mint, decoded.Mint.String())
					require.Equal(t, v.Symbol, decoded.Symbol)
					require.Equal(t, v.Label, decoded.Name)
				case instruction.ModifyMint:
					require.Equal(t, v.Symbol, decoded.Symbol)
					require.Equal(t, v.Label, decoded.Name)
				case instruction.CloseMint:
				default:
					t.Fatalf("unexpected instruction %T", ix)
				}

				got, err := ix.Serialize()
				require.NoError(t, err)
				require.Equal(t, v.SerializedHex, hex.EncodeToString(got))
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, v := range fixtures.Invalid {
			t.Run(v.Name, func(t *testing.T) {
				got, err := instruction.NewInstructionFromString(v.SerializedHex)
				require.Error(t, err)
				require.Contains(t, err.Error(), v.ExpectedError)
				require.Nil(t, got)
			})
		}
	})
}

func TestDecodeErrorsAreInvalidInstruction(t *testing.T) {
	for _, data := range [][]byte{nil, {}, {0}, {9}, {1, 1, 1}, {3, 1, 0xc0, 0}} {
		ix, err := instruction.Decode(data)
		require.Nil(t, ix)
		require.True(t, errors.INVALID_INSTRUCTION.Is(err), "data %x", data)
	}
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	ix, err := instruction.Decode([]byte{2, 0xde, 0xad})
	require.NoError(t, err)
	require.Equal(t, instruction.CloseMint{}, ix)

	ix, err = instruction.Decode([]byte{3, 1, 'A', 1, 'B', 0xff})
	require.NoError(t, err)
	require.Equal(t, instruction.ModifyMint{Symbol: "A", Name: "B"}, ix)
}

func TestEncode(t *testing.T) {
	mint := solana.PublicKeyFromBytes([]byte(strings.Repeat("\x02", 32)))

	t.Run("close", func(t *testing.T) {
		got, err := instruction.Encode(instruction.CloseMint{})
		require.NoError(t, err)
		require.Equal(t, []byte{2}, got)
	})

	t.Run("register", func(t *testing.T) {
		got, err := instruction.Encode(instruction.RegisterMint{
			Mint:   mint,
			Symbol: "CZCOIN",
			Name:   "CZ's COIN",
		})
		require.NoError(t, err)

		want := append([]byte{1}, mint[:]...)
		want = append(want, 6)
		want = append(want, "CZCOIN"...)
		want = append(want, 9)
		want = append(want, "CZ's COIN"...)
		require.Equal(t, want, got)
	})

	t.Run("modify", func(t *testing.T) {
		got, err := instruction.Encode(instruction.ModifyMint{Symbol: "CZCOIN"})
		require.NoError(t, err)
		require.Equal(t, append(append([]byte{3, 6}, "CZCOIN"...), 0), got)
	})

	t.Run("string too long", func(t *testing.T) {
		got, err := instruction.Encode(instruction.ModifyMint{Symbol: strings.Repeat("a", 256)})
		require.Error(t, err)
		require.Nil(t, got)
		require.True(t, errors.INVALID_INSTRUCTION.Is(err))
		require.Contains(t, err.Error(), "invalid symbol")

		_, err = instruction.RegisterMint{Name: strings.Repeat("a", 300)}.Serialize()
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid name")
	})

	t.Run("invalid utf8", func(t *testing.T) {
		got, err := instruction.Encode(instruction.ModifyMint{Symbol: "\xff\xfe"})
		require.Error(t, err)
		require.Nil(t, got)
		require.True(t, errors.INVALID_INSTRUCTION.Is(err))
		require.Contains(t, err.Error(), "invalid symbol")

		_, err = instruction.RegisterMint{Mint: mint, Name: "ab\xc3"}.Serialize()
		require.ErrorContains(t, err, "invalid name")
	})

	t.Run("empty last field", func(t *testing.T) {
		for _, ix := range []instruction.Instruction{
			instruction.RegisterMint{Mint: mint},
			instruction.RegisterMint{Mint: mint, Symbol: "CZCOIN"},
			instruction.ModifyMint{Symbol: "CZCOIN"},
			instruction.ModifyMint{},
		} {
			buf, err := instruction.Encode(ix)
			require.NoError(t, err)
			got, err := instruction.Decode(buf)
			require.NoError(t, err)
			require.Equal(t, ix, got)
		}
	})

	t.Run("nil", func(t *testing.T) {
		_, err := instruction.Encode(nil)
		require.Error(t, err)
	})
}

func TestRoundTrip(t *testing.T) {
	mint := solana.PublicKeyFromBytes([]byte(strings.Repeat("\x07", 32)))
	lengths := []int{0, 1, 15, 16, 100, 255}

	for _, symbolLen := range lengths {
		for _, nameLen := range lengths {
			symbol := strings.Repeat("s", symbolLen)
			name := strings.Repeat("n", nameLen)

			for _, ix := range []instruction.Instruction{
				instruction.RegisterMint{Mint: mint, Symbol: symbol, Name: name},
				instruction.ModifyMint{Symbol: symbol, Name: name},
				instruction.CloseMint{},
			} {
				buf, err := ix.Serialize()
				require.NoError(t, err)
				got, err := instruction.Decode(buf)
				require.NoError(t, err)
				require.Equal(t, ix, got)
			}
		}
	}
}
