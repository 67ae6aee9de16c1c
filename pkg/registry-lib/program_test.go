package registrylib_test

import (
	"testing"

	"github.com/arkade-os/mint-registry/pkg/errors"
	registrylib "github.com/arkade-os/mint-registry/pkg/registry-lib"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/state"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestLabelBound(t *testing.T) {
	require.Equal(t, state.LABEL_BUFFER_LEN-1, registrylib.MAX_LABEL_LEN)
}

func TestAccountIter(t *testing.T) {
	accounts := []*registrylib.AccountInfo{
		{Key: solana.PublicKey{1}, Lamports: 1},
		{Key: solana.PublicKey{2}, Lamports: 2},
	}
	iter := registrylib.NewAccountIter(accounts)

	first, err := iter.Next()
	require.NoError(t, err)
	require.Equal(t, uint64(1), first.Lamports)

	second, err := iter.Next()
	require.NoError(t, err)
	require.Equal(t, uint64(2), second.Lamports)

	third, err := iter.Next()
	require.Error(t, err)
	require.Nil(t, third)
	require.True(t, errors.NOT_ENOUGH_ACCOUNT_KEYS.Is(err))
}

func TestAccountInfoClone(t *testing.T) {
	account := &registrylib.AccountInfo{
		Key:      solana.PublicKey{9},
		IsSigner: true,
		Lamports: 42,
		Data:     []byte{1, 2, 3},
	}
	clone := account.Clone()
	require.Equal(t, account, clone)

	clone.Data[0] = 0xff
	clone.Lamports = 0
	require.Equal(t, byte(1), account.Data[0])
	require.Equal(t, uint64(42), account.Lamports)
}

func TestRentExemptMinimum(t *testing.T) {
	require.Equal(t, uint64(890_880), registrylib.RentExemptMinimum(0))
	require.Equal(t, uint64(1_357_200), registrylib.RentExemptMinimum(67))
	require.Equal(t, uint64(1_461_600), registrylib.RentExemptMinimum(82))
}
