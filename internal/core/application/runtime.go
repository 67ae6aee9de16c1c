package application

import (
	"bytes"
	"math/big"

	"github.com/arkade-os/mint-registry/internal/core/domain"
	"github.com/arkade-os/mint-registry/pkg/errors"
	registrylib "github.com/arkade-os/mint-registry/pkg/registry-lib"
	"github.com/gagliardetto/solana-go"
)

type loadedAccount struct {
	before domain.Account
	info   *registrylib.AccountInfo
}

// transaction holds the accounts of one instruction, deduplicated by key.
// An account listed more than once is handed to the program as the same
// AccountInfo, with writable and signer flags merged.
type transaction struct {
	accounts []*loadedAccount
	index    map[solana.PublicKey]int
	// order maps each instruction account position to its loaded account.
	order []int
}

func newTransaction() *transaction {
	return &transaction{index: make(map[solana.PublicKey]int)}
}

func (t *transaction) add(account domain.Account, writable, signer bool) {
	if i, ok := t.index[account.Key]; ok {
		loaded := t.accounts[i]
		loaded.info.IsWritable = loaded.info.IsWritable || writable
		loaded.info.IsSigner = loaded.info.IsSigner || signer
		t.order = append(t.order, i)
		return
	}

	t.index[account.Key] = len(t.accounts)
	t.order = append(t.order, len(t.accounts))
	t.accounts = append(t.accounts, &loadedAccount{
		before: account,
		info:   &registrylib.AccountInfo{
			Key:        account.Key,
			Owner:      account.Owner,
			IsSigner:   signer,
			IsWritable: writable,
			Lamports:   account.Lamports,
			Data:       bytes.Clone(account.Data),
		},
	})
}

func (t *transaction) invocationInfos() []*registrylib.AccountInfo {
	infos := make([]*registrylib.AccountInfo, 0, len(t.order))
	for _, i := range t.order {
		infos = append(infos, t.accounts[i].info)
	}
	return infos
}

// verify enforces the host rules on the accounts the program touched and
// returns the writable accounts whose state changed.
func (t *transaction) verify(programID solana.PublicKey) ([]domain.Account, error) {
	sumBefore, sumAfter := new(big.Int), new(big.Int)
	updated := make([]domain.Account, 0, len(t.accounts))

	for _, loaded := range t.accounts {
		before, info := loaded.before, loaded.info
		sumBefore.Add(sumBefore, new(big.Int).SetUint64(before.Lamports))
		sumAfter.Add(sumAfter, new(big.Int).SetUint64(info.Lamports))

		dataChanged := !bytes.Equal(before.Data, info.Data)
		lamportsChanged := before.Lamports != info.Lamports
		if !dataChanged && !lamportsChanged {
			continue
		}

		if !info.IsWritable {
			return nil, errors.READONLY_ACCOUNT_MODIFIED.New(
				"read-only account %s was modified", info.Key,
			).WithMetadata(errors.AccountMetadata{Account: info.Key.String()})
		}
		if !before.IsOwnedBy(programID) && (dataChanged || info.Lamports < before.Lamports) {
			return nil, errors.EXTERNAL_ACCOUNT_MODIFIED.New(
				"account %s is owned by %s", info.Key, before.Owner,
			).WithMetadata(errors.AccountMetadata{Account: info.Key.String()})
		}

		updated = append(updated, domain.Account{
			Key:      before.Key,
			Owner:    before.Owner,
			Lamports: info.Lamports,
			Data:     bytes.Clone(info.Data),
		})
	}

	if sumBefore.Cmp(sumAfter) != 0 {
		return nil, errors.UNBALANCED_TRANSACTION.New(
			"lamports before %s, after %s", sumBefore, sumAfter,
		).WithMetadata(errors.UnbalancedTransactionMetadata{
			Before: truncate(sumBefore),
			After:  truncate(sumAfter),
		})
	}
	return updated, nil
}

func truncate(n *big.Int) uint64 {
	if !n.IsUint64() {
		return ^uint64(0)
	}
	return n.Uint64()
}
