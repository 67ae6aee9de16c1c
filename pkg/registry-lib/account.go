package registrylib

import (
	"bytes"

	"github.com/arkade-os/mint-registry/pkg/errors"
	"github.com/gagliardetto/solana-go"
)

// AccountInfo is the view of an account the host hands to the program for a
// single invocation. Data and Lamports are mutated in place by the processor;
// the host decides whether to persist them.
type AccountInfo struct {
	Key        solana.PublicKey
	Owner      solana.PublicKey
	IsSigner   bool
	IsWritable bool
	Lamports   uint64
	Data       []byte
}

// Clone returns a deep copy of the account.
func (a *AccountInfo) Clone() *AccountInfo {
	return &AccountInfo{
		Key:        a.Key,
		Owner:      a.Owner,
		IsSigner:   a.IsSigner,
		IsWritable: a.IsWritable,
		Lamports:   a.Lamports,
		Data:       bytes.Clone(a.Data),
	}
}

// AccountIter walks the ordered account list of an instruction.
type AccountIter struct {
	accounts []*AccountInfo
	pos      int
}

func NewAccountIter(accounts []*AccountInfo) *AccountIter {
	return &AccountIter{accounts: accounts}
}

// Next returns the next account, or NOT_ENOUGH_ACCOUNT_KEYS once the list is
// exhausted.
func (it *AccountIter) Next() (*AccountInfo, error) {
	if it.pos >= len(it.accounts) || it.accounts[it.pos] == nil {
		return nil, errors.NOT_ENOUGH_ACCOUNT_KEYS.New(
			"expected at least %d accounts, got %d", it.pos+1, len(it.accounts),
		).WithMetadata(errors.NotEnoughAccountKeysMetadata{
			Got:      len(it.accounts),
			Expected: it.pos + 1,
		})
	}
	account := it.accounts[it.pos]
	it.pos++
	return account, nil
}
