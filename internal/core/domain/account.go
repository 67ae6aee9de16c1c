package domain

import (
	"bytes"
	"context"
	"sort"

	"github.com/gagliardetto/solana-go"
)

// Account is a persisted host account: a balance plus an opaque data buffer
// owned by a program.
type Account struct {
	Key       solana.PublicKey
	Owner     solana.PublicKey
	Lamports  uint64
	Data      []byte
	UpdatedAt int64
}

func (a Account) IsOwnedBy(program solana.PublicKey) bool {
	return a.Owner.Equals(program)
}

// Equal reports whether two accounts hold the same state, ignoring UpdatedAt.
func (a Account) Equal(other Account) bool {
	return a.Key.Equals(other.Key) &&
		a.Owner.Equals(other.Owner) &&
		a.Lamports == other.Lamports &&
		bytes.Equal(a.Data, other.Data)
}

// SortAccounts orders accounts by the raw bytes of their key, the order
// every AccountRepository lists them in.
func SortAccounts(accounts []Account) {
	sort.SliceStable(accounts, func(i, j int) bool {
		return bytes.Compare(accounts[i].Key[:], accounts[j].Key[:]) < 0
	})
}

type AccountRepository interface {
	// Get returns nil and no error if the account does not exist.
	Get(ctx context.Context, key solana.PublicKey) (*Account, error)
	// GetMany skips the keys that do not exist.
	GetMany(ctx context.Context, keys []solana.PublicKey) ([]Account, error)
	// Upsert writes all the given accounts or none of them.
	Upsert(ctx context.Context, accounts ...Account) error
	Delete(ctx context.Context, key solana.PublicKey) error
	// List returns the accounts owned by the given program, or all of them if
	// owner is nil, sorted with SortAccounts.
	List(ctx context.Context, owner *solana.PublicKey) ([]Account, error)
	Close()
}
