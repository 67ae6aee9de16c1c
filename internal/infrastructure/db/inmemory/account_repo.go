package inmemorydb

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/arkade-os/mint-registry/internal/core/domain"
	"github.com/gagliardetto/solana-go"
)

type accountRepository struct {
	lock     sync.RWMutex
	accounts map[solana.PublicKey]domain.Account
}

func NewAccountRepository(_ ...interface{}) (domain.AccountRepository, error) {
	return &accountRepository{
		accounts: make(map[solana.PublicKey]domain.Account),
	}, nil
}

func (r *accountRepository) Get(
	_ context.Context, key solana.PublicKey,
) (*domain.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	account, ok := r.accounts[key]
	if !ok {
		return nil, nil
	}
	account = copyAccount(account)
	return &account, nil
}

func (r *accountRepository) GetMany(
	_ context.Context, keys []solana.PublicKey,
) ([]domain.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	accounts := make([]domain.Account, 0, len(keys))
	for _, key := range keys {
		if account, ok := r.accounts[key]; ok {
			accounts = append(accounts, copyAccount(account))
		}
	}
	return accounts, nil
}

func (r *accountRepository) Upsert(_ context.Context, accounts ...domain.Account) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	now := time.Now().UnixMilli()
	for _, account := range accounts {
		account = copyAccount(account)
		account.UpdatedAt = now
		r.accounts[account.Key] = account
	}
	return nil
}

func (r *accountRepository) Delete(_ context.Context, key solana.PublicKey) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.accounts, key)
	return nil
}

func (r *accountRepository) List(
	_ context.Context, owner *solana.PublicKey,
) ([]domain.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	accounts := make([]domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		if owner != nil && !account.Owner.Equals(*owner) {
			continue
		}
		accounts = append(accounts, copyAccount(account))
	}
	domain.SortAccounts(accounts)
	return accounts, nil
}

func (r *accountRepository) Close() {}

func copyAccount(account domain.Account) domain.Account {
	account.Data = bytes.Clone(account.Data)
	return account
}
