package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arkade-os/mint-registry/internal/core/domain"
	"github.com/dgraph-io/badger/v4"
	"github.com/gagliardetto/solana-go"
	"github.com/timshannon/badgerhold/v4"
)

type accountDTO struct {
	Key       string
	Owner     string `badgerhold:"index"`
	Lamports  uint64
	Data      []byte
	UpdatedAt int64
}

type accountRepository struct {
	store *badgerhold.Store
}

func NewAccountRepository(config ...interface{}) (domain.AccountRepository, error) {
	if len(config) != 2 {
		return nil, fmt.Errorf("invalid config")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}
	var logger badger.Logger
	if config[1] != nil {
		logger, ok = config[1].(badger.Logger)
		if !ok {
			return nil, fmt.Errorf("invalid logger")
		}
	}

	store, err := createDB(baseDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open account store: %s", err)
	}

	return &accountRepository{store}, nil
}

func (r *accountRepository) Get(
	_ context.Context, key solana.PublicKey,
) (*domain.Account, error) {
	var dto accountDTO
	if err := r.store.Get(key.String(), &dto); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account %s: %w", key, err)
	}
	return dto.toDomain()
}

func (r *accountRepository) GetMany(
	ctx context.Context, keys []solana.PublicKey,
) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0, len(keys))
	for _, key := range keys {
		account, err := r.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if account == nil {
			continue
		}
		accounts = append(accounts, *account)
	}
	return accounts, nil
}

func (r *accountRepository) Upsert(_ context.Context, accounts ...domain.Account) error {
	if len(accounts) <= 0 {
		return nil
	}

	now := time.Now().UnixMilli()
	var err error
	for range maxRetries {
		err = func() error {
			tx := r.store.Badger().NewTransaction(true)
			defer tx.Discard()

			for _, account := range accounts {
				dto := newAccountDTO(account, now)
				if err := r.store.TxUpsert(tx, dto.Key, dto); err != nil {
					return err
				}
			}

			return tx.Commit()
		}()
		if err == nil {
			return nil
		}

		if errors.Is(err, badger.ErrConflict) {
			time.Sleep(100 * time.Millisecond)
			continue
		}
		return fmt.Errorf("failed to upsert accounts: %w", err)
	}

	return fmt.Errorf("failed to upsert accounts: %w", err)
}

func (r *accountRepository) Delete(_ context.Context, key solana.PublicKey) error {
	err := r.store.Delete(key.String(), accountDTO{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete account %s: %w", key, err)
	}
	return nil
}

func (r *accountRepository) List(
	_ context.Context, owner *solana.PublicKey,
) ([]domain.Account, error) {
	var query *badgerhold.Query
	if owner != nil {
		query = badgerhold.Where("Owner").Eq(owner.String()).Index("Owner")
	}

	var dtos []accountDTO
	if err := r.store.Find(&dtos, query); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(dtos))
	for _, dto := range dtos {
		account, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	domain.SortAccounts(accounts)
	return accounts, nil
}

func (r *accountRepository) Close() {
	// nolint:all
	r.store.Close()
}

func newAccountDTO(account domain.Account, updatedAt int64) accountDTO {
	return accountDTO{
		Key:       account.Key.String(),
		Owner:     account.Owner.String(),
		Lamports:  account.Lamports,
		Data:      account.Data,
		UpdatedAt: updatedAt,
	}
}

func (d accountDTO) toDomain() (*domain.Account, error) {
	key, err := solana.PublicKeyFromBase58(d.Key)
	if err != nil {
		return nil, fmt.Errorf("invalid account key %s: %w", d.Key, err)
	}
	owner, err := solana.PublicKeyFromBase58(d.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner of account %s: %w", d.Key, err)
	}
	return &domain.Account{
		Key:       key,
		Owner:     owner,
		Lamports:  d.Lamports,
		Data:      d.Data,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
