package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arkade-os/mint-registry/internal/core/domain"
	"github.com/arkade-os/mint-registry/internal/infrastructure/db/sqlite/sqlc/queries"
	"github.com/gagliardetto/solana-go"
)

type accountRepository struct {
	db      *sql.DB
	querier *queries.Queries
}

func NewAccountRepository(config ...interface{}) (domain.AccountRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config: expected 1 argument, got %d", len(config))
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf(
			"cannot open account repository: expected *sql.DB but got %T", config[0],
		)
	}

	return &accountRepository{
		db:      db,
		querier: queries.New(db),
	}, nil
}

func (r *accountRepository) Get(
	ctx context.Context, key solana.PublicKey,
) (*domain.Account, error) {
	row, err := r.querier.SelectAccount(ctx, key.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", key, err)
	}
	return toDomainAccount(row)
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

func (r *accountRepository) Upsert(ctx context.Context, accounts ...domain.Account) error {
	if len(accounts) <= 0 {
		return nil
	}

	now := time.Now().UnixMilli()
	txBody := func(querierWithTx *queries.Queries) error {
		for _, account := range accounts {
			if err := querierWithTx.UpsertAccount(ctx, queries.UpsertAccountParams{
				Key:       account.Key.String(),
				Owner:     account.Owner.String(),
				Lamports:  int64(account.Lamports),
				Data:      account.Data,
				UpdatedAt: now,
			}); err != nil {
				return fmt.Errorf("failed to upsert account %s: %w", account.Key, err)
			}
		}
		return nil
	}

	return execTx(ctx, r.db, txBody)
}

func (r *accountRepository) Delete(ctx context.Context, key solana.PublicKey) error {
	if err := r.querier.DeleteAccount(ctx, key.String()); err != nil {
		return fmt.Errorf("failed to delete account %s: %w", key, err)
	}
	return nil
}

func (r *accountRepository) List(
	ctx context.Context, owner *solana.PublicKey,
) ([]domain.Account, error) {
	var (
		rows []queries.Account
		err  error
	)
	if owner != nil {
		rows, err = r.querier.SelectAccountsByOwner(ctx, owner.String())
	} else {
		rows, err = r.querier.SelectAllAccounts(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		account, err := toDomainAccount(row)
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
	r.db.Close()
}

// Lamports are stored as the two's complement of the uint64 value, since
// sqlite integers are signed.
func toDomainAccount(row queries.Account) (*domain.Account, error) {
	key, err := solana.PublicKeyFromBase58(row.Key)
	if err != nil {
		return nil, fmt.Errorf("invalid account key %s: %w", row.Key, err)
	}
	owner, err := solana.PublicKeyFromBase58(row.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner of account %s: %w", row.Key, err)
	}
	return &domain.Account{
		Key:       key,
		Owner:     owner,
		Lamports:  uint64(row.Lamports),
		Data:      row.Data,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func execTx(
	ctx context.Context, db *sql.DB, txBody func(*queries.Queries) error,
) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	qtx := queries.New(db).WithTx(tx)

	if err := txBody(qtx); err != nil {
		//nolint:all
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
