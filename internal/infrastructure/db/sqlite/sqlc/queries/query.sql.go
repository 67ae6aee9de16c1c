package queries

import (
	"context"
)

const deleteAccount = `-- name: DeleteAccount :exec
DELETE FROM account WHERE key = ?
`

func (q *Queries) DeleteAccount(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteAccount, key)
	return err
}

const selectAccount = `-- name: SelectAccount :one
SELECT key, owner, lamports, data, updated_at FROM account WHERE key = ?
`

func (q *Queries) SelectAccount(ctx context.Context, key string) (Account, error) {
	row := q.db.QueryRowContext(ctx, selectAccount, key)
	var i Account
	err := row.Scan(
		&i.Key,
		&i.Owner,
		&i.Lamports,
		&i.Data,
		&i.UpdatedAt,
	)
	return i, err
}

const selectAccountsByOwner = `-- name: SelectAccountsByOwner :many
SELECT key, owner, lamports, data, updated_at FROM account WHERE owner = ?
`

func (q *Queries) SelectAccountsByOwner(ctx context.Context, owner string) ([]Account, error) {
	return q.selectAccounts(ctx, selectAccountsByOwner, owner)
}

const selectAllAccounts = `-- name: SelectAllAccounts :many
SELECT key, owner, lamports, data, updated_at FROM account
`

func (q *Queries) SelectAllAccounts(ctx context.Context) ([]Account, error) {
	return q.selectAccounts(ctx, selectAllAccounts)
}

const upsertAccount = `-- name: UpsertAccount :exec
INSERT INTO account (key, owner, lamports, data, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    owner = EXCLUDED.owner,
    lamports = EXCLUDED.lamports,
    data = EXCLUDED.data,
    updated_at = EXCLUDED.updated_at
`

type UpsertAccountParams struct {
	Key       string
	Owner     string
	Lamports  int64
	Data      []byte
	UpdatedAt int64
}

func (q *Queries) UpsertAccount(ctx context.Context, arg UpsertAccountParams) error {
	_, err := q.db.ExecContext(ctx, upsertAccount,
		arg.Key,
		arg.Owner,
		arg.Lamports,
		arg.Data,
		arg.UpdatedAt,
	)
	return err
}

func (q *Queries) selectAccounts(
	ctx context.Context, query string, args ...interface{},
) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.Key,
			&i.Owner,
			&i.Lamports,
			&i.Data,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
