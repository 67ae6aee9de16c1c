package redisdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arkade-os/mint-registry/internal/core/domain"
	"github.com/gagliardetto/solana-go"
	"github.com/redis/go-redis/v9"
)

const (
	accountKeyPrefix  = "account"
	ownerIndexPrefix  = "accounts:owner"
	allAccountsKey    = "accounts:all"
	defaultNumRetries = 5
)

type accountRepository struct {
	rdb          *redis.Client
	numOfRetries int
	retryDelay   time.Duration
}

// NewAccountRepository expects the redis url and, optionally, the number of
// retries for optimistic transactions.
func NewAccountRepository(config ...interface{}) (domain.AccountRepository, error) {
	if len(config) < 1 {
		return nil, fmt.Errorf("invalid config")
	}
	url, ok := config[0].(string)
	if !ok || len(url) <= 0 {
		return nil, fmt.Errorf("invalid redis url")
	}
	numOfRetries := defaultNumRetries
	if len(config) > 1 && config[1] != nil {
		numOfRetries, ok = config[1].(int)
		if !ok || numOfRetries <= 0 {
			return nil, fmt.Errorf("invalid number of retries")
		}
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// nolint:all
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &accountRepository{
		rdb:          rdb,
		numOfRetries: numOfRetries,
		retryDelay:   10 * time.Millisecond,
	}, nil
}

func (r *accountRepository) Get(
	ctx context.Context, key solana.PublicKey,
) (*domain.Account, error) {
	buf, err := r.rdb.Get(ctx, accountKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account %s: %w", key, err)
	}
	dto, err := deserializeAccount(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode account %s: %w", key, err)
	}
	return dto.toDomain(), nil
}

func (r *accountRepository) GetMany(
	ctx context.Context, keys []solana.PublicKey,
) ([]domain.Account, error) {
	if len(keys) <= 0 {
		return nil, nil
	}
	redisKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		redisKeys = append(redisKeys, accountKey(key))
	}
	return r.getMany(ctx, redisKeys)
}

func (r *accountRepository) Upsert(ctx context.Context, accounts ...domain.Account) error {
	if len(accounts) <= 0 {
		return nil
	}

	now := time.Now().UnixMilli()
	values := make(map[string][]byte, len(accounts))
	keys := make([]string, 0, len(accounts))
	for _, account := range accounts {
		key := accountKey(account.Key)
		buf, err := newAccountDTO(account, now).serialize()
		if err != nil {
			return fmt.Errorf("failed to encode account %s: %w", account.Key, err)
		}
		if _, ok := values[key]; !ok {
			keys = append(keys, key)
		}
		values[key] = buf
	}

	var err error
	for range r.numOfRetries {
		if err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
			// owners may change, keep the owner index in sync
			prevOwners := make(map[string]string)
			for _, key := range keys {
				buf, err := tx.Get(ctx, key).Bytes()
				if err != nil {
					if errors.Is(err, redis.Nil) {
						continue
					}
					return err
				}
				dto, err := deserializeAccount(buf)
				if err != nil {
					return err
				}
				prevOwners[key] = dto.owner().String()
			}

			_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for _, account := range accounts {
					key := accountKey(account.Key)
					owner := account.Owner.String()
					if prev, ok := prevOwners[key]; ok && prev != owner {
						pipe.SRem(ctx, ownerIndexKey(prev), key)
					}
					pipe.Set(ctx, key, values[key], 0)
					pipe.SAdd(ctx, ownerIndexKey(owner), key)
					pipe.SAdd(ctx, allAccountsKey, key)
				}
				return nil
			})
			return err
		}, keys...); err == nil {
			return nil
		}
		time.Sleep(r.retryDelay)
	}
	return fmt.Errorf("failed to upsert accounts after max number of retries: %v", err)
}

func (r *accountRepository) Delete(ctx context.Context, key solana.PublicKey) error {
	redisKey := accountKey(key)

	var err error
	for range r.numOfRetries {
		if err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
			buf, err := tx.Get(ctx, redisKey).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return nil
				}
				return err
			}
			dto, err := deserializeAccount(buf)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, redisKey)
				pipe.SRem(ctx, ownerIndexKey(dto.owner().String()), redisKey)
				pipe.SRem(ctx, allAccountsKey, redisKey)
				return nil
			})
			return err
		}, redisKey); err == nil {
			return nil
		}
		time.Sleep(r.retryDelay)
	}
	return fmt.Errorf("failed to delete account after max number of retries: %v", err)
}

func (r *accountRepository) List(
	ctx context.Context, owner *solana.PublicKey,
) ([]domain.Account, error) {
	setKey := allAccountsKey
	if owner != nil {
		setKey = ownerIndexKey(owner.String())
	}
	keys, err := r.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(keys) <= 0 {
		return []domain.Account{}, nil
	}
	accounts, err := r.getMany(ctx, keys)
	if err != nil {
		return nil, err
	}
	domain.SortAccounts(accounts)
	return accounts, nil
}

func (r *accountRepository) Close() {
	// nolint:all
	r.rdb.Close()
}

func (r *accountRepository) getMany(
	ctx context.Context, keys []string,
) ([]domain.Account, error) {
	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(values))
	for i, value := range values {
		if value == nil {
			continue
		}
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected value type %T for %s", value, keys[i])
		}
		dto, err := deserializeAccount([]byte(str))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", keys[i], err)
		}
		accounts = append(accounts, *dto.toDomain())
	}
	return accounts, nil
}

func accountKey(key solana.PublicKey) string {
	return fmt.Sprintf("%s:%s", accountKeyPrefix, key)
}

func ownerIndexKey(owner string) string {
	return fmt.Sprintf("%s:%s", ownerIndexPrefix, owner)
}
