package db

import (
	"embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/arkade-os/mint-registry/internal/core/domain"
	"github.com/arkade-os/mint-registry/internal/core/ports"
	badgerdb "github.com/arkade-os/mint-registry/internal/infrastructure/db/badger"
	inmemorydb "github.com/arkade-os/mint-registry/internal/infrastructure/db/inmemory"
	redisdb "github.com/arkade-os/mint-registry/internal/infrastructure/db/redis"
	sqlitedb "github.com/arkade-os/mint-registry/internal/infrastructure/db/sqlite"
	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

//go:embed sqlite/migration/*
var migrations embed.FS

var (
	accountStoreTypes = map[string]func(...interface{}) (domain.AccountRepository, error){
		"badger":   badgerdb.NewAccountRepository,
		"sqlite":   sqlitedb.NewAccountRepository,
		"redis":    redisdb.NewAccountRepository,
		"inmemory": inmemorydb.NewAccountRepository,
	}
)

const (
	sqliteDbFile = "sqlite.db"
)

type ServiceConfig struct {
	DataStoreType string

	DataStoreConfig []interface{}
}

type service struct {
	accountStore domain.AccountRepository
}

func NewService(config ServiceConfig) (ports.RepoManager, error) {
	accountStoreFactory, ok := accountStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("invalid data store type: %s", config.DataStoreType)
	}

	var (
		accountStore domain.AccountRepository
		err          error
	)

	switch config.DataStoreType {
	case "sqlite":
		if len(config.DataStoreConfig) != 1 {
			return nil, fmt.Errorf("invalid data store config")
		}

		baseDir, ok := config.DataStoreConfig[0].(string)
		if !ok {
			return nil, fmt.Errorf("invalid base directory")
		}

		dbFile := filepath.Join(baseDir, sqliteDbFile)
		db, err := sqlitedb.OpenDb(dbFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %s", err)
		}

		driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to init driver: %s", err)
		}

		source, err := iofs.New(migrations, "sqlite/migration")
		if err != nil {
			return nil, fmt.Errorf("failed to embed migrations: %s", err)
		}

		m, err := migrate.NewWithInstance("iofs", source, "registrydb", driver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migration instance: %s", err)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return nil, fmt.Errorf("failed to run migrations: %s", err)
		}

		accountStore, err = accountStoreFactory(db)
		if err != nil {
			return nil, fmt.Errorf("failed to open account store: %s", err)
		}
	default:
		accountStore, err = accountStoreFactory(config.DataStoreConfig...)
		if err != nil {
			return nil, fmt.Errorf("failed to open account store: %s", err)
		}
	}

	log.Debugf("opened %s account store", config.DataStoreType)

	return &service{accountStore}, nil
}

func (s *service) Accounts() domain.AccountRepository {
	return s.accountStore
}

func (s *service) Close() {
	s.accountStore.Close()
}
