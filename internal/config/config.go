package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arkade-os/mint-registry/internal/core/application"
	"github.com/arkade-os/mint-registry/internal/core/ports"
	"github.com/arkade-os/mint-registry/internal/infrastructure/db"
	registrylib "github.com/arkade-os/mint-registry/pkg/registry-lib"
	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	supportedDbs = supportedType{
		"badger":   {},
		"sqlite":   {},
		"redis":    {},
		"inmemory": {},
	}
)

type Config struct {
	Datadir           string
	DbType            string
	DbDir             string
	RedisUrl          string
	RedisNumOfRetries int
	LogLevel          int
	ProgramID         string

	programID solana.PublicKey
	repo      ports.RepoManager
	svc       application.Service
}

func (c *Config) String() string {
	clone := *c
	if clone.RedisUrl != "" {
		clone.RedisUrl = redactUrl(clone.RedisUrl)
	}
	json, err := json.MarshalIndent(clone, "", "  ")
	if err != nil {
		return fmt.Sprintf("error while marshalling config JSON: %s", err)
	}
	return string(json)
}

var (
	defaultDatadir           = appDataDir("mint-registry")
	defaultDbType            = "badger"
	defaultRedisNumOfRetries = 10
	defaultLogLevel          = 4
)

// env returns a list of strings prefixed with `MINT_REGISTRY_`.
// This is used as a syntax sugar for defining env vars.
func env(values ...string) []string {
	envs := make([]string, len(values))

	for i, value := range values {
		envs[i] = fmt.Sprintf("MINT_REGISTRY_%s", value)
	}

	return envs
}

var (
	Datadir = &cli.StringFlag{
		Usage: "Directory to store data",
		Name:  "datadir", EnvVars: env("DATADIR"),
		Value: defaultDatadir,
	}

	DbType = &cli.StringFlag{
		Usage: "Account store type (badger, sqlite, redis, inmemory)",
		Name:  "db-type", EnvVars: env("DB_TYPE"),
		Value: defaultDbType,
	}

	RedisUrl = &cli.StringFlag{
		Usage: "Redis url, required if db type is 'redis'",
		Name:  "redis-url", EnvVars: env("REDIS_URL"),
	}

	RedisNumOfRetries = &cli.IntFlag{
		Usage: "Max number of attempts of an optimistic redis transaction",
		Name:  "redis-num-of-retries", EnvVars: env("REDIS_NUM_OF_RETRIES"),
		Value: defaultRedisNumOfRetries,
	}

	LogLevel = &cli.IntFlag{
		Usage: "Logging level (0-6, where 6 is trace)",
		Name:  "log-level", EnvVars: env("LOG_LEVEL"),
		Value: defaultLogLevel,
	}

	ProgramID = &cli.StringFlag{
		Usage: "Base58 id of the registry program",
		Name:  "program-id", EnvVars: env("PROGRAM_ID"),
		Value: registrylib.ProgramID.String(),
	}
)

var Flags = []cli.Flag{
	Datadir,
	DbType,
	RedisUrl,
	RedisNumOfRetries,
	LogLevel,
	ProgramID,
}

func LoadConfig(c *cli.Context) (*Config, error) {
	if err := initDatadir(c); err != nil {
		return nil, fmt.Errorf("failed to create datadir: %s", err)
	}

	var redisUrl string
	if c.String(DbType.Name) == "redis" {
		redisUrl = c.String(RedisUrl.Name)
		if redisUrl == "" {
			return nil, fmt.Errorf("db type set to 'redis' but redis url is missing")
		}
	}

	cfg := &Config{
		Datadir:           c.String(Datadir.Name),
		DbType:            c.String(DbType.Name),
		DbDir:             filepath.Join(c.String(Datadir.Name), "db"),
		RedisUrl:          redisUrl,
		RedisNumOfRetries: c.Int(RedisNumOfRetries.Name),
		LogLevel:          c.Int(LogLevel.Name),
		ProgramID:         c.String(ProgramID.Name),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.SetLevel(log.Level(cfg.LogLevel))
	return cfg, nil
}

func (c *Config) Validate() error {
	if !supportedDbs.supports(c.DbType) {
		return fmt.Errorf("db type not supported, please select one of: %s", supportedDbs)
	}
	if c.DbType == "redis" && c.RedisUrl == "" {
		return fmt.Errorf("missing redis url")
	}
	if c.RedisNumOfRetries <= 0 {
		return fmt.Errorf("redis num of retries must be positive")
	}
	if c.LogLevel < int(log.PanicLevel) || c.LogLevel > int(log.TraceLevel) {
		return fmt.Errorf("invalid log level %d, must be in range 0-6", c.LogLevel)
	}

	programID, err := solana.PublicKeyFromBase58(c.ProgramID)
	if err != nil {
		return fmt.Errorf("invalid program id: %s", err)
	}
	if programID.IsZero() {
		return fmt.Errorf("invalid program id: must not be zero")
	}
	c.programID = programID
	return nil
}

func (c *Config) AppService() (application.Service, error) {
	if c.svc == nil {
		if err := c.appService(); err != nil {
			return nil, err
		}
	}
	return c.svc, nil
}

func (c *Config) repoManager() error {
	var dataStoreConfig []interface{}
	logger := log.New()
	logger.SetLevel(log.Level(c.LogLevel))

	switch c.DbType {
	case "badger":
		dataStoreConfig = []interface{}{c.DbDir, logger}
	case "sqlite":
		dataStoreConfig = []interface{}{c.DbDir}
	case "redis":
		dataStoreConfig = []interface{}{c.RedisUrl, c.RedisNumOfRetries}
	case "inmemory":
		dataStoreConfig = []interface{}{}
	default:
		return fmt.Errorf("unknown db type")
	}

	if c.DbType == "badger" || c.DbType == "sqlite" {
		if err := makeDirectoryIfNotExists(c.DbDir); err != nil {
			return fmt.Errorf("failed to create db dir: %s", err)
		}
	}

	svc, err := db.NewService(db.ServiceConfig{
		DataStoreType:   c.DbType,
		DataStoreConfig: dataStoreConfig,
	})
	if err != nil {
		return err
	}

	c.repo = svc
	return nil
}

func (c *Config) appService() error {
	if c.programID.IsZero() {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	if c.repo == nil {
		if err := c.repoManager(); err != nil {
			return err
		}
	}

	svc, err := application.NewService(c.programID, c.repo)
	if err != nil {
		return err
	}

	c.svc = svc
	return nil
}

func initDatadir(c *cli.Context) error {
	datadir := c.String(Datadir.Name)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0o755)
	}
	return nil
}

func appDataDir(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

func redactUrl(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return url
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return fmt.Sprintf("%s://••••••@%s", scheme, rest[at+1:])
	}
	return url
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}

func (t supportedType) supports(typeStr string) bool {
	_, ok := t[typeStr]
	return ok
}
