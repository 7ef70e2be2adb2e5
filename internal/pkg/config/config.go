package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage drivers for the persisted session blobs.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

const devContextSecret = "smartmed-dev-context-secret"

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Context ContextConfig
	Storage StorageConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Audit   AuditConfig
}

// ContextConfig controls the signed browser-context cookie.
type ContextConfig struct {
	Secret string        `env:"CONTEXT_SECRET"`
	TTL    time.Duration `env:"CONTEXT_TTL, default=720h"`
}

type StorageConfig struct {
	Driver     string `env:"STORAGE_DRIVER, default=memory"`
	SQLitePath string `env:"SQLITE_PATH,    default=smartmed.db"`
}

type SessionConfig struct {
	RemoteTimeout time.Duration `env:"AUTH_REMOTE_TIMEOUT,  default=3s"`
	LoadTimeout   time.Duration `env:"SESSION_LOAD_TIMEOUT, default=2s"`
	GuardWait     time.Duration `env:"GUARD_WAIT,           default=1s"`
	RegistryIdle  time.Duration `env:"REGISTRY_IDLE,        default=30m"`
}

// MongoConfig enables the doctor directory and the Mongo-backed portal data.
// An empty URI runs the portal in demo mode.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=smartmed"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig.
func Load() *Config {
	_ = godotenv.Load(".env")

	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if cfg.Context.Secret == "" && !cfg.IsProduction() {
		cfg.Context.Secret = devContextSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DemoMode reports whether the portal runs without MongoDB.
func (c *Config) DemoMode() bool {
	return c.Mongo.URI == ""
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case StorageMemory, StorageSQLite, StorageRedis:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be one of memory, sqlite, redis; got %q", c.Storage.Driver))
	}
	if c.Context.Secret == "" {
		errs = append(errs, errors.New("CONTEXT_SECRET is required in production"))
	}
	if c.Context.TTL <= 0 {
		errs = append(errs, errors.New("CONTEXT_TTL must be positive"))
	}
	if c.Session.GuardWait <= 0 {
		errs = append(errs, errors.New("GUARD_WAIT must be positive"))
	}
	return errors.Join(errs...)
}
