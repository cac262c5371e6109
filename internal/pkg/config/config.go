package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	LockBackendRedis  = "redis"
	LockBackendMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Lock  LockConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"JWT_EXPIRES_IN, default=720h"`
	CookieName string        `env:"COOKIE_NAME, default=token"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database string        `env:"MONGO_DB,      default=collections"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// LockConfig selects how concurrent payments on one invoice are serialized.
type LockConfig struct {
	Backend string        `env:"LOCK_BACKEND, default=redis"`
	TTL     time.Duration `env:"LOCK_TTL,     default=10s"`
	Wait    time.Duration `env:"LOCK_WAIT,    default=5s"`
}

// IsDevelopment reports whether the service runs in development mode, which
// relaxes cookie security and exposes internal error details.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// UsesRedis reports whether a Redis connection is needed.
func (c *Config) UsesRedis() bool {
	return c.Lock.Backend == LockBackendRedis
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}

	switch cfg.Lock.Backend {
	case LockBackendRedis, LockBackendMemory:
	default:
		return nil, fmt.Errorf("LOCK_BACKEND must be %q or %q, got %q", LockBackendRedis, LockBackendMemory, cfg.Lock.Backend)
	}
	return &cfg, nil
}
