package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"

	TokenStoreMongo  = "mongo"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// Backend selects the directory storage: mongo or memory.
	Backend string `env:"BACKEND, default=mongo"`
	// TokenStore selects the persistent-login storage: mongo or redis.
	TokenStore string `env:"TOKEN_STORE, default=mongo"`

	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL, default=15m"`
	// RememberMeTTL bounds the remember-me cookie and, on the redis store,
	// the stored lineage itself.
	RememberMeTTL time.Duration `env:"REMEMBER_ME_TTL, default=336h"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_directory"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Backend != BackendMongo && cfg.Backend != BackendMemory {
		return nil, fmt.Errorf("config: unknown BACKEND %q", cfg.Backend)
	}
	if cfg.TokenStore != TokenStoreMongo && cfg.TokenStore != TokenStoreRedis && cfg.TokenStore != TokenStoreMemory {
		return nil, fmt.Errorf("config: unknown TOKEN_STORE %q", cfg.TokenStore)
	}
	if cfg.TokenStore == TokenStoreMongo && cfg.Backend == BackendMemory {
		// Memory directory with mongo tokens would still need a live mongo;
		// fall back to the in-process token store instead.
		cfg.TokenStore = TokenStoreMemory
	}
	return &cfg, nil
}
