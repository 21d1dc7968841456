package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env       string `env:"ENV,        default=production"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	// Profile namespaces the stored session so several accounts can coexist.
	Profile string `env:"SMM_PROFILE, default=default"`

	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Payment PaymentConfig
	Bonus   BonusConfig
	Agent   AgentConfig
}

type APIConfig struct {
	BaseURL string `env:"API_BASE_URL, default=http://localhost:8000/api/"`
	// Timeout of 0 leaves request lifetime to the caller's context.
	Timeout   time.Duration `env:"API_TIMEOUT,    default=0s"`
	UserAgent string        `env:"API_USER_AGENT, default=smm-client/1.0"`
}

type SessionConfig struct {
	// Backend is one of file, memory, redis, mongo.
	Backend    string        `env:"SESSION_BACKEND, default=file"`
	File       string        `env:"SESSION_FILE"`
	Passphrase string        `env:"SESSION_PASSPHRASE"`
	TTL        time.Duration `env:"SESSION_TTL, default=0s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=smm_client"`
}

type PaymentConfig struct {
	PollInterval    time.Duration `env:"PAYMENT_POLL_INTERVAL,     default=5s"`
	PollMaxAttempts int           `env:"PAYMENT_POLL_MAX_ATTEMPTS, default=60"`
}

type BonusConfig struct {
	Threshold float64       `env:"BONUS_THRESHOLD, default=5"`
	Debounce  time.Duration `env:"BONUS_DEBOUNCE,  default=0s"`
}

type AgentConfig struct {
	Host            string        `env:"AGENT_HOST,             default=127.0.0.1"`
	Port            string        `env:"AGENT_PORT,             default=8090"`
	JWTSecret       string        `env:"AGENT_JWT_SECRET"`
	MaxWatches      int           `env:"AGENT_MAX_WATCHES,      default=8"`
	ShutdownTimeout time.Duration `env:"AGENT_SHUTDOWN_TIMEOUT, default=5s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Payment.PollMaxAttempts <= 0 {
		return nil, fmt.Errorf("config: PAYMENT_POLL_MAX_ATTEMPTS must be positive")
	}
	return &cfg, nil
}

// SessionPath is the session file location, defaulting to
// ~/.smmctl/<profile>.session.json.
func (c *Config) SessionPath() string {
	if c.Session.File != "" {
		return c.Session.File
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".smmctl", c.Profile+".session.json")
}
