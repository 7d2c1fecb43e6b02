package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	IdentityStoreMongo    = "mongo"
	IdentityStorePostgres = "postgres"

	minJWTSecretBytes = 32
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	OpsPort   string `env:"OPS_PORT,  default=9090"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	// IdentityStore selects where identities live: mongo or postgres.
	IdentityStore    string  `env:"IDENTITY_STORE,  default=mongo"`
	PayrollRatesFile string  `env:"PAYROLL_RATES_FILE"`
	AuditWorkers     int     `env:"AUDIT_WORKERS,   default=4"`
	AuthRateLimit    float64 `env:"AUTH_RATE_LIMIT, default=5"`

	JWT      JWTConfig
	Throttle ThrottleConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET, required"`
	TTL    time.Duration `env:"JWT_TTL,    default=24h"`
	Issuer string        `env:"JWT_ISSUER, default=workforce-api"`
}

type ThrottleConfig struct {
	MaxAttempts int64         `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=workforce"`
}

type PostgresConfig struct {
	URL             string `env:"POSTGRES_URL"`
	ConnectAttempts int    `env:"POSTGRES_CONNECT_ATTEMPTS, default=5"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit source of variables.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field rules envconfig cannot express.
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < minJWTSecretBytes {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretBytes)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWT.TTL)
	}
	switch c.IdentityStore {
	case IdentityStoreMongo:
	case IdentityStorePostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("POSTGRES_URL is required when IDENTITY_STORE=%s", IdentityStorePostgres)
		}
	default:
		return fmt.Errorf("IDENTITY_STORE must be %q or %q, got %q", IdentityStoreMongo, IdentityStorePostgres, c.IdentityStore)
	}
	if c.Throttle.MaxAttempts <= 0 || c.Throttle.Window <= 0 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS and LOGIN_WINDOW must be positive")
	}
	return nil
}
