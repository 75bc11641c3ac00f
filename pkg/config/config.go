package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	JWT      JWTConfig
	Password PasswordConfig
	Session  SessionConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	backend := c.Session.NormalizedBackend()
	switch backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s=redis requires %s or %s", EnvSessionBackend, EnvRedisURL, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("unsupported session backend %q", c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionTTL)
	}
	if c.Auth.MockLatency < 0 {
		return fmt.Errorf("%s cannot be negative", EnvAuthMockLatency)
	}
	return nil
}

type AppConfig struct {
	Env          string   `envconfig:"MARKETPLACE_APP_ENV" required:"true"`
	Port         string   `envconfig:"MARKETPLACE_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"MARKETPLACE_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"MARKETPLACE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"MARKETPLACE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type JWTConfig struct {
	Secret            string `envconfig:"MARKETPLACE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MARKETPLACE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MARKETPLACE_JWT_EXPIRATION_MINUTES" default:"720"`
}

// TTL returns the session token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MARKETPLACE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MARKETPLACE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MARKETPLACE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MARKETPLACE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MARKETPLACE_ARGON_KEY_LEN" default:"32"`
}

type SessionConfig struct {
	Backend string        `envconfig:"MARKETPLACE_SESSION_BACKEND" default:"memory"`
	TTL     time.Duration `envconfig:"MARKETPLACE_SESSION_TTL" default:"12h"`
}

// NormalizedBackend lower-cases the configured backend name.
func (s SessionConfig) NormalizedBackend() string {
	backend := strings.ToLower(strings.TrimSpace(s.Backend))
	if backend == "" {
		return SessionBackendMemory
	}
	return backend
}

type RedisConfig struct {
	URL          string        `envconfig:"MARKETPLACE_REDIS_URL"`
	Address      string        `envconfig:"MARKETPLACE_REDIS_ADDR"`
	Password     string        `envconfig:"MARKETPLACE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MARKETPLACE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MARKETPLACE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MARKETPLACE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MARKETPLACE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MARKETPLACE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MARKETPLACE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type AuthConfig struct {
	// MockLatency simulates the round trip of the login/registration backend.
	MockLatency time.Duration `envconfig:"MARKETPLACE_AUTH_MOCK_LATENCY" default:"1s"`
}

type CatalogConfig struct {
	SeedProductCount  int    `envconfig:"MARKETPLACE_CATALOG_SEED_PRODUCTS" default:"24"`
	LowStockThreshold int    `envconfig:"MARKETPLACE_CATALOG_LOW_STOCK_THRESHOLD" default:"100"`
	// SeedFile replaces the generated listings with a YAML catalog.
	SeedFile          string `envconfig:"MARKETPLACE_CATALOG_SEED_FILE"`
}
