package config

const EnvPrefix = "MARKETPLACE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

const (
	EnvAppEnv          = "MARKETPLACE_APP_ENV"
	EnvPort            = "MARKETPLACE_APP_PORT"
	EnvLogLevel        = "MARKETPLACE_LOG_LEVEL"
	EnvJWTSecret       = "MARKETPLACE_JWT_SECRET"
	EnvJWTIssuer       = "MARKETPLACE_JWT_ISSUER"
	EnvJWTExpMins      = "MARKETPLACE_JWT_EXPIRATION_MINUTES"
	EnvSessionBackend  = "MARKETPLACE_SESSION_BACKEND"
	EnvSessionTTL      = "MARKETPLACE_SESSION_TTL"
	EnvRedisURL        = "MARKETPLACE_REDIS_URL"
	EnvRedisAddr       = "MARKETPLACE_REDIS_ADDR"
	EnvAuthMockLatency = "MARKETPLACE_AUTH_MOCK_LATENCY"
	EnvLowStock        = "MARKETPLACE_CATALOG_LOW_STOCK_THRESHOLD"
)
