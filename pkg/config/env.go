package config

const (
	EnvPrefix = "STOREWISE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv       = "STOREWISE_APP_ENV"
	EnvPort         = "STOREWISE_APP_PORT"
	EnvLogLevel     = "STOREWISE_LOG_LEVEL"
	EnvLogWarnStack = "STOREWISE_LOG_WARN_STACK"
	EnvTimezone     = "STOREWISE_TIMEZONE"

	EnvStockPolicy = "STOREWISE_STOCK_POLICY"
	EnvSeedFile    = "STOREWISE_SEED_FILE"
	EnvSeedSample  = "STOREWISE_SEED_SAMPLE"
	EnvRecentLimit = "STOREWISE_RECENT_LIMIT"

	EnvRedisURL      = "STOREWISE_REDIS_URL"
	EnvCORSOrigins   = "STOREWISE_CORS_ALLOWED_ORIGINS"
	EnvMetricsEnable = "STOREWISE_METRICS_ENABLED"
)
