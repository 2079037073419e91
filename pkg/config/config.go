package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Store   StoreConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREWISE_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREWISE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREWISE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREWISE_LOG_WARN_STACK" default:"false"`
	Timezone     string `envconfig:"STOREWISE_TIMEZONE" default:"UTC"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the timezone used to stamp transaction dates.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", EnvTimezone, name, err)
	}
	return loc, nil
}

type StoreConfig struct {
	StockPolicy  string `envconfig:"STOREWISE_STOCK_POLICY" default:"reject"`
	SeedFile     string `envconfig:"STOREWISE_SEED_FILE"`
	SeedSample   bool   `envconfig:"STOREWISE_SEED_SAMPLE" default:"true"`
	RecentLimit  int    `envconfig:"STOREWISE_RECENT_LIMIT" default:"10"`
	MaxImportMB  int    `envconfig:"STOREWISE_MAX_IMPORT_MB" default:"10"`
	ChartDays    int    `envconfig:"STOREWISE_CHART_DAYS" default:"7"`
	ChartWeeks   int    `envconfig:"STOREWISE_CHART_WEEKS" default:"4"`
	TopProductsN int    `envconfig:"STOREWISE_TOP_PRODUCTS" default:"5"`
}

func (s StoreConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.StockPolicy)) {
	case "reject", "clamp", "allow":
	default:
		return fmt.Errorf("invalid %s %q", EnvStockPolicy, s.StockPolicy)
	}
	if s.RecentLimit <= 0 {
		return fmt.Errorf("%s must be positive", EnvRecentLimit)
	}
	return nil
}

// MaxImportBytes returns the upper bound on an import payload.
func (s StoreConfig) MaxImportBytes() int64 {
	if s.MaxImportMB <= 0 {
		return 10 << 20
	}
	return int64(s.MaxImportMB) << 20
}

type RedisConfig struct {
	URL            string        `envconfig:"STOREWISE_REDIS_URL"`
	Address        string        `envconfig:"STOREWISE_REDIS_ADDR"`
	Password       string        `envconfig:"STOREWISE_REDIS_PASSWORD"`
	DB             int           `envconfig:"STOREWISE_REDIS_DB" default:"0"`
	PoolSize       int           `envconfig:"STOREWISE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns   int           `envconfig:"STOREWISE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout    time.Duration `envconfig:"STOREWISE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"STOREWISE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"STOREWISE_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"STOREWISE_IDEMPOTENCY_TTL" default:"24h"`
}

// Enabled reports whether an idempotency store should be dialed.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREWISE_CORS_ALLOWED_ORIGINS" default:"*"`
}

type MetricsConfig struct {
	Enabled   bool   `envconfig:"STOREWISE_METRICS_ENABLED" default:"true"`
	Namespace string `envconfig:"STOREWISE_METRICS_NAMESPACE" default:"storewise"`
}

// Default returns the configuration Load produces from an empty environment
// in dev. Tests and offline tools start from it.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Env:      AppEnvDev,
			Port:     "8080",
			LogLevel: "info",
			Timezone: "UTC",
		},
		Store: StoreConfig{
			StockPolicy:  "reject",
			SeedSample:   true,
			RecentLimit:  10,
			MaxImportMB:  10,
			ChartDays:    7,
			ChartWeeks:   4,
			TopProductsN: 5,
		},
		Redis: RedisConfig{
			PoolSize:       10,
			MinIdleConns:   2,
			DialTimeout:    5 * time.Second,
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   5 * time.Second,
			IdempotencyTTL: 24 * time.Hour,
		},
		CORS:    CORSConfig{AllowedOrigins: []string{"*"}},
		Metrics: MetricsConfig{Enabled: true, Namespace: "storewise"},
	}
}
