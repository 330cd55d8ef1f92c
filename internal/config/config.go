package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is shared by every environment variable the storefront reads.
const EnvPrefix = "DMI"

// Storage backend names accepted by StorageConfig.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendDynamo = "dynamo"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Redis   RedisConfig
	Dynamo  DynamoConfig
	Queue   QueueConfig
	Session SessionConfig
	Basket  BasketConfig
	Orders  OrdersConfig
}

// Load reads .env (best effort) and the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"DMI_APP_ENV" default:"dev"`
	Port     string `envconfig:"DMI_APP_PORT" default:"8080"`
	LogLevel string `envconfig:"DMI_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev")
}

type StorageConfig struct {
	Backend string `envconfig:"DMI_STORAGE_BACKEND" default:"memory"`
}

func (s StorageConfig) validate() error {
	switch s.Backend {
	case BackendMemory, BackendRedis, BackendDynamo:
		return nil
	}
	return fmt.Errorf("unknown storage backend %q", s.Backend)
}

type RedisConfig struct {
	URL          string        `envconfig:"DMI_REDIS_URL"`
	Address      string        `envconfig:"DMI_REDIS_ADDR"`
	Password     string        `envconfig:"DMI_REDIS_PASSWORD"`
	DB           int           `envconfig:"DMI_REDIS_DB" default:"0"`
	DialTimeout  time.Duration `envconfig:"DMI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DMI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DMI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DynamoConfig struct {
	OrdersTable    string `envconfig:"DMI_ORDERS_TABLE" default:"dmi-orders"`
	CustomersTable string `envconfig:"DMI_CUSTOMERS_TABLE" default:"dmi-customers"`
	SessionsTable  string `envconfig:"DMI_SESSIONS_TABLE" default:"dmi-sessions"`
}

type QueueConfig struct {
	OrdersQueueURL string `envconfig:"DMI_ORDERS_QUEUE_URL"`
}

type SessionConfig struct {
	TTL           time.Duration `envconfig:"DMI_SESSION_TTL" default:"1h"`
	CheckInterval time.Duration `envconfig:"DMI_SESSION_CHECK_INTERVAL" default:"1m"`
	JWTSecret     string        `envconfig:"DMI_JWT_SECRET" default:"dev-only-secret"`
}

type BasketConfig struct {
	TTL time.Duration `envconfig:"DMI_BASKET_TTL" default:"1h"`
}

type OrdersConfig struct {
	APIBaseURL      string `envconfig:"DMI_ORDER_API_URL" default:"http://localhost:8080"`
	MetricNamespace string `envconfig:"DMI_METRIC_NAMESPACE" default:"DunderMifflinInfinity"`
}
