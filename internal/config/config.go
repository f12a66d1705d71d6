package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/narabot/narabot/internal/domain"
)

var (
	ErrMissingToken      = errors.New("TELEGRAM_BOT_TOKEN is required")
	ErrMissingServiceKey = errors.New("G2B_SERVICE_KEY is required")
	ErrInvalidMode       = errors.New("invalid default query mode")
	ErrInvalidRows       = errors.New("G2B_NUM_OF_ROWS out of range")
)

type Config struct {
	Telegram    TelegramConfig
	G2B         G2BConfig
	Database    DatabaseConfig
	Log         LogConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	Metrics     MetricsConfig
	DefaultMode string
}

type TelegramConfig struct {
	Token string
}

type G2BConfig struct {
	ServiceKey    string
	Timeout       time.Duration
	Rows          int
	LookbackDays  int
	EndpointsFile string // опционально: внешний список эндпоинтов
}

// DatabaseConfig - опционально: без DATABASE_URL настройки чатов живут
// в памяти и теряются на рестарте.
type DatabaseConfig struct {
	URL string
}

type LogConfig struct {
	Level string
}

type CacheConfig struct {
	Type     string
	TTL      time.Duration
	RedisURL string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type MetricsConfig struct {
	Addr string
}

func Load() (*Config, error) {
	cfg := &Config{
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		G2B: G2BConfig{
			ServiceKey:    os.Getenv("G2B_SERVICE_KEY"),
			Timeout:       time.Duration(getEnvIntOrDefault("G2B_TIMEOUT_SEC", 15)) * time.Second,
			Rows:          getEnvIntOrDefault("G2B_NUM_OF_ROWS", domain.DefaultRows),
			LookbackDays:  getEnvIntOrDefault("SEARCH_LOOKBACK_DAYS", 7),
			EndpointsFile: os.Getenv("G2B_ENDPOINTS_FILE"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Cache: CacheConfig{
			Type:     getEnvOrDefault("CACHE_TYPE", "memory"),
			TTL:      time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 600)) * time.Second,
			RedisURL: getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 10),
		},
		Metrics: MetricsConfig{
			Addr: getEnvOrDefault("METRICS_ADDR", ":9090"),
		},
		DefaultMode: getEnvOrDefault("DEFAULT_MODE", "bid"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	if c.G2B.ServiceKey == "" {
		return ErrMissingServiceKey
	}
	if _, ok := domain.ParseMode(c.DefaultMode); !ok {
		return ErrInvalidMode
	}
	if c.G2B.Rows < 1 || c.G2B.Rows > domain.MaxRows {
		return ErrInvalidRows
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
