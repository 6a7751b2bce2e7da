package config

import (
	"fmt"
	"log"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	StoreDriver   string `envconfig:"STORE_DRIVER" default:"postgres"`
	DBDSN         string `envconfig:"DB_DSN"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`

	HTTPAddr    string   `envconfig:"HTTP_ADDR" default:":8080"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	// Timezone часовой пояс отеля для дневных итогов
	Timezone            string        `envconfig:"TIMEZONE" default:"Asia/Kolkata"`
	ExpiryCheckInterval time.Duration `envconfig:"EXPIRY_CHECK_INTERVAL" default:"1m"`

	// Telegram-бот для персонала, выключен без токена
	TelegramToken string  `envconfig:"TELEGRAM_TOKEN"`
	StaffChatIDs  []int64 `envconfig:"STAFF_CHAT_IDS"`

	RabbitURL      string `envconfig:"RABBIT_URL"`
	EventsExchange string `envconfig:"EVENTS_EXCHANGE" default:"frontdesk.events"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	BoardCacheTTL time.Duration `envconfig:"BOARD_CACHE_TTL" default:"30s"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	location *time.Location
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфиг только из переменных окружения
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет обязательные поля в зависимости от драйвера хранилища
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required but not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.StoreDriver)
	}

	if c.ExpiryCheckInterval <= 0 {
		return fmt.Errorf("EXPIRY_CHECK_INTERVAL must be positive")
	}
	if c.TelegramToken != "" && len(c.StaffChatIDs) == 0 {
		return fmt.Errorf("STAFF_CHAT_IDS is required when TELEGRAM_TOKEN is set")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	c.location = loc

	return nil
}

// Location часовой пояс отеля
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
