package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"cardscore/scoring"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"5001"`
	BindAddress string `env:"BIND_ADDRESS" envDefault:"localhost"`
	GinMode     string `env:"GIN_MODE" envDefault:"debug"`

	// StoreDriver is "postgres" or "memory".
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"cardscore"`
	DBPassword  string `env:"DB_PASSWORD" envDefault:"cardscore"`
	DBName      string `env:"DB_NAME" envDefault:"cardscore"`

	// CacheDriver is "redis", "memory" or "none".
	CacheDriver   string        `env:"CACHE_DRIVER" envDefault:"redis"`
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string        `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CachePrefix   string        `env:"CACHE_PREFIX" envDefault:"cardscore:"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"2h"`

	TieBreak    string   `env:"TIE_BREAK" envDefault:"seat"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.TieBreakPolicy(); err != nil {
		return nil, err
	}
	switch cfg.StoreDriver {
	case "postgres", "memory":
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	switch cfg.CacheDriver {
	case "redis", "memory", "none":
	default:
		return nil, fmt.Errorf("unknown CACHE_DRIVER %q", cfg.CacheDriver)
	}
	return &cfg, nil
}

func (c *Config) TieBreakPolicy() (scoring.TieBreak, error) {
	return scoring.ParseTieBreak(c.TieBreak)
}

func (c *Config) Addr() string {
	return c.BindAddress + ":" + c.Port
}

// DSN returns the postgres connection string. DATABASE_URL wins over the
// discrete DB_* settings, and the legacy postgres:// scheme is normalised.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		if strings.HasPrefix(c.DatabaseURL, "postgres://") {
			return "postgresql://" + strings.TrimPrefix(c.DatabaseURL, "postgres://")
		}
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func InitRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return client
}
