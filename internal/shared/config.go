package shared

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"lightbnb/internal/storage/sqlstore"
)

// EnvPrefix is stripped from every variable, so LIGHTBNB_DB_HOST -> db_host.
const EnvPrefix = "LIGHTBNB_"

type Config struct {
	AppEnv   string `koanf:"app_env" validate:"required"`
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
	HTTPAddr string `koanf:"http_addr" validate:"required"`
	// MetricsAddr serves /metrics for the seeder; the API mounts it on HTTPAddr.
	MetricsAddr string `koanf:"metrics_addr"`

	Store string `koanf:"store" validate:"oneof=postgres mysql memory"`

	DBHost            string        `koanf:"db_host" validate:"required_unless=Store memory"`
	DBPort            int           `koanf:"db_port" validate:"gt=0"`
	DBUser            string        `koanf:"db_user" validate:"required_unless=Store memory"`
	DBPassword        string        `koanf:"db_password"`
	DBName            string        `koanf:"db_name" validate:"required_unless=Store memory"`
	DBSSLMode         string        `koanf:"db_ssl_mode"`
	DBMaxOpenConns    int           `koanf:"db_max_open_conns" validate:"gte=0"`
	DBMaxIdleConns    int           `koanf:"db_max_idle_conns" validate:"gte=0"`
	DBConnMaxLifetime time.Duration `koanf:"db_conn_max_lifetime"`

	// RedisAddr empty disables the user cache.
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db" validate:"gte=0"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`

	FixturesDir string `koanf:"fixtures_dir"`
	FixturesURL string `koanf:"fixtures_url" validate:"omitempty,url"`
	SeedWorkers int    `koanf:"seed_workers" validate:"gt=0"`
	SeedRPS     int    `koanf:"seed_rps" validate:"gt=0"`
}

// Defaults holds the non-secret settings. Database credentials have no
// default and must come from the environment.
func Defaults() Config {
	return Config{
		AppEnv:            "prod",
		LogLevel:          "info",
		HTTPAddr:          ":8080",
		Store:             sqlstore.DriverPostgres,
		DBHost:            "localhost",
		DBPort:            5432,
		DBName:            "lightbnb",
		DBSSLMode:         "disable",
		DBMaxOpenConns:    10,
		DBMaxIdleConns:    5,
		DBConnMaxLifetime: 30 * time.Minute,
		RedisDB:           0,
		CacheTTL:          15 * time.Minute,
		FixturesDir:       "fixtures",
		SeedWorkers:       8,
		SeedRPS:           5,
	}
}

// Load reads LIGHTBNB_* variables (a .env file is loaded first when present)
// over Defaults and validates the result.
func Load() (Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	c := Defaults()
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(c); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func (c Config) DBOptions() sqlstore.Options {
	return sqlstore.Options{
		Driver:          c.Store,
		Host:            c.DBHost,
		Port:            c.DBPort,
		User:            c.DBUser,
		Password:        c.DBPassword,
		Name:            c.DBName,
		SSLMode:         c.DBSSLMode,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	}
}
