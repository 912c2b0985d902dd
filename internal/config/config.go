package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`

	LogLevel string `mapstructure:"log_level"`

	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_sslmode"`

	JWTSecret   string `mapstructure:"jwt_secret"`
	CORSOrigins string `mapstructure:"cors_origins"`

	// DraftStore selects where in-progress receipts live: postgres, redis or memory.
	DraftStore string `mapstructure:"draft_store"`
	RedisAddr  string `mapstructure:"redis_addr"`

	MetricsEnabled      bool `mapstructure:"metrics_enabled"`
	QuantityBoundFactor int  `mapstructure:"quantity_bound_factor"`
}

var defaults = map[string]any{
	"port":                  "8080",
	"gin_mode":              "debug",
	"log_level":             "info",
	"db_host":               "localhost",
	"db_port":               "5432",
	"db_user":               "postgres",
	"db_password":           "postgres",
	"db_name":               "postgres",
	"db_sslmode":            "disable",
	"jwt_secret":            "",
	"cors_origins":          "http://localhost:5173,http://127.0.0.1:5173",
	"draft_store":           "postgres",
	"redis_addr":            "localhost:6379",
	"metrics_enabled":       true,
	"quantity_bound_factor": 2,
}

// Load reads envFile (if it exists) into the environment and then builds the
// config from environment variables over defaults.
func Load(envFile string) (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFile)

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return Config{}, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("failed to decode config: %w", err)
	}

	switch c.DraftStore {
	case "postgres", "redis", "memory":
	default:
		return c, fmt.Errorf("unknown DRAFT_STORE %q", c.DraftStore)
	}
	if c.JWTSecret == "" {
		if c.GinMode == "release" {
			return c, fmt.Errorf("JWT_SECRET is required in release mode")
		}
		c.JWTSecret = "default_super_secret_key"
	}
	return c, nil
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// AllowedOrigins splits CORS_ORIGINS.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
