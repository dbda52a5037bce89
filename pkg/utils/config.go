package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Revocation RevocationConfig
	Factory    FactoryConfig
	Telemetry  TelemetryConfig
	Queue      QueueConfig
}

type AppConfig struct {
	Name            string
	Version         string
	Env             string
	Port            string
	Debug           bool
	LogPath         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// IsProduction reports whether background failures should stop the process.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

type DatabaseConfig struct {
	Driver        string
	Host          string
	Port          string
	Name          string
	User          string
	Password      string
	MaxConns      int32
	SeedAdmin     bool
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
	Issuer      string
}

type RevocationConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheSize     int
	PurgeSchedule string
}

type FactoryConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type TelemetryConfig struct {
	Enabled         bool
	Endpoint        string
	Insecure        bool
	MetricsInterval time.Duration
}

type QueueConfig struct {
	URL        string
	OrderQueue string
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments pass plain environment variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "pizza-service")
	viper.SetDefault("APP_VERSION", "dev")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	viper.SetDefault("DB_DRIVER", DriverPostgres)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_SEED_ADMIN", true)
	viper.SetDefault("ADMIN_NAME", "常用名字")
	viper.SetDefault("ADMIN_EMAIL", "a@jwt.com")
	viper.SetDefault("ADMIN_PASSWORD", "admin")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_ISSUER", "pizza-service")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REVOCATION_CACHE_SIZE", 4096)
	viper.SetDefault("REVOCATION_PURGE_SCHEDULE", "@hourly")
	viper.SetDefault("FACTORY_TIMEOUT_SECONDS", 10)
	viper.SetDefault("OTEL_ENABLED", false)
	viper.SetDefault("OTEL_ENDPOINT", "localhost:4317")
	viper.SetDefault("OTEL_INSECURE", true)
	viper.SetDefault("METRICS_INTERVAL_SECONDS", 10)
	viper.SetDefault("AMQP_ORDER_QUEUE", "orders.created")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Version:         viper.GetString("APP_VERSION"),
			Env:             viper.GetString("APP_ENV"),
			Port:            viper.GetString("PORT"),
			Debug:           viper.GetBool("DEBUG"),
			LogPath:         viper.GetString("LOG_PATH"),
			CORSOrigins:     splitList(viper.GetString("CORS_ORIGINS")),
			ShutdownTimeout: time.Duration(viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			Driver:        strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetString("DB_PORT"),
			Name:          viper.GetString("DB_NAME"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASS"),
			MaxConns:      viper.GetInt32("DB_MAX_CONNS"),
			SeedAdmin:     viper.GetBool("DB_SEED_ADMIN"),
			AdminName:     viper.GetString("ADMIN_NAME"),
			AdminEmail:    viper.GetString("ADMIN_EMAIL"),
			AdminPassword: viper.GetString("ADMIN_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
			Issuer:      viper.GetString("JWT_ISSUER"),
		},
		Revocation: RevocationConfig{
			RedisAddr:     viper.GetString("REDIS_ADDR"),
			RedisPassword: viper.GetString("REDIS_PASSWORD"),
			RedisDB:       viper.GetInt("REDIS_DB"),
			CacheSize:     viper.GetInt("REVOCATION_CACHE_SIZE"),
			PurgeSchedule: viper.GetString("REVOCATION_PURGE_SCHEDULE"),
		},
		Factory: FactoryConfig{
			URL:     strings.TrimRight(viper.GetString("FACTORY_URL"), "/"),
			APIKey:  viper.GetString("FACTORY_API_KEY"),
			Timeout: time.Duration(viper.GetInt("FACTORY_TIMEOUT_SECONDS")) * time.Second,
		},
		Telemetry: TelemetryConfig{
			Enabled:         viper.GetBool("OTEL_ENABLED"),
			Endpoint:        viper.GetString("OTEL_ENDPOINT"),
			Insecure:        viper.GetBool("OTEL_INSECURE"),
			MetricsInterval: time.Duration(viper.GetInt("METRICS_INTERVAL_SECONDS")) * time.Second,
		},
		Queue: QueueConfig{
			URL:        viper.GetString("AMQP_URL"),
			OrderQueue: viper.GetString("AMQP_ORDER_QUEUE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks settings the process cannot run without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWT.ExpiryHours < 1 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be positive")
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
