// Package config loads all runtime settings from the environment, with
// defaults suitable for local development.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Database  PostgresConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
	Email     EmailConfig
	Edits     EditsConfig
	Logging   LoggingConfig
}

type AppConfig struct {
	Name        string
	Environment string
}

type HTTPConfig struct {
	Port            string
	FrontendURLs    []string
	ShutdownTimeout time.Duration
}

type PostgresConfig struct {
	URL      string // full DSN, wins when set
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxOpen  int
	MaxIdle  int
}

// DSN returns the connection string, preferring the full URL form the
// hosting platform provides.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

type RedisConfig struct {
	Address  string // empty means in-memory store
	Password string
	DB       int
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

type JobsConfig struct {
	Workers    int
	QueueSize  int
	MaxRetries int
}

type EmailConfig struct {
	From      string
	AWSRegion string // empty means log-only delivery
}

type EditsConfig struct {
	PreviewTTL time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads the environment into a Config. godotenv runs earlier in main,
// so .env values are already visible here.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_NAME", "tripbazaar")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tripbazaar")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")

	v.SetDefault("JOB_WORKERS", 5)
	v.SetDefault("JOB_QUEUE_SIZE", 256)
	v.SetDefault("JOB_MAX_RETRIES", 3)

	v.SetDefault("EMAIL_FROM", "noreply@tripbazaar.dev")
	v.SetDefault("AWS_REGION", "")

	v.SetDefault("EDIT_PREVIEW_TTL", "15m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Environment: v.GetString("APP_ENV"),
		},
		HTTP: HTTPConfig{
			Port:            v.GetString("PORT"),
			FrontendURLs:    splitCSV(v.GetString("FRONTEND_URL")),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: PostgresConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxOpen:  v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdle:  v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
			Window:      v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Jobs: JobsConfig{
			Workers:    v.GetInt("JOB_WORKERS"),
			QueueSize:  v.GetInt("JOB_QUEUE_SIZE"),
			MaxRetries: v.GetInt("JOB_MAX_RETRIES"),
		},
		Email: EmailConfig{
			From:      v.GetString("EMAIL_FROM"),
			AWSRegion: v.GetString("AWS_REGION"),
		},
		Edits: EditsConfig{
			PreviewTTL: v.GetDuration("EDIT_PREVIEW_TTL"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if cfg.RateLimit.MaxRequests < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be positive, got %d", cfg.RateLimit.MaxRequests)
	}
	if cfg.Jobs.Workers < 1 {
		return nil, fmt.Errorf("JOB_WORKERS must be positive, got %d", cfg.Jobs.Workers)
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
