package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StaticSourceHTTP     = "http"
	StaticSourceR2       = "r2"
	StaticSourcePostgres = "postgres"
	StaticSourceNone     = "none"

	// DevLiveAPIURL - локальный сервер, который в dev-режиме всегда считается live.
	DevLiveAPIURL = "http://localhost:3000/api"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort int    `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	DevMode    bool   `env:"DEV_MODE" envDefault:"false"`

	// Live источник. Пустой адрес отключает live-путь (только static).
	LiveAPIURL    string        `env:"LIVE_API_URL"`
	LiveConfigURL string        `env:"LIVE_CONFIG_URL"`
	LiveTimeout   time.Duration `env:"LIVE_TIMEOUT" envDefault:"5s"`
	TunnelBypass  bool          `env:"TUNNEL_BYPASS_HEADER" envDefault:"true"`

	// Static источник: http | r2 | postgres | none
	StaticSource       string `env:"STATIC_SOURCE" envDefault:"http"`
	StaticAPIURL       string `env:"STATIC_API_URL"`
	ArchiveDatabaseURL string `env:"ARCHIVE_DATABASE_URL"`
	R2                 R2Config

	RefreshInterval    time.Duration `env:"REFRESH_INTERVAL" envDefault:"30s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	OTelEndpoint       string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

type R2Config struct {
	AccountID       string `env:"R2_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	BucketName      string `env:"R2_BUCKET_NAME"`
	PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`
	Prefix          string `env:"R2_PREFIX"`
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DevMode {
		// В dev-режиме live всегда локальный сервер, static не используется
		cfg.LiveAPIURL = DevLiveAPIURL
		cfg.StaticSource = StaticSourceNone
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.LiveTimeout <= 0 {
		return fmt.Errorf("LIVE_TIMEOUT must be positive, got %s", c.LiveTimeout)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative, got %s", c.RefreshInterval)
	}
	if c.LiveAPIURL != "" {
		if err := validateBaseURL("LIVE_API_URL", c.LiveAPIURL); err != nil {
			return err
		}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	c.StaticSource = strings.ToLower(strings.TrimSpace(c.StaticSource))
	switch c.StaticSource {
	case StaticSourceHTTP:
		if c.StaticAPIURL == "" {
			return fmt.Errorf("STATIC_API_URL environment variable is not set (STATIC_SOURCE=%s)", c.StaticSource)
		}
		return validateBaseURL("STATIC_API_URL", c.StaticAPIURL)
	case StaticSourceR2:
		if c.R2.AccountID == "" || c.R2.AccessKeyID == "" || c.R2.SecretAccessKey == "" || c.R2.BucketName == "" {
			return fmt.Errorf("R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and R2_BUCKET_NAME are required (STATIC_SOURCE=%s)", c.StaticSource)
		}
	case StaticSourcePostgres:
		if c.ArchiveDatabaseURL == "" {
			return fmt.Errorf("ARCHIVE_DATABASE_URL environment variable is not set (STATIC_SOURCE=%s)", c.StaticSource)
		}
	case StaticSourceNone:
	default:
		return fmt.Errorf("invalid STATIC_SOURCE %q: expected one of http, r2, postgres, none", c.StaticSource)
	}
	return nil
}

func validateBaseURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host in %q", name, raw)
	}
	return nil
}

// ParseLogLevel переводит LOG_LEVEL в slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	return l, nil
}
