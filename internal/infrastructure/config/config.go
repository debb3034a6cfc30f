package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	BaseURL  string `env:"BASE_URL,  default=http://localhost:8080"`

	JWTSecret  string        `env:"JWT_SECRET"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=720h"`

	// AdminEmail is the primary privileged address; AdminFallbackEmails may
	// add operator-approved extras (comma separated). Together they form the
	// set that always resolves to admin access.
	AdminEmail          string   `env:"ADMIN_EMAIL"`
	AdminFallbackEmails []string `env:"ADMIN_FALLBACK_EMAILS"`

	LinkTTL time.Duration `env:"MAGIC_LINK_TTL, default=30m"`

	SMTP  SMTPConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     string `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"EMAIL_FROM, default=noreply@clinic-portal.local"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=clinic_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// AdminSet builds the privileged admin set from the configured addresses.
func (c *Config) AdminSet() domain.AdminSet {
	emails := make([]string, 0, 1+len(c.AdminFallbackEmails))
	if c.AdminEmail != "" {
		emails = append(emails, c.AdminEmail)
	}
	for _, e := range c.AdminFallbackEmails {
		if trimmed := strings.TrimSpace(e); trimmed != "" {
			emails = append(emails, trimmed)
		}
	}
	return domain.NewAdminSet(emails...)
}
