package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Invoicer"`
		Env  string `envconfig:"APP_ENV" default:"development"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"invoicer"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		MaxUploadBytes int64         `envconfig:"SERVER_MAX_UPLOAD_BYTES" default:"10485760"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Import struct {
		DueDays     int           `envconfig:"IMPORT_DUE_DAYS" default:"30"`
		PreviewRows int           `envconfig:"IMPORT_PREVIEW_ROWS" default:"5"`
		SessionTTL  time.Duration `envconfig:"IMPORT_SESSION_TTL" default:"2h"`
	}

	// Business identifies the sender on generated invoice emails.
	Business struct {
		Name    string `envconfig:"BUSINESS_NAME" default:"Invoicer"`
		Email   string `envconfig:"BUSINESS_EMAIL"`
		Address string `envconfig:"BUSINESS_ADDRESS"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Import.DueDays < 0 {
		return nil, fmt.Errorf("IMPORT_DUE_DAYS must not be negative, got %d", cfg.Import.DueDays)
	}

	return &cfg, nil
}
