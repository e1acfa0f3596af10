package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort   string `env:"APP_PORT" envDefault:"3000"`
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:5173"`

	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, LocalStack URL in dev
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`

	UsersTable   string `env:"DYNAMO_TABLE_USERS" envDefault:"users"`
	S3BucketName string `env:"S3_BUCKET_NAME" envDefault:"chatterbox-uploads"`

	JWTSecret     string `env:"JWT_SECRET"`
	JWTExpiryDays int    `env:"JWT_EXPIRY_DAYS" envDefault:"7"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"1025"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"noreply@example.com"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	SNSRegion string `env:"SNS_REGION" envDefault:"us-east-1"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:3000/auth/google/callback"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// JWTExpiry returns the session token lifetime.
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryDays) * 24 * time.Hour
}

// IsDevelopment reports whether the app runs in the development environment.
// Cookies are only marked Secure outside of it.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	// Missing .env is fine; the environment is authoritative.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return &cfg, nil
}
