package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/careconnect-health/careconnect-api/shared/mailer"
	"github.com/careconnect-health/careconnect-api/shared/storage"
)

// AppConfig holds all runtime configuration. It is parsed from the
// environment once at process start and passed by reference into the
// components that need it; business logic never reads the environment
// directly.
type AppConfig struct {
	Environment string `env:"APP_ENV"           envDefault:"development"`
	Host        string `env:"APP_HOST"          envDefault:"0.0.0.0"`
	Port        int    `env:"APP_PORT"          envDefault:"3000"`

	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"careconnect"`

	Token   TokenConfig
	Mail    mailer.Config
	Storage storage.Config

	// Frontend URLs embedded into verification and password-reset emails.
	VerifyEmailURL   string `env:"APP_VERIFY_EMAIL_URL"`
	PasswordResetURL string `env:"APP_PASSWORD_RESET_URL"`

	VerificationCodeExpiresIn time.Duration `env:"VERIFICATION_CODE_EXPIRES_IN" envDefault:"1h"`
	ResetCodeExpiresIn        time.Duration `env:"RESET_CODE_EXPIRES_IN"        envDefault:"1h"`
}

// TokenConfig holds the signing secret and lifetimes for issued tokens.
type TokenConfig struct {
	Secret                string        `env:"TOKEN_SECRET"`
	Issuer                string        `env:"TOKEN_ISSUER"                  envDefault:"careconnect-api"`
	SessionTokenExpiresIn time.Duration `env:"SESSION_TOKEN_EXPIRES_IN"      envDefault:"24h"`
	ResetTokenExpiresIn   time.Duration `env:"RESET_TOKEN_EXPIRES_IN"        envDefault:"1h"`
}

// New parses the application configuration from environment variables.
// Missing required values are fatal: the process must not come up without
// its secrets.
func New(logger *zerolog.Logger) *AppConfig {
	cfg, err := env.ParseAs[AppConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate application configuration")
	}

	return &cfg
}

func (c *AppConfig) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGODB_URI environment variable")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("missing TOKEN_SECRET environment variable")
	}
	if err := c.Mail.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}

	return nil
}
