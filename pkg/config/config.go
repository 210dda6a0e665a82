package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application, loaded from the
// environment with an optional .env file for local development.
type Config struct {
	DatabaseURL       string        `mapstructure:"PGSQL_URL"`
	Port              string        `mapstructure:"PORT"`
	IsProduction      bool          `mapstructure:"IS_PRODUCTION"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTExpiryDuration time.Duration `mapstructure:"JWT_EXPIRY_DURATION"`
	JWTIssuer         string        `mapstructure:"JWT_ISSUER"`
	RateLimit         string        `mapstructure:"RATE_LIMIT"`
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, reading configuration from environment")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_EXPIRY_DURATION", "24h")
	v.SetDefault("JWT_ISSUER", "fund_accounting_app")
	v.SetDefault("RATE_LIMIT", "100-M")

	// AutomaticEnv alone does not populate Unmarshal; bind each key explicitly.
	for _, key := range []string{"PGSQL_URL", "PORT", "IS_PRODUCTION", "JWT_SECRET", "JWT_EXPIRY_DURATION", "JWT_ISSUER", "RATE_LIMIT"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &cfg, nil
}
