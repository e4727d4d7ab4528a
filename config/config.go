package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// devTokenSecret is only ever used outside production so local stacks work
// without provisioning a secret.
const devTokenSecret = "famhub-dev-decision-token-secret"

// Config holds the service configuration, loaded from the environment.
type Config struct {
	Port                string `env:"PORT" envDefault:"8080"`
	AWSRegion           string `env:"AWS_REGION"`
	AppEnv              string `env:"APP_ENV" envDefault:"development"`
	DecisionTokenSecret string `env:"DECISION_TOKEN_SECRET"`
	InviteGraceDays     int    `env:"INVITE_GRACE_DAYS" envDefault:"7"`
}

// Load parses the environment into a Config. Production refuses to boot
// without an injected decision-token secret.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DecisionTokenSecret == "" {
		if cfg.AppEnv == "production" {
			return nil, errors.New("DECISION_TOKEN_SECRET is required in production")
		}
		cfg.DecisionTokenSecret = devTokenSecret
	}

	if cfg.InviteGraceDays <= 0 {
		cfg.InviteGraceDays = 7
	}
	return cfg, nil
}
