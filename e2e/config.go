package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_DEBUG enables debug-level logs for the in-process stack
	Debug bool `envconfig:"E2E_DEBUG" default:"false"`
	// E2E_JWT_SECRET overrides the secret used by the in-process stack
	JWTSecret string `envconfig:"E2E_JWT_SECRET" default:"e2e-secret"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
