// File path: internal/config/config.go
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/liveforge-ai/liveforge/internal/ledger"
)

// Config holds the service configuration. Every field is read from the
// environment under the LIVEFORGE_ prefix; cmd flags may override the
// scalar fields afterwards.
type Config struct {
	Addr             string        `env:"ADDR" envDefault:":8090"`
	HistoryPath      string        `env:"HISTORY_PATH" envDefault:"data/builds.db"`
	GeneratorTimeout time.Duration `env:"GENERATOR_TIMEOUT" envDefault:"60s"`
	Ledger           ledger.Config `envPrefix:"LEDGER_"`
}

// Load parses the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{Prefix: "LIVEFORGE_"})
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
