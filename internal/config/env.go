package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds process-level settings read from the environment. They seed
// the CLI flag defaults.
type Env struct {
	DBPath     string `env:"ANOMALY_DB" envDefault:"~/.anomaly/runs.db"`
	FPS        int    `env:"ANOMALY_FPS" envDefault:"60"`
	Seed       int64  `env:"ANOMALY_SEED" envDefault:"0"`
	LogLevel   string `env:"ANOMALY_LOG_LEVEL" envDefault:"info"`
	SSHAddr    string `env:"ANOMALY_SSH_ADDR" envDefault:":2222"`
	Difficulty string `env:"ANOMALY_DIFFICULTY" envDefault:"normal"`
}

// LoadEnv parses environment variables into Env.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}
