package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"mcommerce/internal/config/configs"
)

// Config aggregates all configuration sections for the application. Fields
// are populated from environment variables using the caarlos0/env library.
// Nested structs are tagged with envPrefix so their fields are parsed with
// the given prefix. See the types in the configs package for defaults.
type Config struct {
	// Env names the deployment environment (e.g. prod, dev). It is attached
	// to every log line.
	Env string `env:"ENV" envDefault:"prod"`

	HTTP  configs.HTTP     `envPrefix:"HTTP_"`
	Log   configs.Logger   `envPrefix:"LOG_"`
	Psql  configs.Postgres `envPrefix:"PSQL_"`
	Store configs.Store    `envPrefix:"STORE_"`
	Cache configs.Cache    `envPrefix:"CACHE_"`
	Retry configs.Retry    `envPrefix:"RETRY_"`
}

// Load reads an optional .env file, then parses the environment into a
// Config. Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	var cfg Config
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Store.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
