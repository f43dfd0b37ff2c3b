package configs

import "time"

// Retry bounds how often a failed cache fetch is retried.
type Retry struct {
	MaxAttempts     int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	InitialInterval time.Duration `env:"INITIAL_INTERVAL" envDefault:"100ms"`
	MaxInterval     time.Duration `env:"MAX_INTERVAL" envDefault:"2s"`
}
