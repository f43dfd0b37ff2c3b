package configs

import "time"

// Cache configures the query cache. The redis layer is optional and sits
// behind the in-process layer.
type Cache struct {
	DefaultTTL    time.Duration `env:"DEFAULT_TTL" envDefault:"5m"`
	MemorySize    int           `env:"MEMORY_SIZE" envDefault:"1000"`
	RedisEnabled  bool          `env:"REDIS_ENABLED" envDefault:"false"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
}
