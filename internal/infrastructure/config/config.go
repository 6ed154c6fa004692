package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,           default=8080"`
	Env           string `env:"ENV,            default=development"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`
	SessionSecret string `env:"SESSION_SECRET, required"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Game      GameConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dawerha"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SchedulerConfig struct {
	// SweepInterval is how often the background sweep checks activation
	// schedules and purges expired sessions.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL, default=1m"`
}

type GameConfig struct {
	// SpinCooldown is how long a visitor session is locked out after a spin.
	SpinCooldown time.Duration `env:"SPIN_COOLDOWN, default=1h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Production reports whether the service runs with production settings.
func (c *Config) Production() bool {
	return c.Env == "production"
}
