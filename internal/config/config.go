package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the process configuration, read from the environment.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Optimization struct {
		WorkerCount int `env:"OPT_WORKER_COUNT" envDefault:"4"`
		QueueSize   int `env:"OPT_QUEUE_SIZE" envDefault:"64"`
	}
	Search struct {
		Problem         string   `env:"SEARCH_PROBLEM" envDefault:"TSP"`
		ProblemParams   []string `env:"SEARCH_PROBLEM_PARAMS" envSeparator:","`
		Algorithm       string   `env:"SEARCH_ALGORITHM" envDefault:"HillClimbing"`
		AlgorithmParams []string `env:"SEARCH_ALGORITHM_PARAMS" envSeparator:","`
	}
}

// Load parses the environment and fills in environment-dependent defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	// Parse environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Set default logging level based on environment
	if cfg.Logging.Level == "" {
		if cfg.Environment == "development" {
			cfg.Logging.Level = "debug"
		} else {
			cfg.Logging.Level = "info"
		}
	}

	if cfg.Optimization.WorkerCount < 1 {
		cfg.Optimization.WorkerCount = 1
	}
	if cfg.Optimization.QueueSize < 1 {
		cfg.Optimization.QueueSize = 1
	}

	return cfg, nil
}
