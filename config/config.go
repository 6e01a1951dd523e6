package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// HTTP server port
	Port string `env:"PORT" envDefault:"5260"`

	// Registry configuration
	Registry struct {
		// Path to the sqlite database holding the reference price table
		DBPath string `env:"REGISTRY_DB_PATH" envDefault:"database/registry.db"`

		// Optional JSON seed file loaded when the table is empty
		SeedPath string `env:"REGISTRY_SEED_PATH" envDefault:"config/registry_seed.json"`
	}

	// Oracle configuration
	Oracle struct {
		// Base URL of the market-data estimation service
		BaseURL string `env:"ORACLE_BASE_URL" envDefault:"http://localhost:8090"`

		// Request timeout in seconds
		TimeoutSeconds int `env:"ORACLE_TIMEOUT" envDefault:"8"`
	}

	// History configuration
	History struct {
		// Maximum number of retained valuation entries
		MaxEntries int `env:"HISTORY_MAX_ENTRIES" envDefault:"100"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
