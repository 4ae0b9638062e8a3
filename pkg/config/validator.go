package config

import "fmt"

// Validate checks a Config for the invariants NewExecutor and the API
// server rely on: at minimum one HOST worker (an executor with zero
// workers in an enabled domain can never make progress), a non-empty
// storage driver/DSN pair, and a usable API port.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: cannot be nil")
	}

	if cfg.Workers.Host <= 0 {
		return fmt.Errorf("config: workers.host must be positive, got %d", cfg.Workers.Host)
	}
	if cfg.Workers.CUDA < 0 {
		return fmt.Errorf("config: workers.cuda cannot be negative, got %d", cfg.Workers.CUDA)
	}

	switch cfg.Storage.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("config: storage.driver must be one of sqlite/mysql/postgres, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.DSN == "" {
		return fmt.Errorf("config: storage.dsn cannot be empty")
	}

	if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
		return fmt.Errorf("config: api.port out of range: %d", cfg.API.Port)
	}

	if cfg.Bus.Buffer < 0 {
		return fmt.Errorf("config: bus.buffer cannot be negative, got %d", cfg.Bus.Buffer)
	}

	return nil
}
