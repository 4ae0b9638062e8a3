// Package config holds the YAML-driven configuration for a taskgrid
// server process: worker pool sizing, run-history storage, the HTTP
// API, and the message bus wiring topology events flow through.
package config

import "time"

// Config is the root configuration document.
type Config struct {
	Mode string `yaml:"mode"`

	Workers WorkersConfig `yaml:"workers"`
	Storage StorageConfig `yaml:"storage"`
	API     APIConfig     `yaml:"api"`
	Bus     BusConfig     `yaml:"bus"`
}

// WorkersConfig sizes the executor's per-domain worker pools.
type WorkersConfig struct {
	Host int `yaml:"host"`
	CUDA int `yaml:"cuda"`
}

// StorageConfig points the run-history writer at a database.
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, or postgres
	DSN    string `yaml:"dsn"`
}

// APIConfig configures the gin HTTP server.
type APIConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// BusConfig configures the in-process topology/task lifecycle event
// bus.
type BusConfig struct {
	Buffer int `yaml:"buffer"`
}

// Default returns a Config with the values a bare install should run
// with: four HOST workers and no CUDA workers, a local sqlite
// run-history file, and the API listening on localhost only.
func Default() *Config {
	return &Config{
		Mode:    "dev",
		Workers: WorkersConfig{Host: 4, CUDA: 0},
		Storage: StorageConfig{Driver: "sqlite", DSN: "taskgrid.db"},
		API: APIConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Bus: BusConfig{Buffer: 256},
	}
}
