// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for lorikv-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Metrics MetricsSection `koanf:"metrics"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
}

// RedisConfig configures the Redis protocol server.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// ReadTimeout bounds how long a single command may take to arrive
	// once its first byte has been read.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds reply writes.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// IdleTimeout closes connections with no traffic.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// RateLimit is the maximum commands per second per client IP.
	// Zero disables rate limiting.
	RateLimit int `koanf:"rate_limit"`
}

// MetricsSection configures the Prometheus metrics endpoint.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// StorageSection configures key space behavior.
type StorageSection struct {
	// SweepInterval is the period of the background expiry sweep.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
