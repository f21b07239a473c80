// Package config defines the server configuration structure.
package config

import (
	"errors"
	"net"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyMetrics(&cfg.Metrics); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Redis.Addr == "" {
		return errors.New("server.redis.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.Redis.Addr); err != nil {
		return errors.New("server.redis.addr is not a valid host:port: " + err.Error())
	}
	if cfg.Redis.RateLimit < 0 {
		return errors.New("server.redis.rate_limit must not be negative")
	}
	if cfg.Redis.ReadTimeout < 0 || cfg.Redis.WriteTimeout < 0 || cfg.Redis.IdleTimeout < 0 {
		return errors.New("server.redis timeouts must not be negative")
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Addr == "" {
		return errors.New("metrics.addr is required when metrics are enabled")
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return errors.New("metrics.addr is not a valid host:port: " + err.Error())
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.SweepInterval <= 0 {
		return errors.New("storage.sweep_interval must be positive")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch cfg.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.New("log.level must be one of debug, info, warn, error")
	}
	switch cfg.Format {
	case "json", "text", "console":
	default:
		return errors.New("log.format must be json or text")
	}
	return nil
}
