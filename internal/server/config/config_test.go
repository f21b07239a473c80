package config

import (
	"strings"
	"testing"
	"time"
)

// ============================================================
// Defaults
// ============================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Redis.Addr != DefaultRedisAddr {
		t.Errorf("redis addr = %q, want %q", cfg.Server.Redis.Addr, DefaultRedisAddr)
	}
	if cfg.Server.Redis.RateLimit != DefaultRateLimit {
		t.Errorf("rate limit = %d, want %d", cfg.Server.Redis.RateLimit, DefaultRateLimit)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics enabled by default")
	}
	if cfg.Storage.SweepInterval != 100*time.Millisecond {
		t.Errorf("sweep interval = %v, want 100ms", cfg.Storage.SweepInterval)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log config = %q/%q, want info/json", cfg.Log.Level, cfg.Log.Format)
	}

	if err := Verify(cfg); err != nil {
		t.Errorf("default config does not verify: %v", err)
	}
}

// ============================================================
// Verification
// ============================================================

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(cfg *ServerConfig) {},
		},
		{
			name:    "missing redis addr",
			mutate:  func(cfg *ServerConfig) { cfg.Server.Redis.Addr = "" },
			wantErr: "server.redis.addr",
		},
		{
			name:    "redis addr without port",
			mutate:  func(cfg *ServerConfig) { cfg.Server.Redis.Addr = "localhost" },
			wantErr: "host:port",
		},
		{
			name:    "negative rate limit",
			mutate:  func(cfg *ServerConfig) { cfg.Server.Redis.RateLimit = -1 },
			wantErr: "rate_limit",
		},
		{
			name:    "negative timeout",
			mutate:  func(cfg *ServerConfig) { cfg.Server.Redis.ReadTimeout = -time.Second },
			wantErr: "timeouts",
		},
		{
			name: "metrics enabled without addr",
			mutate: func(cfg *ServerConfig) {
				cfg.Metrics.Enabled = true
				cfg.Metrics.Addr = ""
			},
			wantErr: "metrics.addr",
		},
		{
			name: "metrics disabled ignores addr",
			mutate: func(cfg *ServerConfig) {
				cfg.Metrics.Enabled = false
				cfg.Metrics.Addr = ""
			},
		},
		{
			name:    "zero sweep interval",
			mutate:  func(cfg *ServerConfig) { cfg.Storage.SweepInterval = 0 },
			wantErr: "sweep_interval",
		},
		{
			name:    "bad log level",
			mutate:  func(cfg *ServerConfig) { cfg.Log.Level = "verbose" },
			wantErr: "log.level",
		},
		{
			name:    "bad log format",
			mutate:  func(cfg *ServerConfig) { cfg.Log.Format = "xml" },
			wantErr: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Verify(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Verify() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Verify() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
