// Package config provides server configuration for LoriKV.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Business validation (address formats, ranges)
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and maps.
package config
