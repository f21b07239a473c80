// Package confloader provides configuration loading mechanism.
//
// Configuration merges from three layers, later layers winning:
//
//  1. Struct defaults supplied by the caller
//  2. A YAML configuration file
//  3. LORIKV_-prefixed environment variables
//
// A companion Watcher reloads configuration when the file changes,
// letting the server pick up log-level changes without a restart.
package confloader
