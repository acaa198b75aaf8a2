// Package config provides 12-factor configuration management for the TermOS backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Shell: defaults for new shell sessions (username)
//   - Persist: checkpoint store settings (enabled, db path, key prefix)
//   - Logging: Log level and output format
//   - RateLimit: request rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, SHELL_USERNAME
//   - PERSIST_ENABLED, PERSIST_PATH, PERSIST_PREFIX
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
