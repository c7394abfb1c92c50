// Package config loads runtime configuration from multiple sources (YAML files,
// .env files, environment variables, CLI flags) with precedence: CLI flags >
// Environment variables > YAML config > Defaults. Besides server settings it
// carries the connection URL and default options used to seed the resolver.
package config
