// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional config.yaml and a local .env file.
// Environment variables use the LINGO_ prefix, e.g. LINGO_SERVER_PORT.
package config
