// Package config manages user-level settings stored at ~/.oas/config.yaml.
// Keys can be overridden with OAS_-prefixed environment variables; the CLI
// reads "runtime" (default template set) and "log_level".
package config
