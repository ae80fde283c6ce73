// Package config holds the server configuration: defaults, CLI-facing
// settings, validation, and the optional YAML configuration file.
package config
