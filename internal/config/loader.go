package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".crawlerd"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .crawlerd configuration file.
// Every field is optional; zero values leave the corresponding Config
// field untouched. Durations are Go duration strings (e.g. "10s", "250ms").
type File struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr,omitempty"`

	// FetchTimeout is the per-fetch timeout.
	FetchTimeout string `yaml:"fetchTimeout,omitempty"`

	// Concurrency is the per-round batch size.
	Concurrency int `yaml:"concurrency,omitempty"`

	// MaxURLs is the default crawled-page cap.
	MaxURLs int `yaml:"maxURLs,omitempty"`

	// MaxBodySize is the response body read limit in bytes.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// StreamPollInterval is the stream rescan delay.
	StreamPollInterval string `yaml:"streamPollInterval,omitempty"`
}

// LoadConfigFile loads server settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle that error based on whether the path was explicitly specified by
// the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply overlays the file's non-zero values onto cfg.
// It returns an error if a duration field does not parse.
func (cf *File) Apply(cfg *Config) error {
	if cf.Addr != "" {
		cfg.Addr = cf.Addr
	}
	if cf.FetchTimeout != "" {
		d, err := time.ParseDuration(cf.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid fetchTimeout: %w", err)
		}
		cfg.FetchTimeout = d
	}
	if cf.Concurrency != 0 {
		cfg.Concurrency = cf.Concurrency
	}
	if cf.MaxURLs != 0 {
		cfg.MaxURLs = cf.MaxURLs
	}
	if cf.MaxBodySize != 0 {
		cfg.MaxBodySize = cf.MaxBodySize
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.StreamPollInterval != "" {
		d, err := time.ParseDuration(cf.StreamPollInterval)
		if err != nil {
			return fmt.Errorf("invalid streamPollInterval: %w", err)
		}
		cfg.StreamPollInterval = d
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .crawlerd in the current directory
// 3. Look for .crawlerd in the user's home directory
// 4. Look for config.yml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
