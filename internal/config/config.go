package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These are chosen to match the behavior of
// the original crawler API deployment where applicable.
const (
	// DefaultAddr is the listen address for the HTTP API.
	// Port 8000 matches the original deployment default.
	DefaultAddr = ":8000"

	// DefaultFetchTimeout applies to each page fetch, including redirects.
	// 10 seconds is generous for ordinary sites while keeping a crawl
	// round from stalling indefinitely on one slow page.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultConcurrency is the number of fetches dispatched per scheduler
	// round. Each round waits for all of its fetches before the next round
	// starts, so this bounds the in-flight requests per task.
	DefaultConcurrency = 5

	// DefaultMaxURLs caps how many pages a single task crawls when the
	// request does not specify its own limit.
	DefaultMaxURLs = 1000

	// DefaultMaxBodySize limits how much of a response body is read.
	// 5MB is sufficient for HTML pages while preventing memory exhaustion
	// from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent is a browser-like User-Agent. Some sites return 403
	// or redirect loops for the Go default client string.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

	// DefaultStreamPollInterval is how often a result-stream reader rescans
	// the result log for records it has not delivered yet.
	DefaultStreamPollInterval = 100 * time.Millisecond

	// DefaultShutdownTimeout is how long the server waits for in-flight
	// HTTP requests when shutting down.
	DefaultShutdownTimeout = 5 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "crawlerd"
)

// Config holds all configuration options for the crawler API server.
// It is populated from defaults, an optional configuration file, and CLI
// flags (in that order, later sources winning), then passed through the
// application via dependency injection rather than global state.
type Config struct {
	// Addr is the address the HTTP API listens on, in "host:port" form.
	Addr string

	// FetchTimeout is the timeout for each page fetch. It covers the whole
	// request including redirect following and body read.
	FetchTimeout time.Duration

	// Concurrency is the per-task batch size: how many pending URLs one
	// scheduler round dispatches concurrently.
	Concurrency int

	// MaxURLs is the default crawled-page cap applied when a crawl request
	// does not specify max_urls.
	MaxURLs int

	// MaxBodySize is the maximum response body size in bytes to read.
	// Larger bodies are truncated.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with every fetch and used
	// when evaluating robots.txt groups.
	UserAgent string

	// StreamPollInterval is the rescan delay for result-stream readers.
	StreamPollInterval time.Duration

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is the explicit path to a configuration file.
	// If empty, the well-known locations are searched instead.
	ConfigFilePath string
}

// NewConfig creates a Config with default values. Many defaults are
// non-zero, so constructing the struct directly is almost always wrong.
func NewConfig() *Config {
	return &Config{
		Addr:               DefaultAddr,
		FetchTimeout:       DefaultFetchTimeout,
		Concurrency:        DefaultConcurrency,
		MaxURLs:            DefaultMaxURLs,
		MaxBodySize:        DefaultMaxBodySize,
		UserAgent:          DefaultUserAgent,
		StreamPollInterval: DefaultStreamPollInterval,
		ShutdownTimeout:    DefaultShutdownTimeout,
	}
}

// XDGConfigDir returns the XDG config directory for the server.
// On Linux: ~/.config/crawlerd
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid. It returns the first
// problem found as one of the package sentinel errors; fixing one error
// often makes later ones irrelevant.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return ErrNoListenAddress
	}

	if c.FetchTimeout <= 0 {
		return ErrInvalidFetchTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.MaxURLs <= 0 {
		return ErrInvalidMaxURLs
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.StreamPollInterval <= 0 {
		return ErrInvalidPollInterval
	}

	return nil
}
