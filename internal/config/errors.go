package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Package-level sentinels allow callers to use errors.Is for programmatic
// handling while keeping the messages human-readable.
var (
	// ErrNoListenAddress is returned when the listen address is empty.
	ErrNoListenAddress = errors.New("no listen address: provide --addr or set addr in the config file")

	// ErrInvalidFetchTimeout is returned when the fetch timeout is not
	// positive. A zero timeout would cause every fetch to fail immediately.
	ErrInvalidFetchTimeout = errors.New("invalid fetch timeout: must be positive")

	// ErrInvalidConcurrency is returned when the per-round batch size is
	// not positive. Zero concurrency would stall every crawl.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxURLs is returned when the default crawl cap is not
	// positive.
	ErrInvalidMaxURLs = errors.New("invalid max URLs: must be positive")

	// ErrInvalidMaxBodySize is returned when the body size limit is
	// negative. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidPollInterval is returned when the stream rescan interval
	// is not positive. A zero interval would busy-spin stream readers.
	ErrInvalidPollInterval = errors.New("invalid stream poll interval: must be positive")
)
