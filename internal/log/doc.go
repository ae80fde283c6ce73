// Package log provides logging helpers built on top of the standard slog
// package.
//
// Crawlers log attacker-controlled strings: URLs, page titles, and link
// targets pulled out of arbitrary HTML. These can be pathologically long or
// contain control characters that corrupt line-oriented log output. The
// TruncateHandler wraps any slog.Handler and bounds every string attribute
// before it reaches the underlying handler.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("page fetched",
//	    "url", veryLongURL, // bounded to MaxValueLen runes
//	    "status", 200,
//	)
//
//	slog.SetDefault(logger)
package log
