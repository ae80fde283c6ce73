// Package main provides the entry point for the crawler API server.
//
// crawlerd serves an HTTP API that crawls websites breadth-first from a
// seed URL, restricted to the seed's domain, and streams discovered URLs
// to clients as the crawl progresses.
//
// Usage:
//
//	crawlerd serve
//	crawlerd serve --addr :8000 --concurrency 5
//
// See --help for all available options.
package main

// main is the entry point for crawlerd.
func main() {
	Execute()
}
