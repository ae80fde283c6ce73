// Package crawler implements the crawl engine: scope classification,
// page fetching and link extraction, per-task frontier state, and the
// round-based scheduler that drives a crawl to completion.
//
// # Components
//
//   - InScope: pure classifier deciding whether a link belongs in a
//     crawl's frontier (same authority as the root, no skip-listed
//     file extension)
//   - Fetcher: bounded-time page fetch returning HTML content and a
//     status code, never an error
//   - Parser: best-effort HTML link extraction with relative URL
//     resolution
//   - RobotsPolicy: optional robots.txt enforcement, fetched once per
//     task and failing open
//   - Task: one crawl's frontier, dedup sets, and append-only result log
//   - Scheduler: repeated bounded-concurrency fetch rounds until the
//     frontier drains or the page cap is reached
//
// # Concurrency
//
// One scheduler round is active per task at a time. The fetches within a
// round run concurrently and feed discoveries back into the shared Task,
// so every Task mutation is guarded by its mutex. Distinct tasks share no
// state and run independently.
//
// # Failure model
//
// A failed fetch (timeout, non-200, non-HTML, transport error) is a
// normal result recorded with its status code; it never aborts the task
// and is never retried. Malformed HTML degrades to partial or empty link
// extraction. The only setup failure is an unusable root URL, rejected
// before any task state exists.
package crawler
