// Package model defines the data types shared between the crawl engine
// and the HTTP layer.
//
// The central type is URLRecord, one entry in a crawl task's append-only
// result log. A URL appears in the log up to twice: once when it is
// discovered (pending, no status) and once after its fetch completes
// (with the HTTP status, or 0 for a transport failure). Records are
// immutable once appended; consumers reconcile the two entries by URL if
// they want a latest-state view.
package model
