package model

// StatusFetchError is the status recorded when a fetch failed at the
// transport level (timeout, connection refused, DNS failure) and no HTTP
// status was received.
const StatusFetchError = 0

// URLRecord is one entry in a task's result log. Records are append-only:
// once written they are never modified or removed.
type URLRecord struct {
	// URL is the absolute URL this record describes.
	URL string `json:"url"`

	// Status is the fetch outcome: the HTTP status code, or
	// StatusFetchError for a transport-level failure. It is nil for a
	// pending record, i.e. a URL that has been discovered but not yet
	// crawled.
	Status *int `json:"status"`

	// New marks a record the consumer has not acknowledged yet. The
	// engine always writes true; it exists for API compatibility and
	// carries no engine semantics.
	New bool `json:"new"`
}

// NewPendingRecord returns the record written when a URL is first
// discovered and enqueued.
func NewPendingRecord(url string) URLRecord {
	return URLRecord{URL: url, New: true}
}

// NewCrawledRecord returns the record written after a fetch attempt
// resolved with the given status.
func NewCrawledRecord(url string, status int) URLRecord {
	return URLRecord{URL: url, Status: &status, New: true}
}

// Crawled reports whether the record describes a completed fetch attempt
// rather than a pending discovery.
func (r URLRecord) Crawled() bool {
	return r.Status != nil
}

// StatusCode returns the record's status, or StatusFetchError if the
// record is pending. Use Crawled to distinguish the two cases.
func (r URLRecord) StatusCode() int {
	if r.Status == nil {
		return StatusFetchError
	}
	return *r.Status
}

// Snapshot is a point-in-time view of a task's full result log.
type Snapshot struct {
	// URLs holds every record appended so far, in append order.
	URLs []URLRecord `json:"urls"`

	// Complete is true once the task's scheduler has finished its final
	// round. It is monotonic: once true it never reverts.
	Complete bool `json:"complete"`

	// Count is len(URLs), duplicated for API convenience.
	Count int `json:"count"`
}
