package crawler

import (
	"errors"
	"net/url"
	"sync"

	"github.com/WebDevelopersofficial/crawler-api/internal/model"
)

// ErrInvalidRootURL is returned when a crawl's seed URL lacks a scheme or
// an authority. This is the only task setup failure; it is surfaced before
// any crawl state is created.
var ErrInvalidRootURL = errors.New("invalid root URL: scheme and host are required")

// Task holds the full state of one crawl: the frontier (pending queue plus
// discovered set), the visited set, and the append-only result log.
//
// All mutating methods are safe to call from the concurrent fetches of a
// scheduler round; a single mutex serializes every state change, including
// log appends. The invariants maintained here:
//
//   - discovered ⊇ visited
//   - queue contains only URLs in discovered that are not yet visited
//   - len(visited) never exceeds maxURLs
//   - records only grows, and existing entries never change
type Task struct {
	// id uniquely identifies the task. IDs are never reused.
	id string

	// rootURL is the seed URL the crawl started from.
	rootURL string

	// domain is the root URL's authority. Scope is evaluated against this
	// fixed value for the task's whole lifetime, so a redirect onto
	// another host cannot drift the crawl off its original domain.
	domain string

	// maxURLs caps len(visited).
	maxURLs int

	// robots is the robots.txt policy for this crawl. It is set once
	// before the first scheduler round and read-only afterwards.
	robots *RobotsPolicy

	mu         sync.Mutex
	discovered map[string]bool
	visited    map[string]bool
	queue      []string
	records    []model.URLRecord
	complete   bool
}

// NewTask creates the state for a crawl of up to maxURLs pages rooted at
// rootURL. The root is placed on the queue and in the discovered set, but
// no pending record is logged for it: the seed's first log entry is its
// fetch result.
//
// Returns ErrInvalidRootURL if rootURL has no scheme or no authority.
func NewTask(id, rootURL string, maxURLs int) (*Task, error) {
	u, err := url.Parse(rootURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidRootURL
	}

	t := &Task{
		id:         id,
		rootURL:    rootURL,
		domain:     u.Host,
		maxURLs:    maxURLs,
		robots:     AllowAllRobots(),
		discovered: make(map[string]bool),
		visited:    make(map[string]bool),
		queue:      make([]string, 0, 1),
		records:    make([]model.URLRecord, 0),
	}

	t.discovered[rootURL] = true
	t.queue = append(t.queue, rootURL)

	return t, nil
}

// ID returns the task's unique identifier.
func (t *Task) ID() string { return t.id }

// RootURL returns the seed URL.
func (t *Task) RootURL() string { return t.rootURL }

// Domain returns the authority every in-scope link must match.
func (t *Task) Domain() string { return t.domain }

// SetRobotsPolicy installs the robots.txt policy. It must be called
// before the scheduler's first round; the policy is not re-read later.
func (t *Task) SetRobotsPolicy(p *RobotsPolicy) {
	if p != nil {
		t.robots = p
	}
}

// RobotsAllows reports whether the task's robots policy permits rawURL.
func (t *Task) RobotsAllows(rawURL string) bool {
	return t.robots.Allows(rawURL)
}

// EnqueueIfNew adds rawURL to the frontier unless it has ever been
// discovered before, logging a pending record at enqueue time. Calling it
// again with the same URL is a no-op, so a page linking to itself five
// times yields one queue entry and one pending record. Returns true if
// the URL was enqueued.
func (t *Task) EnqueueIfNew(rawURL string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.discovered[rawURL] {
		return false
	}

	t.discovered[rawURL] = true
	t.queue = append(t.queue, rawURL)
	t.records = append(t.records, model.NewPendingRecord(rawURL))

	return true
}

// DequeueBatch removes and returns up to n URLs from the front of the
// queue, marking each as visited before it is returned so no concurrent
// round could dispatch the same URL twice. URLs already visited are
// discarded rather than returned. The batch also stops early when the
// visited cap is reached, which keeps len(visited) ≤ maxURLs even when a
// full batch would overshoot it.
func (t *Task) DequeueBatch(n int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	batch := make([]string, 0, n)
	for len(batch) < n && len(t.queue) > 0 && len(t.visited) < t.maxURLs {
		u := t.queue[0]
		t.queue = t.queue[1:]

		if t.visited[u] {
			continue
		}

		t.visited[u] = true
		batch = append(batch, u)
	}

	return batch
}

// RecordResult appends the completion record for a fetched URL. The
// earlier pending record for the same URL, if any, stays in the log; the
// log is an event stream and both entries are meaningful history.
func (t *Task) RecordResult(rawURL string, status int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records = append(t.records, model.NewCrawledRecord(rawURL, status))
}

// IsDone reports whether the crawl has nothing left to do: the queue is
// empty or the visited cap has been reached.
func (t *Task) IsDone() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.queue) == 0 || len(t.visited) >= t.maxURLs
}

// MarkComplete transitions the task to its terminal state. It is called
// once, after the scheduler's final round; no task state mutates after it.
func (t *Task) MarkComplete() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.complete = true
}

// Complete reports whether the task has reached its terminal state.
func (t *Task) Complete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.complete
}

// VisitedCount returns how many pages have had a fetch dispatched.
func (t *Task) VisitedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.visited)
}

// DiscoveredCount returns how many distinct URLs have ever been enqueued,
// including the seed.
func (t *Task) DiscoveredCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.discovered)
}

// Snapshot returns a point-in-time copy of the result log and completion
// flag. The copy is safe to hold after the task keeps crawling.
func (t *Task) Snapshot() model.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	records := make([]model.URLRecord, len(t.records))
	copy(records, t.records)

	return model.Snapshot{
		URLs:     records,
		Complete: t.complete,
		Count:    len(records),
	}
}

// RecordsSince returns a copy of the log entries at index offset and
// beyond, together with the completion flag observed under the same lock.
// Because the log is append-only, an index cursor advanced by the caller
// yields every record exactly once.
func (t *Task) RecordsSince(offset int) ([]model.URLRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if offset >= len(t.records) {
		return nil, t.complete
	}

	records := make([]model.URLRecord, len(t.records)-offset)
	copy(records, t.records[offset:])

	return records, t.complete
}
