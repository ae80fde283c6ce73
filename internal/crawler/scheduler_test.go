package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

// newTestSite serves the given path->HTML pages as text/html.
func newTestSite(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	for path, body := range pages {
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(body))
		})
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// runCrawl builds a task for the server root and crawls it to completion.
func runCrawl(t *testing.T, server *httptest.Server, maxURLs int) *Task {
	t.Helper()

	task, err := NewTask("test-task", server.URL+"/", maxURLs)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	s := NewScheduler(NewFetcher(2*time.Second), 5, nil)
	s.Run(context.Background(), task)
	return task
}

// TestSchedulerCrawl tests full crawls over small link graphs.
func TestSchedulerCrawl(t *testing.T) {
	t.Parallel()

	t.Run("follows in-domain links and drops out-of-scope ones", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t, map[string]string{
			"/": `<html><body>
				<a href="/b">in-domain</a>
				<a href="http://other.test/x">cross-domain</a>
				<a href="/c.png">excluded extension</a>
			</body></html>`,
			"/b": `<html><body>no links</body></html>`,
		})
		task := runCrawl(t, server, 10)

		if !task.Complete() {
			t.Error("task should be complete")
		}
		if task.VisitedCount() != 2 {
			t.Errorf("expected 2 visited (root and /b), got %d", task.VisitedCount())
		}
		if task.DiscoveredCount() != 2 {
			t.Errorf("expected 2 discovered, got %d", task.DiscoveredCount())
		}

		for _, r := range task.Snapshot().URLs {
			u, err := url.Parse(r.URL)
			if err != nil {
				t.Fatalf("bad record URL %q: %v", r.URL, err)
			}
			if u.Host == "other.test" {
				t.Errorf("cross-domain URL leaked into the log: %s", r.URL)
			}
			if u.Path == "/c.png" {
				t.Errorf("excluded extension leaked into the log: %s", r.URL)
			}
		}
	})

	t.Run("seed timeout leaves one failure record", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(500 * time.Millisecond)
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		}))
		t.Cleanup(server.Close)

		task, err := NewTask("test-task", server.URL+"/", 10)
		if err != nil {
			t.Fatalf("failed to create task: %v", err)
		}

		s := NewScheduler(NewFetcher(50*time.Millisecond), 5, nil)
		s.Run(context.Background(), task)

		if !task.Complete() {
			t.Error("task should be complete")
		}

		snap := task.Snapshot()
		if len(snap.URLs) != 1 {
			t.Fatalf("expected exactly one record, got %d", len(snap.URLs))
		}
		if snap.URLs[0].URL != server.URL+"/" {
			t.Errorf("unexpected record URL %q", snap.URLs[0].URL)
		}
		if !snap.URLs[0].Crawled() || snap.URLs[0].StatusCode() != 0 {
			t.Errorf("expected status 0, got %v", snap.URLs[0].Status)
		}
		if task.DiscoveredCount() != 1 {
			t.Errorf("expected zero additional discoveries, got %d", task.DiscoveredCount()-1)
		}
	})

	t.Run("max URLs of one stops after the seed", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t, map[string]string{
			"/": `<html><body>
				<a href="/p1">1</a><a href="/p2">2</a><a href="/p3">3</a>
				<a href="/p4">4</a><a href="/p5">5</a>
			</body></html>`,
		})
		task := runCrawl(t, server, 1)

		if task.VisitedCount() != 1 {
			t.Errorf("expected exactly 1 visited, got %d", task.VisitedCount())
		}
		if task.DiscoveredCount() != 6 {
			t.Errorf("expected seed plus 5 discoveries, got %d", task.DiscoveredCount())
		}

		// 1 crawled record for the seed, 5 pending records never crawled.
		var pending, crawled int
		for _, r := range task.Snapshot().URLs {
			if r.Crawled() {
				crawled++
			} else {
				pending++
			}
		}
		if crawled != 1 || pending != 5 {
			t.Errorf("expected 1 crawled and 5 pending records, got %d/%d", crawled, pending)
		}
	})

	t.Run("link cycles terminate", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t, map[string]string{
			"/":  `<html><body><a href="/b">b</a></body></html>`,
			"/b": `<html><body><a href="/">home</a><a href="/b">self</a></body></html>`,
		})
		task := runCrawl(t, server, 10)

		if !task.Complete() {
			t.Error("cyclic site should still complete")
		}
		if task.VisitedCount() != 2 {
			t.Errorf("expected 2 visited, got %d", task.VisitedCount())
		}
	})

	t.Run("failed pages do not abort the crawl", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><a href="/gone">gone</a><a href="/b">b</a></body></html>`))
		})
		mux.HandleFunc("/b", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html></html>`))
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		task, err := NewTask("test-task", server.URL+"/", 10)
		if err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
		s := NewScheduler(NewFetcher(2*time.Second), 5, nil)
		s.Run(context.Background(), task)

		if task.VisitedCount() != 3 {
			t.Errorf("expected 3 visited, got %d", task.VisitedCount())
		}

		var notFound bool
		for _, r := range task.Snapshot().URLs {
			if r.Crawled() && r.StatusCode() == http.StatusNotFound {
				notFound = true
			}
		}
		if !notFound {
			t.Error("expected a 404 record for the dead link")
		}
	})

	t.Run("cap holds on wide sites", func(t *testing.T) {
		t.Parallel()

		// Every page links to 10 more; the cap is the only terminator.
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			base := strings.TrimSuffix(r.URL.Path, "/")
			for i := 0; i < 10; i++ {
				fmt.Fprintf(w, `<a href="%s/l%d">x</a>`, base, i)
			}
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		task, err := NewTask("test-task", server.URL+"/", 12)
		if err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
		s := NewScheduler(NewFetcher(2*time.Second), 5, nil)
		s.Run(context.Background(), task)

		if task.VisitedCount() > 12 {
			t.Errorf("visited %d exceeds the cap of 12", task.VisitedCount())
		}
		if !task.Complete() {
			t.Error("capped crawl should complete")
		}
	})
}

// TestSchedulerContextCancel tests that cancellation still completes the
// task so stream readers can terminate.
func TestSchedulerContextCancel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		base := strings.TrimSuffix(r.URL.Path, "/")
		for i := 0; i < 5; i++ {
			fmt.Fprintf(w, `<a href="%s/l%d">x</a>`, base, i)
		}
	}))
	t.Cleanup(server.Close)

	task, err := NewTask("test-task", server.URL+"/", 100000)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	s := NewScheduler(NewFetcher(2*time.Second), 5, nil)
	s.Run(ctx, task)

	if !task.Complete() {
		t.Error("cancelled crawl must still be marked complete")
	}
}
