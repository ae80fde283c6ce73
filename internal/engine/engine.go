// Package engine exposes the crawl engine to its hosting request layer:
// task creation, point-in-time snapshots, and incremental result streams.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/WebDevelopersofficial/crawler-api/internal/config"
	"github.com/WebDevelopersofficial/crawler-api/internal/crawler"
	"github.com/WebDevelopersofficial/crawler-api/internal/model"
	"github.com/WebDevelopersofficial/crawler-api/internal/store"
)

// ErrInvalidMaxURLs is returned when a crawl request carries a negative
// page cap.
var ErrInvalidMaxURLs = errors.New("invalid max_urls: must be positive")

// Engine owns the task registry and runs one scheduler per accepted
// crawl. It is safe for concurrent use; tasks share no mutable state, so
// crawls run with unbounded parallelism relative to each other.
type Engine struct {
	// baseCtx bounds the lifetime of every crawl goroutine. It is the
	// server's lifetime context, not any single request's: a crawl must
	// outlive the request that started it.
	baseCtx context.Context

	cfg       *config.Config
	tasks     store.TaskStore
	fetcher   *crawler.Fetcher
	scheduler *crawler.Scheduler
	logger    *slog.Logger

	// robotsClient fetches robots.txt at task setup.
	robotsClient *http.Client
}

// New creates an Engine. Crawl goroutines stop when baseCtx is cancelled;
// pass the server's lifetime context.
func New(baseCtx context.Context, cfg *config.Config, tasks store.TaskStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	fetcher := crawler.NewFetcher(cfg.FetchTimeout,
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)

	return &Engine{
		baseCtx:      baseCtx,
		cfg:          cfg,
		tasks:        tasks,
		fetcher:      fetcher,
		scheduler:    crawler.NewScheduler(fetcher, cfg.Concurrency, logger),
		logger:       logger,
		robotsClient: &http.Client{Timeout: cfg.FetchTimeout},
	}
}

// CreateTask validates the request, registers a new task, and starts its
// scheduler asynchronously. It returns the task's unique ID immediately;
// uuid collisions are treated as impossible, so IDs are never reused.
//
// A root URL without both a scheme and an authority is rejected with
// crawler.ErrInvalidRootURL, and a negative cap with ErrInvalidMaxURLs,
// before any task state is created. A cap of zero means the configured
// default.
func (e *Engine) CreateTask(rootURL string, maxURLs int, respectRobots bool) (string, error) {
	if maxURLs < 0 {
		return "", ErrInvalidMaxURLs
	}
	if maxURLs == 0 {
		maxURLs = e.cfg.MaxURLs
	}

	id := uuid.NewString()
	task, err := crawler.NewTask(id, rootURL, maxURLs)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}

	e.tasks.Put(task)

	go func() {
		if respectRobots {
			// Resolved once per task; the crawl then consults the policy
			// without further network traffic. Failure falls back to the
			// permissive policy inside FetchRobotsPolicy.
			root, err := url.Parse(task.RootURL())
			if err == nil {
				task.SetRobotsPolicy(crawler.FetchRobotsPolicy(e.baseCtx, e.robotsClient, root, e.cfg.UserAgent))
			}
		}
		e.scheduler.Run(e.baseCtx, task)
	}()

	e.logger.Info("task accepted",
		"task", id,
		"root", rootURL,
		"max_urls", maxURLs,
		"respect_robots", respectRobots,
	)

	return id, nil
}

// Snapshot returns a point-in-time read of a task's full result log.
func (e *Engine) Snapshot(taskID string) (model.Snapshot, error) {
	task, err := e.tasks.Get(taskID)
	if err != nil {
		return model.Snapshot{}, err
	}
	return task.Snapshot(), nil
}

// StreamUnseen returns a channel yielding every result-log record exactly
// once, in append order. The reader rescans the log at the configured
// poll interval; the channel closes when the task is complete and fully
// drained, or when ctx is cancelled. While the task is not complete the
// stream idles and rescans forever.
func (e *Engine) StreamUnseen(ctx context.Context, taskID string) (<-chan model.URLRecord, error) {
	task, err := e.tasks.Get(taskID)
	if err != nil {
		return nil, err
	}

	ch := make(chan model.URLRecord)
	go func() {
		defer close(ch)

		offset := 0
		for {
			records, complete := task.RecordsSince(offset)
			for _, rec := range records {
				select {
				case ch <- rec:
				case <-ctx.Done():
					return
				}
			}
			offset += len(records)

			if complete {
				// Re-check under the cursor: records appended between the
				// scan and the completion flag were already included
				// because RecordsSince reads both under one lock.
				if more, _ := task.RecordsSince(offset); len(more) == 0 {
					return
				}
				continue
			}

			select {
			case <-time.After(e.cfg.StreamPollInterval):
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Evict removes a finished task from the registry. Active streams keep
// their task reference and drain normally.
func (e *Engine) Evict(taskID string) {
	e.tasks.Evict(taskID)
}
