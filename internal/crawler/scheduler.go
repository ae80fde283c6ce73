package crawler

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/WebDevelopersofficial/crawler-api/internal/model"
)

// Scheduler drives a Task through repeated fetch rounds until the
// frontier drains or the page cap is reached. Each round dequeues up to
// the concurrency limit of pending URLs, fetches them concurrently, and
// waits for the whole batch before dequeuing again, so exactly one round
// per task is in flight at any time.
type Scheduler struct {
	// fetcher performs the page fetches.
	fetcher *Fetcher

	// concurrency is the batch size of one round.
	concurrency int

	// logger receives round and completion events.
	logger *slog.Logger
}

// NewScheduler creates a Scheduler dispatching up to concurrency fetches
// per round. A nil logger falls back to slog.Default.
func NewScheduler(fetcher *Fetcher, concurrency int, logger *slog.Logger) *Scheduler {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		fetcher:     fetcher,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run crawls the task to completion. Individual fetch failures are
// recorded and never abort the crawl; the loop ends only when the task
// is done or ctx is cancelled. Either way the task is marked complete on
// return, so result-stream readers terminate.
func (s *Scheduler) Run(ctx context.Context, task *Task) {
	s.logger.Info("crawl started",
		"task", task.ID(),
		"root", task.RootURL(),
		"domain", task.Domain(),
	)

	rounds := 0
	for !task.IsDone() {
		if ctx.Err() != nil {
			s.logger.Warn("crawl interrupted", "task", task.ID(), "error", ctx.Err())
			break
		}

		batch := task.DequeueBatch(s.concurrency)
		if len(batch) == 0 {
			break
		}
		rounds++

		g, gctx := errgroup.WithContext(ctx)
		for _, pageURL := range batch {
			g.Go(func() error {
				s.crawlOne(gctx, task, pageURL)
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // crawlOne never returns an error

		s.logger.Debug("round finished",
			"task", task.ID(),
			"round", rounds,
			"batch", len(batch),
			"visited", task.VisitedCount(),
		)
	}

	task.MarkComplete()

	s.logger.Info("crawl complete",
		"task", task.ID(),
		"rounds", rounds,
		"visited", task.VisitedCount(),
		"discovered", task.DiscoveredCount(),
	)
}

// crawlOne fetches a single URL, records the outcome, and feeds in-scope
// discoveries back into the frontier. A panic anywhere in the fetch or
// extraction is converted into a transport-failure record so one bad page
// cannot take down the crawl.
func (s *Scheduler) crawlOne(ctx context.Context, task *Task, pageURL string) {
	recorded := false
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while crawling page", "task", task.ID(), "url", pageURL, "panic", r)
			if !recorded {
				task.RecordResult(pageURL, model.StatusFetchError)
			}
		}
	}()

	result := s.fetcher.Fetch(ctx, pageURL)
	task.RecordResult(pageURL, result.Status)
	recorded = true

	if result.Body == "" {
		return
	}

	// Scope is judged against the crawl's fixed root domain, not this
	// page's own host, so redirects cannot drift the crawl off-domain.
	for _, link := range ExtractLinks(result.Body, pageURL) {
		if !InScope(link, task.Domain()) {
			continue
		}
		if !task.RobotsAllows(link) {
			continue
		}
		task.EnqueueIfNew(link)
	}
}
