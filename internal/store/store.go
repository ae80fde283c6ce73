// Package store provides the process-wide registry of crawl tasks.
//
// The original service kept tasks in a global map; here the registry is
// an explicit value owned by the process and handed to the engine, so
// tests can run isolated registries and eviction has a single home.
package store

import (
	"errors"
	"sync"

	"github.com/WebDevelopersofficial/crawler-api/internal/crawler"
)

// ErrTaskNotFound is returned when no task exists for the given ID.
var ErrTaskNotFound = errors.New("task not found")

// TaskStore is the registry interface the engine depends on.
type TaskStore interface {
	// Put registers a task under its ID. Registering the same ID twice
	// replaces the entry; the engine never does this since IDs are
	// unique per task.
	Put(task *crawler.Task)

	// Get returns the task for id, or ErrTaskNotFound.
	Get(id string) (*crawler.Task, error)

	// Evict removes a task from the registry. Readers holding the task
	// keep a usable reference; eviction only stops new lookups.
	Evict(id string)

	// Len returns the number of registered tasks.
	Len() int
}

// MemoryStore is the in-memory TaskStore used by the server. Tasks live
// until evicted; there is no persistence across restarts.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*crawler.Task
}

// NewMemoryStore creates an empty in-memory registry.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]*crawler.Task),
	}
}

// Put registers a task under its ID.
func (s *MemoryStore) Put(task *crawler.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID()] = task
}

// Get returns the task for id, or ErrTaskNotFound.
func (s *MemoryStore) Get(id string) (*crawler.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// Evict removes a task from the registry.
func (s *MemoryStore) Evict(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tasks, id)
}

// Len returns the number of registered tasks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tasks)
}
