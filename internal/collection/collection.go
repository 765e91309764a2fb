// Package collection owns the client's cached copy of the task list. It is
// the single source of truth for every task-derived view; all writes go
// through the mutation pipeline or Load.
package collection

import (
	"context"
	"strings"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
)

type Store struct {
	client api.Client

	tasks  []model.Task
	index  map[string]int
	loaded bool
	failed bool

	// gen increments whenever the collection is torn down (logout). Late
	// responses carrying an older generation must be discarded by callers.
	gen uint64
}

func NewStore(client api.Client) *Store {
	return &Store{client: client, index: map[string]int{}}
}

// Load replaces the entire collection with the remote list. On transport
// failure the previous (stale) collection is kept and the store is marked
// failed; it is never partially merged.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.client.ListTasks(ctx)
	return s.ApplyLoad(tasks, err)
}

// ApplyLoad reconciles the result of a load whose remote call ran
// elsewhere (the TUI fetches in a command and applies on its update loop).
func (s *Store) ApplyLoad(tasks []model.Task, err error) error {
	if err != nil {
		s.failed = true
		return err
	}
	s.ReplaceAll(tasks)
	return nil
}

// ReplaceAll installs the given list wholesale, preserving its order.
// Duplicate ids keep the last occurrence.
func (s *Store) ReplaceAll(tasks []model.Task) {
	s.tasks = s.tasks[:0]
	s.index = map[string]int{}
	for _, t := range tasks {
		s.UpsertLocal(t)
	}
	s.loaded = true
	s.failed = false
}

// UpsertLocal inserts or replaces by identifier. Insertion order is
// preserved; replacing keeps the original position.
func (s *Store) UpsertLocal(t model.Task) {
	id := strings.TrimSpace(t.ID)
	if id == "" {
		return
	}
	if i, ok := s.index[id]; ok {
		s.tasks[i] = t
		return
	}
	s.index[id] = len(s.tasks)
	s.tasks = append(s.tasks, t)
}

// RemoveLocal removes by identifier. Removing an absent id is a no-op.
func (s *Store) RemoveLocal(id string) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.tasks); j++ {
		s.index[s.tasks[j].ID] = j
	}
}

func (s *Store) Get(id string) (model.Task, bool) {
	i, ok := s.index[id]
	if !ok {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

// Tasks returns the collection in insertion order. The slice is a copy;
// consumers sort and filter it freely without affecting the store.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Len() int { return len(s.tasks) }

// Loaded reports whether at least one successful load has completed.
func (s *Store) Loaded() bool { return s.loaded }

// Failed reports whether the most recent load failed (the collection may be
// stale).
func (s *Store) Failed() bool { return s.failed }

// Clear evicts everything, typically on logout, and advances the
// generation so in-flight responses for the old session are discarded.
func (s *Store) Clear() {
	s.tasks = nil
	s.index = map[string]int{}
	s.loaded = false
	s.failed = false
	s.gen++
}

// Generation identifies the current lifetime of the collection.
func (s *Store) Generation() uint64 { return s.gen }
