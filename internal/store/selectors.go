package store

import (
	"sort"
	"strconv"
	"strings"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// Selectors are pure, read-only derivations over the store. They return
// cloned records so callers can never reach back into store-owned state,
// and are safe to call at any time, including during a batch update.

// TasksByStatus returns the tasks currently holding the given status, in
// bucket order. IDs in the index that resolve to no record are skipped.
func (s *Store) TasksByStatus(status domain.Status) []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Task
	for _, id := range s.index[status] {
		if t, ok := s.tasks[id]; ok {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Task returns a single task by ID, or nil if absent.
func (s *Store) Task(id string) *domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.tasks[id]; ok {
		return t.Clone()
	}
	return nil
}

// Subtask returns a single subtask by ID, or nil if absent.
func (s *Store) Subtask(id string) *domain.Subtask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sub, ok := s.subtasks[id]; ok {
		return sub.Clone()
	}
	return nil
}

// TaskWithSubtasks returns a task joined with its resolved subtask records,
// or nil if the task is absent. Subtask IDs without a record are skipped.
func (s *Store) TaskWithSubtasks(id string) *domain.TaskWithSubtasks {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil
	}
	joined := &domain.TaskWithSubtasks{Task: t.Clone()}
	for _, sid := range t.SubtaskIDs {
		if sub, ok := s.subtasks[sid]; ok {
			joined.Subtasks = append(joined.Subtasks, sub.Clone())
		}
	}
	return joined
}

// Counts returns the number of tasks per status. Every known status appears
// in the result, zero-valued when its bucket is empty.
func (s *Store) Counts() map[domain.Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.Status]int, len(s.index))
	for _, st := range domain.AllStatuses() {
		counts[st] = len(s.index[st])
	}
	return counts
}

// Filter returns the tasks satisfying the predicate, ordered by ID.
func (s *Store) Filter(pred func(*domain.Task) bool) []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Task
	for _, t := range s.tasks {
		// The predicate sees a clone so it can never reach store-owned state.
		if c := t.Clone(); pred(c) {
			out = append(out, c)
		}
	}
	sortTasks(out)
	return out
}

// AllTasks returns every task in the store, ordered by ID.
func (s *Store) AllTasks() []*domain.Task {
	return s.Filter(func(*domain.Task) bool { return true })
}

// sortTasks orders tasks by ID, numerically when both IDs are numeric.
func sortTasks(tasks []*domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return lessID(tasks[i].ID, tasks[j].ID)
	})
}

func lessID(a, b string) bool {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return an < bn
	}
	return strings.Compare(a, b) < 0
}
