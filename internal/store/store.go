// Package store holds the normalized in-memory task model for one project:
// task and subtask records in separate keyed maps, a derived status index,
// and UI selection state. All mutations are atomic with respect to each
// other; readers never observe a partially updated index/record pair.
package store

import (
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// Store owns all task and subtask records for the currently loaded project.
// Fields are ordered to minimize memory padding.
type Store struct {
	tasks      map[string]*domain.Task
	subtasks   map[string]*domain.Subtask
	index      map[domain.Status][]string
	pending    map[string]struct{}
	clock      domain.Clock
	lastSync   time.Time
	projectID  string
	selectedID string
	errMsg     string
	mu         sync.RWMutex
	batch      bool
	loading    bool
}

// New creates an empty store for the given project identifier.
func New(projectID string, clock domain.Clock) *Store {
	if clock == nil {
		clock = domain.RealClock{}
	}
	s := &Store{
		projectID: projectID,
		clock:     clock,
	}
	s.reset()
	return s
}

// reset reinitializes all record maps and pre-creates a bucket for every
// known status. Caller must hold the write lock (or own the store exclusively).
func (s *Store) reset() {
	s.tasks = make(map[string]*domain.Task)
	s.subtasks = make(map[string]*domain.Subtask)
	s.index = make(map[domain.Status][]string, len(domain.AllStatuses()))
	for _, st := range domain.AllStatuses() {
		s.index[st] = nil
	}
	s.pending = make(map[string]struct{})
}

// ProjectID returns the identifier of the loaded project.
func (s *Store) ProjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectID
}

// SetTasks atomically replaces the entire store contents with the given
// snapshot. Each task is decomposed into a normalized record plus its
// subtasks. Duplicate IDs resolve last-write-wins; unrecognized status
// values are coerced to pending. The pending-sync set is reset, any error
// flag is cleared, and a fresh sync timestamp is recorded.
func (s *Store) SetTasks(tasks []domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	for i := range tasks {
		s.insertLocked(&tasks[i])
	}
	s.errMsg = ""
	s.lastSync = s.clock.Now()

	// Selection survives a reload only if the task still exists.
	if s.selectedID != "" {
		if _, ok := s.tasks[s.selectedID]; !ok {
			s.selectedID = ""
		}
	}
}

// AddTask inserts one task and its subtasks. No-op if the ID already exists;
// callers must use UpdateTask to modify an existing task.
func (s *Store) AddTask(task domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; ok {
		return
	}
	s.insertLocked(&task)
	s.markPendingLocked(task.ID)
}

// insertLocked normalizes and stores one task, replacing any existing record
// with the same ID. Caller must hold the write lock.
func (s *Store) insertLocked(task *domain.Task) {
	if prev, ok := s.tasks[task.ID]; ok {
		s.removeFromBucketLocked(prev.Status, prev.ID)
		for _, sid := range prev.SubtaskIDs {
			delete(s.subtasks, sid)
		}
	}

	rec := task.Clone()
	rec.Status = rec.Status.Normalize()
	rec.SubtaskIDs = rec.SubtaskIDs[:0]
	for i := range rec.Subtasks {
		sub := rec.Subtasks[i].Clone()
		sub.ParentID = rec.ID
		sub.Status = sub.Status.Normalize()
		s.subtasks[sub.ID] = sub
		rec.SubtaskIDs = append(rec.SubtaskIDs, sub.ID)
	}
	rec.Subtasks = nil

	s.tasks[rec.ID] = rec
	s.index[rec.Status] = append(s.index[rec.Status], rec.ID)
}

// UpdateTask shallow-merges the patch into the task. No-op if the ID is
// absent. A status change moves the ID between buckets exactly once.
func (s *Store) UpdateTask(id string, patch domain.TaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return
	}

	if patch.Status != nil {
		next := patch.Status.Normalize()
		if next != task.Status {
			s.removeFromBucketLocked(task.Status, id)
			s.index[next] = append(s.index[next], id)
			task.Status = next
		}
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Dependencies != nil {
		task.Dependencies = append([]string(nil), patch.Dependencies...)
	}
	if patch.Complexity != nil {
		task.Complexity = *patch.Complexity
	}
	if patch.EstimateH != nil {
		task.EstimateH = *patch.EstimateH
	}
	task.Updated = s.clock.Now()

	s.markPendingLocked(id)
}

// MoveTask transitions a task to a new status. Semantically identical to
// UpdateTask restricted to the status field; exists as a focused operation
// for board-style transitions.
func (s *Store) MoveTask(id string, status domain.Status) {
	s.UpdateTask(id, domain.TaskPatch{Status: &status})
}

// DeleteTask removes a task, its status bucket entry, and every owned
// subtask. Clears the selection if the deleted task was selected.
// No-op if the ID is absent.
func (s *Store) DeleteTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return
	}

	s.removeFromBucketLocked(task.Status, id)
	for _, sid := range task.SubtaskIDs {
		delete(s.subtasks, sid)
	}
	delete(s.tasks, id)
	delete(s.pending, id)

	if s.selectedID == id {
		s.selectedID = ""
	}
}

// AddSubtask inserts a subtask under the given parent. No-op if the parent
// is absent or the subtask ID already exists.
func (s *Store) AddSubtask(parentID string, sub domain.Subtask) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.tasks[parentID]
	if !ok {
		return
	}
	if _, exists := s.subtasks[sub.ID]; exists {
		return
	}

	rec := sub.Clone()
	rec.ParentID = parentID
	rec.Status = rec.Status.Normalize()
	s.subtasks[rec.ID] = rec
	parent.SubtaskIDs = append(parent.SubtaskIDs, rec.ID)

	s.markPendingLocked(parentID)
}

// UpdateSubtask shallow-merges the patch into the subtask. No-op if absent.
func (s *Store) UpdateSubtask(id string, patch domain.SubtaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subtasks[id]
	if !ok {
		return
	}

	if patch.Title != nil {
		sub.Title = *patch.Title
	}
	if patch.Description != nil {
		sub.Description = *patch.Description
	}
	if patch.Details != nil {
		sub.Details = *patch.Details
	}
	if patch.Status != nil {
		sub.Status = patch.Status.Normalize()
	}
	if patch.Dependencies != nil {
		sub.Dependencies = append([]string(nil), patch.Dependencies...)
	}

	s.markPendingLocked(sub.ParentID)
}

// DeleteSubtask removes a subtask and drops its ID from whichever task
// references it. No-op if absent.
func (s *Store) DeleteSubtask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subtasks[id]
	if !ok {
		return
	}
	delete(s.subtasks, id)

	if parent, ok := s.tasks[sub.ParentID]; ok {
		parent.SubtaskIDs = filterOut(parent.SubtaskIDs, id)
		s.markPendingLocked(parent.ID)
		return
	}
	// Ownership record was stale; scan for any task still referencing the ID.
	for _, t := range s.tasks {
		t.SubtaskIDs = filterOut(t.SubtaskIDs, id)
	}
}

// SelectTask marks a task as selected in the UI. An empty ID clears the
// selection. Last write wins; no existence check is performed.
func (s *Store) SelectTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
}

// SelectedTaskID returns the currently selected task ID, or "".
func (s *Store) SelectedTaskID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

// SetLoading sets the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading returns the loading flag.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetError records an error message on the store. Empty clears it.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

// Err returns the current error message, or "" when none is set.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// StartBatch suppresses pending-sync bookkeeping for subsequent mutations
// until EndBatch is called.
func (s *Store) StartBatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = true
}

// EndBatch ends suppression and clears the accumulated pending-sync set,
// returning the IDs it held. Flushing those IDs downstream is the sync
// controller's job.
func (s *Store) EndBatch() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = false
	drained := make([]string, 0, len(s.pending))
	for id := range s.pending {
		drained = append(drained, id)
	}
	s.pending = make(map[string]struct{})
	return drained
}

// PendingSync returns the task IDs with an outstanding external-sync
// obligation.
func (s *Store) PendingSync() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	return ids
}

// LastSync returns the timestamp of the most recent snapshot load.
func (s *Store) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// InvalidateCache resets the last-sync marker to the epoch so the next sync
// check treats the external snapshot as newer regardless of timestamps.
func (s *Store) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSync = time.Time{}
}

// markPendingLocked records an external-sync obligation for a task unless a
// batch update is in flight. Caller must hold the write lock.
func (s *Store) markPendingLocked(id string) {
	if s.batch {
		return
	}
	s.pending[id] = struct{}{}
}

// removeFromBucketLocked removes one occurrence of id from the status bucket.
// Caller must hold the write lock.
func (s *Store) removeFromBucketLocked(status domain.Status, id string) {
	s.index[status] = filterOut(s.index[status], id)
}

// filterOut returns ids with every occurrence of id removed, preserving order.
func filterOut(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
