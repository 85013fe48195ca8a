package store

import (
	"sort"
	"time"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// Snapshot is the serializable form of the store: enough to rehydrate a
// project without a fresh fetch. How it is persisted (and where) is the
// snapshot cache's concern; the store treats it as plain data.
type Snapshot struct {
	Tasks     map[string]*domain.Task    `yaml:"tasks" json:"tasks"`
	Subtasks  map[string]*domain.Subtask `yaml:"subtasks" json:"subtasks"`
	ProjectID string                     `yaml:"project" json:"project"`
	LastSync  time.Time                  `yaml:"lastSync" json:"lastSync"`
}

// Export captures the current store contents as a snapshot.
func (s *Store) Export() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Tasks:     make(map[string]*domain.Task, len(s.tasks)),
		Subtasks:  make(map[string]*domain.Subtask, len(s.subtasks)),
		ProjectID: s.projectID,
		LastSync:  s.lastSync,
	}
	for id, t := range s.tasks {
		snap.Tasks[id] = t.Clone()
	}
	for id, sub := range s.subtasks {
		snap.Subtasks[id] = sub.Clone()
	}
	return snap
}

// Restore atomically replaces the store contents from a snapshot, rebuilding
// the status index from the restored records.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.projectID = snap.ProjectID
	s.lastSync = snap.LastSync

	for id, t := range snap.Tasks {
		rec := t.Clone()
		rec.ID = id
		rec.Status = rec.Status.Normalize()
		s.tasks[id] = rec
		s.index[rec.Status] = append(s.index[rec.Status], id)
	}
	// Map iteration order is random; keep buckets deterministic.
	for _, st := range domain.AllStatuses() {
		sort.Slice(s.index[st], func(i, j int) bool {
			return lessID(s.index[st][i], s.index[st][j])
		})
	}
	for id, sub := range snap.Subtasks {
		rec := sub.Clone()
		rec.ID = id
		rec.Status = rec.Status.Normalize()
		s.subtasks[id] = rec
	}

	if s.selectedID != "" {
		if _, ok := s.tasks[s.selectedID]; !ok {
			s.selectedID = ""
		}
	}
}
