// Package domain contains core business entities and interfaces.
package domain

import "time"

// Task represents a top-level unit of work mirrored from a project's task file.
// Subtasks are carried embedded on input and normalized into separate records
// by the store; a normalized task references its subtasks by ID only.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created      time.Time `json:"created,omitempty"`      // Creation time
	Updated      time.Time `json:"updated,omitempty"`      // Last modification time
	ID           string    `json:"id"`                     // Task ID (unique within a project)
	Title        string    `json:"title"`                  // Title (required)
	Description  string    `json:"description,omitempty"`  // Description (optional)
	Status       Status    `json:"status"`                 // Current status
	Priority     Priority  `json:"priority,omitempty"`     // low / medium / high
	Dependencies []string  `json:"dependencies,omitempty"` // IDs of tasks this one depends on
	Subtasks     []Subtask `json:"subtasks,omitempty"`     // Embedded subtasks (input only)
	SubtaskIDs   []string  `json:"subtaskIds,omitempty"`   // Normalized subtask references
	Complexity   float64   `json:"complexity,omitempty"`   // Optional complexity score
	EstimateH    float64   `json:"estimateHours,omitempty"`
}

// Subtask represents a child unit of work owned by exactly one task.
// Fields are ordered to minimize memory padding.
type Subtask struct {
	ID           string   `json:"id"`     // Task-scoped or global ID, stored as a string key
	ParentID     string   `json:"-"`      // Owning task ID (assigned during normalization)
	Title        string   `json:"title"`  // Title (required)
	Description  string   `json:"description,omitempty"`
	Details      string   `json:"details,omitempty"` // Free-form implementation notes
	Status       Status   `json:"status"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Dependencies = append([]string(nil), t.Dependencies...)
	c.Subtasks = append([]Subtask(nil), t.Subtasks...)
	c.SubtaskIDs = append([]string(nil), t.SubtaskIDs...)
	return &c
}

// Clone returns a deep copy of the subtask.
func (s *Subtask) Clone() *Subtask {
	c := *s
	c.Dependencies = append([]string(nil), s.Dependencies...)
	return &c
}

// TaskPatch describes a partial update to a task. Nil fields are left
// untouched; a shallow merge is applied by the store.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *Status
	Priority     *Priority
	Dependencies []string
	Complexity   *float64
	EstimateH    *float64
}

// SubtaskPatch describes a partial update to a subtask.
type SubtaskPatch struct {
	Title        *string
	Description  *string
	Details      *string
	Status       *Status
	Dependencies []string
}

// TaskWithSubtasks joins a task with its resolved subtask records.
type TaskWithSubtasks struct {
	Task     *Task
	Subtasks []*Subtask
}
