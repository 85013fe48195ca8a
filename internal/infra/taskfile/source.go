// Package taskfile reads and watches the task file maintained by the
// external task CLI. It is the file-system collaborator behind the
// TaskSource, TaskWatcher, and ProgressSink ports.
package taskfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// fileDoc covers the two on-disk shapes the task CLI has used: a flat
// {"tasks": [...]} document, and a tagged document keyed by context name
// where each value carries its own task list.
type fileDoc struct {
	Tasks []fileTask `json:"tasks"`
}

// flexID decodes a JSON id that may be a string or a number. The task CLI
// writes numeric ids; this tool keys everything by string.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %s", data)
	}
	*f = flexID(n.String())
	return nil
}

// fileTask mirrors the on-disk task shape with id-bearing fields kept
// flexible. Everything else decodes as the domain type expects.
type fileTask struct {
	Created      time.Time       `json:"created"`
	Updated      time.Time       `json:"updated"`
	ID           flexID          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Status       domain.Status   `json:"status"`
	Priority     domain.Priority `json:"priority"`
	Dependencies []flexID        `json:"dependencies"`
	Subtasks     []fileSubtask   `json:"subtasks"`
	Complexity   float64         `json:"complexity"`
	EstimateH    float64         `json:"estimateHours"`
}

type fileSubtask struct {
	ID           flexID        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Details      string        `json:"details"`
	Status       domain.Status `json:"status"`
	Dependencies []flexID      `json:"dependencies"`
}

func (ft fileTask) toTask() domain.Task {
	task := domain.Task{
		Created:      ft.Created,
		Updated:      ft.Updated,
		ID:           string(ft.ID),
		Title:        ft.Title,
		Description:  ft.Description,
		Status:       ft.Status,
		Priority:     ft.Priority,
		Dependencies: idStrings(ft.Dependencies),
		Complexity:   ft.Complexity,
		EstimateH:    ft.EstimateH,
	}
	for _, fs := range ft.Subtasks {
		task.Subtasks = append(task.Subtasks, domain.Subtask{
			ID:           string(fs.ID),
			Title:        fs.Title,
			Description:  fs.Description,
			Details:      fs.Details,
			Status:       fs.Status,
			Dependencies: idStrings(fs.Dependencies),
		})
	}
	return task
}

func idStrings(ids []flexID) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func toTasks(fts []fileTask) []domain.Task {
	tasks := make([]domain.Task, len(fts))
	for i, ft := range fts {
		tasks[i] = ft.toTask()
	}
	return tasks
}

// Source loads task lists from a tasks.json file. The zero poll interval
// defaults to 500ms for watches.
type Source struct {
	relPath      string
	pollInterval time.Duration
}

// New creates a Source. relPath is the task file location relative to the
// project root; empty selects the default task-master layout.
func New(relPath string, pollInterval time.Duration) *Source {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &Source{relPath: relPath, pollInterval: pollInterval}
}

// Path returns the resolved task file path for a project.
func (s *Source) Path(projectPath string) string {
	return domain.TasksPath(projectPath, s.relPath)
}

// Load returns the current task list for the project path.
func (s *Source) Load(_ context.Context, projectPath string) ([]domain.Task, error) {
	path := s.Path(projectPath)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTasksFileMissing, path)
		}
		return nil, fmt.Errorf("read tasks file: %w", err)
	}
	return parseTasks(content)
}

// parseTasks decodes either on-disk shape into a task list.
func parseTasks(content []byte) ([]domain.Task, error) {
	var flat fileDoc
	flatErr := json.Unmarshal(content, &flat)
	if flatErr == nil && flat.Tasks != nil {
		return toTasks(flat.Tasks), nil
	}

	// Tagged layout: {"master": {"tasks": [...]}, ...}. The first tag that
	// parses wins; task-master keeps one tag per branch context.
	var tagged map[string]fileDoc
	if err := json.Unmarshal(content, &tagged); err != nil {
		// A flat document that failed to decode reports its own error, not
		// the misleading tagged-shape one.
		if flatErr != nil {
			err = flatErr
		}
		return nil, fmt.Errorf("parse tasks file: %w", err)
	}
	if doc, ok := tagged["master"]; ok && doc.Tasks != nil {
		return toTasks(doc.Tasks), nil
	}
	for _, doc := range tagged {
		if doc.Tasks != nil {
			return toTasks(doc.Tasks), nil
		}
	}
	return nil, fmt.Errorf("parse tasks file: no task list found")
}

// Watch polls the task file for modification-time changes and delivers a
// fresh load on each change. The returned stop function blocks until any
// in-flight notification has completed; fn is never invoked after it returns.
func (s *Source) Watch(ctx context.Context, projectPath string, fn domain.WatchFunc) (func(), error) {
	path := s.Path(projectPath)

	var mu sync.Mutex
	stopped := false
	done := make(chan struct{})

	notify := func(tasks []domain.Task, err error) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		fn(tasks, err)
	}

	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		var lastMod time.Time
		if info, err := os.Stat(path); err == nil {
			lastMod = info.ModTime()
		}

		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			info, err := os.Stat(path)
			if err != nil {
				continue // File may be mid-rewrite; wait for the next tick.
			}
			if !info.ModTime().After(lastMod) {
				continue
			}
			lastMod = info.ModTime()

			tasks, err := s.Load(ctx, projectPath)
			notify(tasks, err)
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			mu.Lock()
			stopped = true
			mu.Unlock()
		})
	}
	return stop, nil
}
