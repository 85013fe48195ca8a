package taskfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// Sink applies correlation-derived progress updates back to the task file.
// The document is edited as generic JSON so fields this tool does not model
// pass through untouched.
type Sink struct {
	source      *Source
	projectPath string
}

// NewSink creates a Sink writing through the given source's task file.
func NewSink(source *Source, projectPath string) *Sink {
	return &Sink{source: source, projectPath: projectPath}
}

// ApplyProgress applies one update: ActionUpdateStatus rewrites the task's
// status ("completed" maps to done, "started"/"in-progress" to in-progress);
// ActionAddProgress appends a note to the task's progress log. Other actions
// are no-ops.
func (s *Sink) ApplyProgress(_ context.Context, update domain.ProgressUpdate) error {
	if update.Action != domain.ActionUpdateStatus && update.Action != domain.ActionAddProgress {
		return nil
	}

	path := s.source.Path(s.projectPath)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tasks file: %w", err)
	}

	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("parse tasks file: %w", err)
	}

	task := findTask(doc, domain.ParentOfSubtaskID(update.TaskID))
	if task == nil {
		if domain.IsSubtaskID(update.TaskID) {
			return fmt.Errorf("%w: %s", domain.ErrParentNotFound, update.TaskID)
		}
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, update.TaskID)
	}
	target := task
	if domain.IsSubtaskID(update.TaskID) {
		if target = findSubtask(task, update.TaskID); target == nil {
			return fmt.Errorf("%w: %s", domain.ErrSubtaskNotFound, update.TaskID)
		}
	}

	switch update.Action {
	case domain.ActionUpdateStatus:
		target["status"] = string(statusFor(update.Progress))
	case domain.ActionAddProgress:
		note := fmt.Sprintf("[%s] %s", shortHash(update.CommitHash), update.Note)
		log, _ := target["progress"].([]any)
		target["progress"] = append(log, note)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks file: %w", err)
	}

	// Write to temp file first, then rename for atomicity.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, out, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// statusFor maps a progress estimate to a task status.
func statusFor(p domain.ProgressEstimate) domain.Status {
	switch p {
	case domain.ProgressCompleted:
		return domain.StatusDone
	case domain.ProgressStarted, domain.ProgressInProgress:
		return domain.StatusInProgress
	default:
		return domain.StatusPending
	}
}

// findTask locates the task object with the given id in either document
// shape. IDs compare as strings since the file may store them as numbers.
func findTask(doc any, id string) map[string]any {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	if tasks, ok := root["tasks"].([]any); ok {
		return taskByID(tasks, id)
	}
	for _, v := range root {
		ctx, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if tasks, ok := ctx["tasks"].([]any); ok {
			if t := taskByID(tasks, id); t != nil {
				return t
			}
		}
	}
	return nil
}

func taskByID(tasks []any, id string) map[string]any {
	for _, v := range tasks {
		t, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if idString(t["id"]) == id {
			return t
		}
	}
	return nil
}

// findSubtask locates the subtask with the given dotted id. Subtask entries
// may carry either the dotted id or just the child portion.
func findSubtask(task map[string]any, dotted string) map[string]any {
	subs, ok := task["subtasks"].([]any)
	if !ok {
		return nil
	}
	child := dotted[len(domain.ParentOfSubtaskID(dotted))+1:]
	for _, v := range subs {
		sub, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if id := idString(sub["id"]); id == dotted || id == child {
			return sub
		}
	}
	return nil
}

// idString renders a JSON id value (string or number) as a string key.
func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		if id == float64(int64(id)) {
			return fmt.Sprintf("%d", int64(id))
		}
		return fmt.Sprintf("%g", id)
	default:
		return ""
	}
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
