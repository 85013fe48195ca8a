package taskfile

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/domain"
)

func readDoc(t *testing.T, root string) map[string]any {
	t.Helper()
	content, err := os.ReadFile(domain.TasksPath(root, ""))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(content, &doc))
	return doc
}

func firstTask(t *testing.T, doc map[string]any) map[string]any {
	t.Helper()
	tasks, ok := doc["tasks"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, tasks)
	task, ok := tasks[0].(map[string]any)
	require.True(t, ok)
	return task
}

func TestApplyProgress_UpdateStatus(t *testing.T) {
	root := writeTasksFile(t, `{
  "tasks": [{"id": 7, "title": "Ship exporter", "status": "in-progress", "custom": "kept"}]
}`)
	sink := NewSink(New("", 0), root)

	err := sink.ApplyProgress(context.Background(), domain.ProgressUpdate{
		TaskID:   "7",
		Action:   domain.ActionUpdateStatus,
		Progress: domain.ProgressCompleted,
	})
	require.NoError(t, err)

	task := firstTask(t, readDoc(t, root))
	assert.Equal(t, "done", task["status"])
	assert.Equal(t, "kept", task["custom"], "unmodeled fields must survive the rewrite")
}

func TestApplyProgress_StartedMapsToInProgress(t *testing.T) {
	root := writeTasksFile(t, `{"tasks": [{"id": "3", "title": "T", "status": "pending"}]}`)
	sink := NewSink(New("", 0), root)

	err := sink.ApplyProgress(context.Background(), domain.ProgressUpdate{
		TaskID:   "3",
		Action:   domain.ActionUpdateStatus,
		Progress: domain.ProgressStarted,
	})
	require.NoError(t, err)
	assert.Equal(t, "in-progress", firstTask(t, readDoc(t, root))["status"])
}

func TestApplyProgress_AddProgressNote(t *testing.T) {
	root := writeTasksFile(t, `{"tasks": [{"id": "3", "title": "T", "status": "pending"}]}`)
	sink := NewSink(New("", 0), root)

	update := domain.ProgressUpdate{
		TaskID:     "3",
		Action:     domain.ActionAddProgress,
		CommitHash: "abcdef1234567890",
		Note:       "started wiring the parser",
	}
	require.NoError(t, sink.ApplyProgress(context.Background(), update))
	require.NoError(t, sink.ApplyProgress(context.Background(), update))

	log, ok := firstTask(t, readDoc(t, root))["progress"].([]any)
	require.True(t, ok)
	require.Len(t, log, 2)
	assert.Equal(t, "[abcdef1] started wiring the parser", log[0])
}

func TestApplyProgress_SubtaskStatus(t *testing.T) {
	root := writeTasksFile(t, `{
  "tasks": [{
    "id": 12, "title": "Parent", "status": "in-progress",
    "subtasks": [{"id": 2, "title": "Child", "status": "pending"}]
  }]
}`)
	sink := NewSink(New("", 0), root)

	err := sink.ApplyProgress(context.Background(), domain.ProgressUpdate{
		TaskID:   "12.2",
		Action:   domain.ActionUpdateStatus,
		Progress: domain.ProgressCompleted,
	})
	require.NoError(t, err)

	task := firstTask(t, readDoc(t, root))
	subs := task["subtasks"].([]any)
	sub := subs[0].(map[string]any)
	assert.Equal(t, "done", sub["status"])
	assert.Equal(t, "in-progress", task["status"], "parent status is untouched")
}

func TestApplyProgress_TaggedDocument(t *testing.T) {
	root := writeTasksFile(t, `{
  "master": {"tasks": [{"id": "5", "title": "T", "status": "pending"}]}
}`)
	sink := NewSink(New("", 0), root)

	err := sink.ApplyProgress(context.Background(), domain.ProgressUpdate{
		TaskID:   "5",
		Action:   domain.ActionUpdateStatus,
		Progress: domain.ProgressCompleted,
	})
	require.NoError(t, err)

	doc := readDoc(t, root)
	ctx := doc["master"].(map[string]any)
	task := ctx["tasks"].([]any)[0].(map[string]any)
	assert.Equal(t, "done", task["status"])
}

func TestApplyProgress_NoOpActions(t *testing.T) {
	root := writeTasksFile(t, `{"tasks": [{"id": "1", "title": "T", "status": "pending"}]}`)
	sink := NewSink(New("", 0), root)

	for _, action := range []domain.SuggestedAction{domain.ActionNone, domain.ActionCreateTask} {
		require.NoError(t, sink.ApplyProgress(context.Background(), domain.ProgressUpdate{
			TaskID: "1",
			Action: action,
		}))
	}
	assert.Equal(t, "pending", firstTask(t, readDoc(t, root))["status"])
}

func TestApplyProgress_UnknownTask(t *testing.T) {
	root := writeTasksFile(t, `{"tasks": [{"id": "1", "title": "T", "status": "pending"}]}`)
	sink := NewSink(New("", 0), root)

	err := sink.ApplyProgress(context.Background(), domain.ProgressUpdate{
		TaskID:   "99",
		Action:   domain.ActionUpdateStatus,
		Progress: domain.ProgressCompleted,
	})
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestApplyProgress_UnknownParent(t *testing.T) {
	root := writeTasksFile(t, `{"tasks": [{"id": "1", "title": "T", "status": "pending"}]}`)
	sink := NewSink(New("", 0), root)

	err := sink.ApplyProgress(context.Background(), domain.ProgressUpdate{
		TaskID:   "9.1",
		Action:   domain.ActionUpdateStatus,
		Progress: domain.ProgressCompleted,
	})
	require.ErrorIs(t, err, domain.ErrParentNotFound)
}

func TestApplyProgress_UnknownSubtask(t *testing.T) {
	root := writeTasksFile(t, `{"tasks": [{"id": "1", "title": "T", "status": "pending"}]}`)
	sink := NewSink(New("", 0), root)

	err := sink.ApplyProgress(context.Background(), domain.ProgressUpdate{
		TaskID:   "1.4",
		Action:   domain.ActionUpdateStatus,
		Progress: domain.ProgressCompleted,
	})
	require.ErrorIs(t, err, domain.ErrSubtaskNotFound)
}
