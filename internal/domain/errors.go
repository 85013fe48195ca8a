package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrSubtaskNotFound  = errors.New("subtask not found")
	ErrParentNotFound   = errors.New("parent task not found")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrTasksFileMissing = errors.New("tasks file not found")
	ErrNotGitRepository = errors.New("not a git repository (or any of the parent directories)")
)
