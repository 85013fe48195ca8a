package domain

import (
	"context"
	"time"
)

// TaskSource provides the externally maintained task list for a project.
// Implementations wrap whatever file or process produces the snapshot.
type TaskSource interface {
	// Load returns the current task list for the project path.
	Load(ctx context.Context, projectPath string) ([]Task, error)
}

// WatchFunc receives each change notification from a TaskWatcher.
// On failure, tasks is nil and err describes the problem.
type WatchFunc func(tasks []Task, err error)

// TaskWatcher observes a project path and delivers fresh task lists on change.
type TaskWatcher interface {
	// Watch begins observing the project path. The returned stop function
	// terminates the watch; after it returns, fn is never invoked again.
	Watch(ctx context.Context, projectPath string, fn WatchFunc) (stop func(), err error)
}

// ProgressSink receives progress updates derived from commit correlation.
// Implementations forward them to whatever owns the task file.
type ProgressSink interface {
	ApplyProgress(ctx context.Context, update ProgressUpdate) error
}

// CommitReader lists recent commits from a version-control repository.
type CommitReader interface {
	// Recent returns up to limit commits, newest first.
	Recent(ctx context.Context, limit int) ([]CommitRecord, error)
}

// SnapshotCache persists an opaque store snapshot so a project can be
// rehydrated without a fresh fetch.
type SnapshotCache interface {
	// Save stores the blob under the project key, replacing any previous value.
	Save(projectID string, blob []byte) error

	// Load returns the blob for the project key. Returns ErrSnapshotNotFound
	// if no snapshot exists.
	Load(projectID string) ([]byte, error)

	// Close releases the underlying storage.
	Close() error
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (project + global + defaults).
	Load() (*Config, error)
}

// Config represents the application configuration.
type Config struct {
	Log       LogConfig       // [log] settings
	Sync      SyncConfig      // [sync] settings
	Correlate CorrelateConfig // [correlate] settings
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string // debug, info, warn, error
}

// SyncConfig holds sync settings from the [sync] section.
type SyncConfig struct {
	TasksFile      string // Task file path relative to the project root
	PollIntervalMS int    // Watch poll interval in milliseconds
}

// CorrelateConfig holds correlation settings from the [correlate] section.
type CorrelateConfig struct {
	MaxCommits    int     // How many commits the correlate command examines
	MinConfidence float64 // Below this, results are reported but never applied
	UseAI         bool    // Enable the semantic fallback strategy
}

// NewDefaultConfig returns the configuration defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Log:  LogConfig{Level: "info"},
		Sync: SyncConfig{TasksFile: DefaultTasksFile, PollIntervalMS: 500},
		Correlate: CorrelateConfig{
			MaxCommits:    20,
			MinConfidence: 0.5,
			UseAI:         false,
		},
	}
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
