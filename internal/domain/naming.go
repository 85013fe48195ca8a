package domain

import (
	"path/filepath"
	"strings"
)

// DefaultTasksFile is the task file path relative to the project root,
// matching the layout the external task CLI writes.
const DefaultTasksFile = ".taskmaster/tasks/tasks.json"

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "config.toml"

// DeckDirName is the per-project state directory name.
const DeckDirName = ".taskdeck"

// DeckDir returns the per-project state directory.
func DeckDir(projectRoot string) string {
	return filepath.Join(projectRoot, DeckDirName)
}

// TasksPath returns the task file path for a project.
// An empty relPath selects the default location.
func TasksPath(projectRoot, relPath string) string {
	if relPath == "" {
		relPath = DefaultTasksFile
	}
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(projectRoot, relPath)
}

// CachePath returns the snapshot cache database path for a project.
func CachePath(projectRoot string) string {
	return filepath.Join(DeckDir(projectRoot), "cache.db")
}

// LogPath returns the log file path for a project.
func LogPath(projectRoot string) string {
	return filepath.Join(DeckDir(projectRoot), "logs", "taskdeck.log")
}

// GlobalConfigDir returns the global config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, "taskdeck")
}

// IsSubtaskID returns true for dotted identifiers like "27.6".
func IsSubtaskID(id string) bool {
	return strings.Contains(id, ".")
}

// ParentOfSubtaskID returns the parent portion of a dotted identifier,
// or the id itself when it is not dotted.
func ParentOfSubtaskID(id string) string {
	if i := strings.Index(id, "."); i >= 0 {
		return id[:i]
	}
	return id
}
