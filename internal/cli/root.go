// Package cli provides the command-line interface for taskdeck.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app"
)

// Command group IDs.
const (
	groupTasks     = "tasks"
	groupSync      = "sync"
	groupCorrelate = "correlate"
)

// NewRootCommand creates the root command for taskdeck.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskdeck",
		Short: "Project task board mirroring a task-master store",
		Long: `taskdeck mirrors a project's task-master task file into a local
board model, keeps it synchronized, and links git commits back to
the tasks they advance.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: groupTasks, Title: "Task commands:"},
		&cobra.Group{ID: groupSync, Title: "Sync commands:"},
		&cobra.Group{ID: groupCorrelate, Title: "Correlation commands:"},
	)

	root.AddCommand(
		newListCommand(c),
		newShowCommand(c),
		newAddCommand(c),
		newMoveCommand(c),
		newSyncCommand(c),
		newWatchCommand(c),
		newCorrelateCommand(c),
		newBoardCommand(c),
	)

	return root
}
