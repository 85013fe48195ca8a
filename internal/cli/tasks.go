package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app"
	"github.com/taskdeck/taskdeck/internal/domain"
)

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status  string
		JSON    bool
		Counts  bool
		AllDone bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: groupTasks,
		Short:   "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.Syncer.SyncWithFileSystem(cmd.Context(), c.Paths.ProjectRoot)
			if msg := c.Store.Err(); msg != "" {
				return fmt.Errorf("%s", msg)
			}

			if opts.Counts {
				return printCounts(cmd, c)
			}

			var tasks []*domain.Task
			if opts.Status != "" {
				status := domain.Status(opts.Status)
				if !status.IsValid() {
					return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, opts.Status)
				}
				tasks = c.Store.TasksByStatus(status)
			} else {
				tasks = c.Store.AllTasks()
				if !opts.AllDone {
					tasks = filterActive(tasks)
				}
			}

			if opts.JSON {
				return printJSON(cmd, tasks)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tSUBTASKS\tTITLE")
			for _, t := range tasks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					t.ID, t.Status.Display(), t.Priority, len(t.SubtaskIDs), t.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "Filter by status")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.Counts, "counts", false, "Show per-status counts only")
	cmd.Flags().BoolVarP(&opts.AllDone, "all", "a", false, "Include done and cancelled tasks")
	return cmd
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "show <id>",
		GroupID: groupTasks,
		Short:   "Show a task with its subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Syncer.SyncWithFileSystem(cmd.Context(), c.Paths.ProjectRoot)
			if msg := c.Store.Err(); msg != "" {
				return fmt.Errorf("%s", msg)
			}

			joined := c.Store.TaskWithSubtasks(args[0])
			if joined == nil {
				return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, args[0])
			}
			if asJSON {
				return printJSON(cmd, joined)
			}

			t := joined.Task
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "#%s %s\n", t.ID, t.Title)
			fmt.Fprintf(out, "Status:   %s\n", t.Status.Display())
			if t.Priority != "" {
				fmt.Fprintf(out, "Priority: %s\n", t.Priority)
			}
			if len(t.Dependencies) > 0 {
				fmt.Fprintf(out, "Depends:  %s\n", strings.Join(t.Dependencies, ", "))
			}
			if t.Description != "" {
				fmt.Fprintf(out, "\n%s\n", t.Description)
			}
			if len(joined.Subtasks) > 0 {
				fmt.Fprintln(out, "\nSubtasks:")
				for _, sub := range joined.Subtasks {
					fmt.Fprintf(out, "  [%s] %s %s\n", sub.Status.Display(), sub.ID, sub.Title)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// newAddCommand creates the add command for local task creation.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Priority    string
		ID          string
	}

	cmd := &cobra.Command{
		Use:     "add",
		GroupID: groupTasks,
		Short:   "Add a task to the local board",
		Long: `Add a task to the in-memory board. The task is not written back to
the external task file; it exists until the next full sync replaces
the board contents.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Title == "" {
				return domain.ErrEmptyTitle
			}
			id := opts.ID
			if id == "" {
				id = uuid.New().String()
			}
			task := domain.Task{
				ID:          id,
				Title:       opts.Title,
				Description: opts.Description,
				Status:      domain.StatusPending,
				Priority:    domain.Priority(opts.Priority),
				Created:     c.Clock.Now(),
			}
			c.Store.AddTask(task)
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "Task title (required)")
	cmd.Flags().StringVarP(&opts.Description, "body", "b", "", "Task description")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", string(domain.PriorityMedium), "Task priority")
	cmd.Flags().StringVar(&opts.ID, "id", "", "Explicit task ID (default: generated)")
	return cmd
}

// newMoveCommand creates the move command for status transitions.
func newMoveCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "move <id> <status>",
		GroupID: groupTasks,
		Short:   "Move a task to another status",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Syncer.SyncWithFileSystem(cmd.Context(), c.Paths.ProjectRoot)
			if msg := c.Store.Err(); msg != "" {
				return fmt.Errorf("%s", msg)
			}

			status := domain.Status(args[1])
			if !status.IsValid() {
				return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, args[1])
			}
			if c.Store.Task(args[0]) == nil {
				return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, args[0])
			}
			c.Store.MoveTask(args[0], status)
			fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to %s\n", args[0], status.Display())
			return nil
		},
	}
	return cmd
}

// printCounts prints the per-status task counts.
func printCounts(cmd *cobra.Command, c *app.Container) error {
	counts := c.Store.Counts()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, st := range domain.AllStatuses() {
		fmt.Fprintf(w, "%s\t%d\n", st.Display(), counts[st])
	}
	return w.Flush()
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// filterActive removes tasks with terminal status.
func filterActive(tasks []*domain.Task) []*domain.Task {
	var out []*domain.Task
	for _, t := range tasks {
		if !t.Status.IsTerminal() {
			out = append(out, t)
		}
	}
	return out
}
