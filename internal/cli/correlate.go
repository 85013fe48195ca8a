package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app"
	"github.com/taskdeck/taskdeck/internal/correlate"
)

// newCorrelateCommand creates the correlate command.
func newCorrelateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Limit  int
		UseAI  bool
		Apply  bool
		JSON   bool
		Commit string
	}

	cmd := &cobra.Command{
		Use:     "correlate",
		GroupID: groupCorrelate,
		Short:   "Link recent commits to the tasks they advance",
		Long: `Analyze recent commit messages against the loaded task list and report
which task each commit most likely advances. With --apply, confident
results are written back to the task file as status updates or
progress notes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.Syncer.SyncWithFileSystem(cmd.Context(), c.Paths.ProjectRoot)
			if msg := c.Store.Err(); msg != "" {
				return fmt.Errorf("%s", msg)
			}

			reader, err := c.CommitReader()
			if err != nil {
				return err
			}
			limit := opts.Limit
			if limit <= 0 {
				limit = c.AppConfig.Correlate.MaxCommits
			}
			commits, err := reader.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tasks := c.Store.AllTasks()
			engineOpts := correlate.Options{UseAI: opts.UseAI || c.AppConfig.Correlate.UseAI}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COMMIT\tTASK\tCONF\tPROGRESS\tACTION\tREASONING")
			applied := 0
			for _, commit := range commits {
				if opts.Commit != "" && commit.Hash != opts.Commit {
					continue
				}
				res := c.Engine.Analyze(commit, tasks, engineOpts)
				if opts.JSON {
					if err := printJSON(cmd, res); err != nil {
						return err
					}
					continue
				}

				taskID := res.TaskID
				if taskID == "" {
					taskID = "-"
				}
				fmt.Fprintf(w, "%.7s\t%s\t%.2f\t%s\t%s\t%s\n",
					commit.Hash, taskID, res.Confidence, res.Progress, res.Action, res.Reasoning)

				if opts.Apply && res.Confidence >= c.AppConfig.Correlate.MinConfidence {
					ok, err := c.Engine.UpdateTaskProgress(cmd.Context(), res, c.Sink)
					if err != nil {
						c.Logger.Warn("progress update failed", "commit", commit.Hash, "error", err)
						continue
					}
					if ok {
						applied++
					}
				}
			}
			if !opts.JSON {
				if err := w.Flush(); err != nil {
					return err
				}
			}
			if opts.Apply {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d progress update(s)\n", applied)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "How many commits to analyze (default from config)")
	cmd.Flags().BoolVar(&opts.UseAI, "ai", false, "Enable the semantic fallback for unmatched commits")
	cmd.Flags().BoolVar(&opts.Apply, "apply", false, "Write confident results back to the task file")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output results as JSON")
	cmd.Flags().StringVar(&opts.Commit, "commit", "", "Analyze a single commit hash")
	return cmd
}
