package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app"
	"github.com/taskdeck/taskdeck/internal/infra/snapshot"
)

// newSyncCommand creates the sync command.
func newSyncCommand(c *app.Container) *cobra.Command {
	var opts struct {
		FromCache  bool
		SaveCache  bool
		Invalidate bool
	}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: groupSync,
		Short:   "Refresh the board from the task file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Invalidate {
				c.Store.InvalidateCache()
			}

			if opts.FromCache {
				if err := restoreFromCache(c); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %d tasks from cache\n", len(c.Store.AllTasks()))
				return nil
			}

			c.Syncer.SyncWithFileSystem(cmd.Context(), c.Paths.ProjectRoot)
			if msg := c.Store.Err(); msg != "" {
				return fmt.Errorf("%s", msg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d tasks\n", len(c.Store.AllTasks()))

			if opts.SaveCache {
				if err := saveToCache(c); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.FromCache, "from-cache", false, "Rehydrate from the snapshot cache instead of the task file")
	cmd.Flags().BoolVar(&opts.SaveCache, "save-cache", false, "Save a snapshot to the cache after syncing")
	cmd.Flags().BoolVar(&opts.Invalidate, "invalidate", false, "Reset the last-sync marker before syncing")
	return cmd
}

// newWatchCommand creates the watch command.
func newWatchCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch",
		GroupID: groupSync,
		Short:   "Keep the board synchronized until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			c.Syncer.SyncWithFileSystem(ctx, c.Paths.ProjectRoot)
			if msg := c.Store.Err(); msg != "" {
				return fmt.Errorf("%s", msg)
			}

			c.Syncer.StartRealtimeSync(ctx, c.Paths.ProjectRoot)
			if msg := c.Store.Err(); msg != "" {
				return fmt.Errorf("%s", msg)
			}
			defer c.Syncer.StopRealtimeSync()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", c.Paths.TasksPath)
			<-ctx.Done()
			return nil
		},
	}
	return cmd
}

// restoreFromCache rehydrates the store from the persisted snapshot.
func restoreFromCache(c *app.Container) error {
	cache, err := c.SnapshotCache()
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	blob, err := cache.Load(c.Store.ProjectID())
	if err != nil {
		return err
	}
	snap, err := snapshot.Decode(blob)
	if err != nil {
		return err
	}
	c.Store.Restore(snap)
	return nil
}

// saveToCache persists the current store contents.
func saveToCache(c *app.Container) error {
	cache, err := c.SnapshotCache()
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	blob, err := snapshot.Encode(c.Store.Export())
	if err != nil {
		return err
	}
	return cache.Save(c.Store.ProjectID(), blob)
}
