// Package syncer reconciles the in-memory store with the externally
// maintained task file, via one-shot refresh or a live watch.
package syncer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/store"
)

// Controller drives snapshot loads into the store. Failures surface through
// the store's error field, never as returned errors: both entry points are
// fire-and-forget from the UI's perspective.
type Controller struct {
	store   *store.Store
	source  domain.TaskSource
	watcher domain.TaskWatcher
	logger  *slog.Logger

	mu        sync.Mutex
	stopWatch func()
	watchPath string
}

// New creates a controller over the given store and collaborators.
// watcher may be nil when live sync is not needed.
func New(st *store.Store, source domain.TaskSource, watcher domain.TaskWatcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:   st,
		source:  source,
		watcher: watcher,
		logger:  logger,
	}
}

// SyncWithFileSystem refreshes the store from the project's task file.
// On failure the error is recorded on the store and previously loaded data
// is left untouched. The loading flag is cleared in every outcome.
func (c *Controller) SyncWithFileSystem(ctx context.Context, projectPath string) {
	c.store.SetLoading(true)
	c.store.SetError("")
	defer c.store.SetLoading(false)

	tasks, err := c.source.Load(ctx, projectPath)
	if err != nil {
		c.logger.Warn("task sync failed", "project", projectPath, "error", err)
		c.store.SetError("failed to sync tasks: " + err.Error())
		return
	}

	c.store.SetTasks(tasks)
	c.logger.Debug("task sync complete", "project", projectPath, "tasks", len(tasks))
}

// StartRealtimeSync begins watching the project path and applies each
// successful change notification through SetTasks. Re-invoking for the same
// path is a no-op; a watch on a different path replaces the previous one
// (one active watch at a time).
func (c *Controller) StartRealtimeSync(ctx context.Context, projectPath string) {
	if c.watcher == nil {
		c.store.SetError("realtime sync unavailable: no watcher configured")
		return
	}

	c.mu.Lock()
	if c.stopWatch != nil {
		if c.watchPath == projectPath {
			c.mu.Unlock()
			return
		}
		c.stopWatch()
		c.stopWatch = nil
	}
	c.mu.Unlock()

	stop, err := c.watcher.Watch(ctx, projectPath, func(tasks []domain.Task, err error) {
		if err != nil {
			c.logger.Warn("watch notification failed", "project", projectPath, "error", err)
			c.store.SetError("failed to sync tasks: " + err.Error())
			return
		}
		c.store.SetTasks(tasks)
	})
	if err != nil {
		c.logger.Warn("watch start failed", "project", projectPath, "error", err)
		c.store.SetError("failed to start realtime sync: " + err.Error())
		return
	}

	c.mu.Lock()
	c.stopWatch = stop
	c.watchPath = projectPath
	c.mu.Unlock()
}

// StopRealtimeSync stops the active watch. Safe to call when none is active.
// After it returns, no further change notifications reach the store.
func (c *Controller) StopRealtimeSync() {
	c.mu.Lock()
	stop := c.stopWatch
	c.stopWatch = nil
	c.watchPath = ""
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Watching returns the project path currently under a live watch, or "".
func (c *Controller) Watching() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watchPath
}
