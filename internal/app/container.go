// Package app provides the dependency injection container for the application.
package app

import (
	"io"
	"log/slog"
	"time"

	"github.com/taskdeck/taskdeck/internal/correlate"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/infra/config"
	"github.com/taskdeck/taskdeck/internal/infra/gitlog"
	"github.com/taskdeck/taskdeck/internal/infra/logging"
	"github.com/taskdeck/taskdeck/internal/infra/snapshot"
	"github.com/taskdeck/taskdeck/internal/infra/taskfile"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/syncer"
)

// Paths holds the filesystem locations the application works with.
type Paths struct {
	ProjectRoot string // Root directory of the mirrored project
	DeckDir     string // Path to .taskdeck directory
	TasksPath   string // Path to the external task file
	CachePath   string // Path to the snapshot cache database
	LogPath     string // Path to the log file
}

// newPaths derives the standard layout from a project root.
func newPaths(projectRoot, tasksFile string) Paths {
	return Paths{
		ProjectRoot: projectRoot,
		DeckDir:     domain.DeckDir(projectRoot),
		TasksPath:   domain.TasksPath(projectRoot, tasksFile),
		CachePath:   domain.CachePath(projectRoot),
		LogPath:     domain.LogPath(projectRoot),
	}
}

// Container wires the store, sync controller, correlation engine, and infra
// adapters together. One container serves one opened project; the store it
// owns is passed by reference to whichever component needs it.
type Container struct {
	Store     *store.Store
	Source    *taskfile.Source
	Syncer    *syncer.Controller
	Engine    *correlate.Engine
	Sink      domain.ProgressSink
	Clock     domain.Clock
	AppConfig *domain.Config
	Logger    *slog.Logger
	Paths     Paths

	logCloser io.Closer
}

// New creates a container for the project rooted at projectRoot.
func New(projectRoot string) (*Container, error) {
	loader := config.NewLoader(domain.DeckDir(projectRoot))
	appConfig, err := loader.Load()
	if err != nil {
		return nil, err
	}

	paths := newPaths(projectRoot, appConfig.Sync.TasksFile)
	level := logging.ParseLevel(appConfig.Log.Level)

	logger, closer, err := logging.NewFileLogger(paths.LogPath, level)
	if err != nil {
		// Fall back to stderr when the project directory is read-only.
		logger = logging.NewStderrLogger(level)
		closer = nil
	}

	clock := domain.RealClock{}
	st := store.New(projectRoot, clock)
	source := taskfile.New(appConfig.Sync.TasksFile, time.Duration(appConfig.Sync.PollIntervalMS)*time.Millisecond)

	return &Container{
		Store:     st,
		Source:    source,
		Syncer:    syncer.New(st, source, source, logger),
		Engine:    correlate.NewEngine(clock, nil),
		Sink:      taskfile.NewSink(source, projectRoot),
		Clock:     clock,
		AppConfig: appConfig,
		Logger:    logger,
		Paths:     paths,
		logCloser: closer,
	}, nil
}

// NewWithDeps creates a container with custom dependencies for testing.
func NewWithDeps(paths Paths, st *store.Store, sc *syncer.Controller, engine *correlate.Engine, sink domain.ProgressSink, clock domain.Clock, logger *slog.Logger) *Container {
	return &Container{
		Store:     st,
		Syncer:    sc,
		Engine:    engine,
		Sink:      sink,
		Clock:     clock,
		AppConfig: domain.NewDefaultConfig(),
		Logger:    logger,
		Paths:     paths,
	}
}

// CommitReader opens the project's git history on demand. Commands that do
// not correlate commits never pay for repository detection.
func (c *Container) CommitReader() (domain.CommitReader, error) {
	return gitlog.Open(c.Paths.ProjectRoot)
}

// SnapshotCache opens the project's snapshot cache on demand.
func (c *Container) SnapshotCache() (domain.SnapshotCache, error) {
	return snapshot.Open(c.Paths.CachePath)
}

// Close releases container-owned resources.
func (c *Container) Close() error {
	if c.logCloser != nil {
		return c.logCloser.Close()
	}
	return nil
}
