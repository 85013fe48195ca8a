// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	deckDir       string // Path to the project's .taskdeck directory
	globalConfDir string // Path to the global config directory
}

// NewLoader creates a new Loader for a project.
func NewLoader(deckDir string) *Loader {
	return &Loader{
		deckDir:       deckDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a Loader with a custom global config
// directory. Useful for testing.
func NewLoaderWithGlobalDir(deckDir, globalConfDir string) *Loader {
	return &Loader{
		deckDir:       deckDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// fileConfig mirrors the TOML file structure. Pointer fields distinguish
// "not set" from zero values during merging.
type fileConfig struct {
	Log struct {
		Level *string `toml:"level"`
	} `toml:"log"`
	Sync struct {
		TasksFile      *string `toml:"tasks_file"`
		PollIntervalMS *int    `toml:"poll_interval_ms"`
	} `toml:"sync"`
	Correlate struct {
		MaxCommits    *int     `toml:"max_commits"`
		MinConfidence *float64 `toml:"min_confidence"`
		UseAI         *bool    `toml:"use_ai"`
	} `toml:"correlate"`
}

// Load returns the merged configuration. Project config takes precedence
// over global config; both fall back to built-in defaults.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	if l.globalConfDir != "" {
		global, err := loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if global != nil {
			apply(cfg, global)
		}
	}

	project, err := loadFile(filepath.Join(l.deckDir, domain.ConfigFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if project != nil {
		apply(cfg, project)
	}

	return cfg, nil
}

// loadFile reads and parses one TOML config file.
func loadFile(path string) (*fileConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc fileConfig
	if err := toml.Unmarshal(content, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// apply overlays set fields from fc onto cfg.
func apply(cfg *domain.Config, fc *fileConfig) {
	if fc.Log.Level != nil {
		cfg.Log.Level = *fc.Log.Level
	}
	if fc.Sync.TasksFile != nil {
		cfg.Sync.TasksFile = *fc.Sync.TasksFile
	}
	if fc.Sync.PollIntervalMS != nil {
		cfg.Sync.PollIntervalMS = *fc.Sync.PollIntervalMS
	}
	if fc.Correlate.MaxCommits != nil {
		cfg.Correlate.MaxCommits = *fc.Correlate.MaxCommits
	}
	if fc.Correlate.MinConfidence != nil {
		cfg.Correlate.MinConfidence = *fc.Correlate.MinConfidence
	}
	if fc.Correlate.UseAI != nil {
		cfg.Correlate.UseAI = *fc.Correlate.UseAI
	}
}
