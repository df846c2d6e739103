// Package cli implements the pacer command line.
package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ohare93/pacer/internal/app"
	"github.com/ohare93/pacer/internal/config"
	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/logging"
	"github.com/ohare93/pacer/internal/telemetry"
)

// GlobalOptions holds the persistent flags shared by every command
type GlobalOptions struct {
	ConfigFile string // Explicit config file; empty searches the defaults
	DataDir    string // Override for the data directory
	Backend    string // Override for storage.backend
	LogLevel   string // Override for log.level
}

// env is the per-invocation state built lazily by commands that need it
type env struct {
	opts    GlobalOptions
	now     func() time.Time
	confirm func(prompt string) (bool, error)

	cfg     *config.Config
	logger  *zap.Logger
	metrics *telemetry.Metrics
	app     *app.App
}

// Execute runs the root command
func Execute() error {
	e := &env{now: time.Now, confirm: ConfirmSingleKey}
	err := newRootCmd(e).Execute()
	if cerr := e.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "pacer",
		Short: "Plan time-boxed goals and keep their checklists moving",
		Long: `Pacer turns a one-line goal into a dated project with a short checklist,
then keeps score: what is active, what slipped, and how your rhythm looks.

Getting started:
- Plan something: pacer add "11/3-11/8 Trip to Kyoto #travel"
- See what is on: pacer list
- Tick a step:    pacer check <id> 2
- How it's going: pacer stats`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&e.opts.ConfigFile, "config", "", "Config file (default searches ~/.config/pacer/config.yaml)")
	root.PersistentFlags().StringVar(&e.opts.DataDir, "data-dir", "", "Override the data directory")
	root.PersistentFlags().StringVar(&e.opts.Backend, "backend", "", "Override the storage backend (json or sqlite)")
	root.PersistentFlags().StringVar(&e.opts.LogLevel, "log-level", "", "Override the log level")

	root.AddCommand(
		newAddCmd(e),
		newListCmd(e),
		newShowCmd(e),
		newCheckCmd(e),
		newTaskCmd(e),
		newDatesCmd(e),
		newGoalCmd(e),
		newRewardCmd(e),
		newDeleteCmd(e),
		newRestoreCmd(e),
		newBinCmd(e),
		newTagsCmd(e),
		newFocusCmd(e),
		newStatsCmd(e),
		newInsightsCmd(e),
		newExportCmd(e),
		newParseCmd(e),
		newServeCmd(e),
		newWatchCmd(e),
		newTUICmd(e),
	)
	return root
}

// config loads configuration once, applying flag overrides
func (e *env) config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}

	cfg, err := config.Load(config.Options{File: e.opts.ConfigFile, DotEnv: true})
	if err != nil {
		return nil, err
	}
	if e.opts.DataDir != "" {
		// A database kept in the old data dir follows it.
		if filepath.Dir(cfg.Storage.SQLiteFile) == filepath.Clean(cfg.DataDir) {
			cfg.Storage.SQLiteFile = filepath.Join(e.opts.DataDir, filepath.Base(cfg.Storage.SQLiteFile))
		}
		cfg.DataDir = e.opts.DataDir
	}
	if e.opts.Backend != "" {
		cfg.Storage.Backend = e.opts.Backend
	}
	if e.opts.LogLevel != "" {
		cfg.Log.Level = e.opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, nil)
	if err != nil {
		return nil, err
	}

	e.cfg = cfg
	e.logger = logger
	e.metrics = telemetry.New()
	return cfg, nil
}

// open returns the application, creating it on first use
func (e *env) open(ctx context.Context) (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	a, err := app.Open(ctx, cfg, e.logger, e.metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to open data store: %w", err)
	}
	e.app = a.WithClock(e.now)
	return e.app, nil
}

func (e *env) close() error {
	var err error
	if e.app != nil {
		err = e.app.Close()
		e.app = nil
	}
	if e.logger != nil {
		_ = logging.Sync(e.logger)
	}
	return err
}

func (e *env) today() time.Time {
	return dates.Day(e.now())
}
