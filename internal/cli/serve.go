package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ohare93/pacer/internal/config"
	"github.com/ohare93/pacer/internal/server"
	"github.com/ohare93/pacer/internal/tui"
	"github.com/ohare93/pacer/internal/watcher"
)

func newServeCmd(e *env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API (with /metrics and /health)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := e.open(ctx)
			if err != nil {
				return err
			}
			cfg := e.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Serving pacer API on http://%s (Ctrl+C to stop)\n", cfg.Addr)
			return server.New(a, cfg, e.logger, e.metrics).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8765)")
	return cmd
}

// debounce coalesces the burst of events a single save produces
const debounce = 150 * time.Millisecond

func newWatchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reprint the dashboard whenever the data changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := e.open(ctx)
			if err != nil {
				return err
			}
			w, err := newWatcher(e.cfg)
			if err != nil {
				return err
			}
			defer w.Close()
			w.Start()

			out := cmd.OutOrStdout()
			refresh := func() {
				stats, err := a.Dashboard(ctx)
				if err != nil {
					e.logger.Warn("failed to compute dashboard", zap.Error(err))
					return
				}
				fmt.Fprintf(out, "\n%s\n", StyleDim.Render(e.now().Format("15:04:05")))
				printDashboard(out, stats)
			}
			refresh()

			var pending <-chan time.Time
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev := <-w.Events:
					e.logger.Debug("data changed", zap.Stringer("document", ev.Type), zap.String("path", ev.Path))
					pending = time.After(debounce)
				case err := <-w.Errors:
					e.logger.Warn("watcher error", zap.Error(err))
				case <-pending:
					pending = nil
					refresh()
				}
			}
		},
	}
}

func newTUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and tick off projects in an interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			w, err := newWatcher(e.cfg)
			if err != nil {
				// The UI still works, it just won't see outside edits.
				e.logger.Warn("file watching disabled", zap.Error(err))
				w = nil
			} else {
				defer w.Close()
			}
			return tui.Run(a, w)
		},
	}
}

// newWatcher watches the files of the configured backend
func newWatcher(cfg *config.Config) (*watcher.Watcher, error) {
	w, err := watcher.New()
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Backend == "sqlite" {
		err = w.WatchDatabase(cfg.Storage.SQLiteFile)
	} else {
		err = w.WatchDir(cfg.DataDir)
	}
	if err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}
