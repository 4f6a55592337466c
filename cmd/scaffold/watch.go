package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/scaffold/compiler/gen"
)

func (a *app) watchCmd() *cobra.Command {
	var (
		tables   []string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate when the config, snapshot or sqlite database changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			cmd.SetContext(ctx)
			cfg, err := a.config()
			if err != nil {
				return err
			}
			files, err := cfg.WatchFiles(a.conn)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("nothing to watch: connection has no local file")
			}
			w, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer w.Close()
			watched, err := addFiles(w, files)
			if err != nil {
				return err
			}
			log := a.logger(cmd)
			run := func() {
				// The config itself may have changed.
				cfg, err := a.config()
				if err == nil {
					var report *gen.Report
					report, err = a.generate(cmd, cfg, tables, cfg.GenDirs())
					printReport(cmd.OutOrStdout(), report)
				}
				if err != nil {
					log.Error("generate failed", "error", err)
				}
			}
			run()
			fmt.Fprintf(cmd.OutOrStdout(), "watching %d files\n", len(watched))
			return watch(ctx, log, w, watched, debounce, run)
		},
	}
	cmd.Flags().StringSliceVarP(&tables, "tables", "t", nil, "tables to generate (default all)")
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "delay before regenerating")
	return cmd
}

// addFiles watches the directories of the files, since editors and
// databases often replace files instead of writing them in place.
func addFiles(w *fsnotify.Watcher, files []string) (map[string]bool, error) {
	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return watched, nil
}

// watch calls run once the watched files stop changing for the debounce
// delay. It returns when ctx is done or the watcher is closed.
func watch(ctx context.Context, log *slog.Logger, w *fsnotify.Watcher, files map[string]bool, debounce time.Duration, run func()) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			run()
		}
	}
}
