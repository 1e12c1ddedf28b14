// Package watch reruns full builds when the source tree changes. There is no
// incremental logic: every burst of filesystem events triggers one complete
// build after a quiet window.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docweave/internal/build"
	"git.home.luguber.info/inful/docweave/internal/config"
	"git.home.luguber.info/inful/docweave/internal/lang"
	"git.home.luguber.info/inful/docweave/internal/logfields"
)

// defaultQuietWindow is how long the source tree must stay quiet before a
// pending rebuild fires.
const defaultQuietWindow = 300 * time.Millisecond

// Watcher owns the rebuild loop.
type Watcher struct {
	cfg   *config.Config
	quiet time.Duration

	// rebuild is swappable for tests.
	rebuild func(ctx context.Context) error
}

// New creates a watcher that rebuilds cfg with rt on every change burst.
func New(cfg *config.Config, rt lang.Runtime) *Watcher {
	svc := build.NewService()
	return &Watcher{
		cfg:   cfg,
		quiet: defaultQuietWindow,
		rebuild: func(ctx context.Context) error {
			_, err := svc.Run(ctx, build.Request{Config: cfg, Runtime: rt})
			return err
		},
	}
}

// Run performs an initial build, then rebuilds on change until ctx is done.
// Build failures are logged and the loop continues; only watcher
// malfunctions end the loop with an error.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.rebuild(ctx); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addRecursive(fw, w.cfg.Source); err != nil {
		return err
	}

	// The timer starts drained; each event (re)arms the quiet window.
	timer := time.NewTimer(w.quiet)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addRecursive(fw, ev.Name)
				}
			}
			slog.Debug("Source change detected", logfields.Path(ev.Name))
			timer.Reset(w.quiet)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-timer.C:
			if err := w.rebuild(ctx); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			} else {
				slog.Info("Rebuilt", logfields.Path(w.cfg.Source))
			}
		}
	}
}

// addRecursive watches a directory and all its subdirectories.
func addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
}
