package scheduler

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/qforge/qforge/internal/models"
)

// Watcher adapts fsnotify into the scheduler's event feed. fsnotify
// watches are per-directory, so the watcher registers the root and all
// of its subdirectories and picks up new directories as they appear.
type Watcher struct {
	scheduler *Scheduler
	layout    models.Layout
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewWatcher creates a watcher feeding the given scheduler.
func NewWatcher(s *Scheduler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		scheduler: s,
		layout:    s.layout,
		watcher:   fsw,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Start registers watches for the whole tree and begins the event loop.
// It is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watchTree(w.layout.Root); err != nil {
		return err
	}
	go w.run(ctx)
	return nil
}

// Stop halts the event loop, waits for it to drain, and waits for any
// in-flight regeneration pass to finish.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.scheduler.diag.Error("error closing watcher: %v", err)
	}
	w.scheduler.Wait()
}

// watchTree adds watches for dir and every eligible subdirectory.
func (w *Watcher) watchTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir && !models.IsNamespaceDir(entry.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.scheduler.diag.Warn("cannot watch %s: %v", path, err)
		}
		return nil
	})
}

// run is the watcher's event loop.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.scheduler.diag.Error("watch error: %v", err)
		}
	}
}

// handle translates one fsnotify event into a scheduler notification.
func (w *Watcher) handle(event fsnotify.Event) {
	switch {
	case event.Op&fsnotify.Create != 0:
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// New directories must be watched before their contents
			// start changing.
			if err := w.watchTree(event.Name); err != nil {
				w.scheduler.diag.Warn("cannot watch %s: %v", event.Name, err)
			}
			w.scheduler.Notify(EventAddDir, event.Name)
			return
		}
		w.scheduler.Notify(EventAdd, event.Name)

	case event.Op&fsnotify.Write != 0:
		w.scheduler.Notify(EventChange, event.Name)

	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		// The path is gone, so file and directory removals are
		// indistinguishable here. The pass recomputes from disk either
		// way.
		w.scheduler.Notify(EventRemove, event.Name)
	}
}
