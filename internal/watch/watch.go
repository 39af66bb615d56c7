// Package watch re-runs a callback when any of a set of files changes.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc handles one debounced change. path is the last file that changed.
type ChangeFunc func(ctx context.Context, path string) error

// Watcher watches individual files. The parent directories are watched so
// that rename-on-save editors are seen as well.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
}

// New creates a watcher for files. A zero debounce means DefaultDebounce.
func New(files []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.EIO, "failed to create file watcher", err)
	}
	w := &Watcher{fsw: fsw, files: make(map[string]bool), debounce: debounce}
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, errors.Wrap(errors.EIO, "failed to resolve "+f, err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, errors.WrapWithDetails(errors.EIO, "failed to watch directory", err, map[string]string{"path": dir})
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run delivers debounced changes to fn until ctx is done. Changes are
// handled one at a time; errors from fn are logged and watching continues.
// The watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, fn ChangeFunc) error {
	log := logger.Named("watch")
	defer w.fsw.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
		last  string
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			log.Debugw("change", "path", ev.Name, "op", ev.Op.String())
			last = ev.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warnw("watcher error", "error", err)

		case <-fire:
			fire = nil
			log.Infow("re-running", "path", last)
			if err := fn(ctx, last); err != nil {
				log.Warnw("run after change failed", "path", last, "error", err)
			}
		}
	}
}
