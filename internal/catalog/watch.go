package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
)

// defaultDebounce coalesces the burst of events a checkout or copy produces.
const defaultDebounce = 200 * time.Millisecond

// Watcher reports changes to the set of files in a scheme directory.
type Watcher struct {
	dir      string
	fs       *fsnotify.Watcher
	log      logr.Logger
	debounce time.Duration
}

// NewWatcher starts watching dir.
func NewWatcher(dir string, log logr.Logger) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	log.V(1).Info("watching scheme directory", "directory", dir)

	return &Watcher{dir: dir, fs: fsw, log: log, debounce: defaultDebounce}, nil
}

// Run calls onChange once per burst of create/remove/rename events until ctx
// is done or the watcher is closed. Writes to existing files are ignored.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			w.log.V(1).Info("scheme directory changed", "file", event.Name, "op", event.Op.String())
			fire = time.After(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.V(1).Info("watcher error", "directory", w.dir, "error", err.Error())
		case <-fire:
			fire = nil
			onChange()
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
