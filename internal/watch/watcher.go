// Package watch drives detection from file-system events: it watches a
// project tree and reports changed files after a debounce window.
package watch

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a directory tree for file writes.
type Watcher struct {
	root      string
	ignore    map[string]bool
	debouncer *Debouncer
	fsw       *fsnotify.Watcher
	logger    *slog.Logger
	onChange  func(path string)
	done      chan struct{}
}

// New creates a watcher over root. ignore lists directory names (not
// paths) to skip, e.g. ".git". onChange receives absolute file paths after
// the debounce delay.
func New(root string, ignore []string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}

	w := &Watcher{
		root:      root,
		ignore:    make(map[string]bool, len(ignore)),
		debouncer: NewDebouncer(debounce),
		fsw:       fsw,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		onChange:  onChange,
		done:      make(chan struct{}),
	}
	for _, name := range ignore {
		w.ignore[name] = true
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// SetLogger routes watcher diagnostics to the given logger.
func (w *Watcher) SetLogger(logger *slog.Logger) {
	if logger != nil {
		w.logger = logger
	}
}

// Run processes events until Close is called.
func (w *Watcher) Run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher and cancels pending debounces.
func (w *Watcher) Close() error {
	close(w.done)
	w.debouncer.Cancel()
	return w.fsw.Close()
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		// New directories join the watch set; new files fall through to
		// the change path.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.ignore[filepath.Base(event.Name)] {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Warn("watch new dir", "path", event.Name, "err", err)
				}
			}
			return
		}
	}

	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return
	}
	if w.ignore[filepath.Base(filepath.Dir(event.Name))] {
		return
	}

	path := event.Name
	w.debouncer.Trigger(path, func() {
		w.logger.Debug("file changed", "path", path)
		w.onChange(path)
	})
}

// addTree registers root and every non-ignored subdirectory.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignore[d.Name()] && path != root {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
