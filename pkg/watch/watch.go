// Package watch reports changed program files under a directory tree.
package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Watcher batches file events and calls onChange with the sorted set of
// matching paths once no new event arrived for the debounce interval.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	match     glob.Glob
	onChange  func([]string)
	logger    *slog.Logger

	callbackMu sync.Mutex
	pendingMu  sync.Mutex
	pending    map[string]struct{}
	timer      *time.Timer
	started    bool
	done       chan struct{}
}

// New compiles pattern, which is matched against file base names.
func New(pattern string, debounce time.Duration, logger *slog.Logger, onChange func([]string)) (*Watcher, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		match:     g,
		onChange:  onChange,
		logger:    logger,
		pending:   make(map[string]struct{}),
		done:      make(chan struct{}),
	}, nil
}

// Matches reports whether path's base name fits the pattern.
func (w *Watcher) Matches(path string) bool {
	return w.match.Match(filepath.Base(path))
}

// Existing lists matching files already present under root.
func (w *Watcher) Existing(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && w.Matches(path) {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

// Watch subscribes to root and every directory below it, then starts
// delivering events in the background.
func (w *Watcher) Watch(root string) error {
	if err := w.addTree(root); err != nil {
		return err
	}
	w.started = true
	go w.run()
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsWatcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !w.Matches(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.schedule(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.onChange(paths)
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	err := w.fsWatcher.Close()
	if w.started {
		<-w.done
	}
	return err
}
