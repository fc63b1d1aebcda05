// Package watch reports saved files under a project tree that match a set
// of doublestar globs.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ccasp/ccasp/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of writes an editor emits per save.
const DefaultDebounce = 150 * time.Millisecond

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// Event is a debounced save of one file.
type Event struct {
	Path    string
	Pattern string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before pending events are delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher watches root recursively.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	patterns []string
	debounce time.Duration
	logger   logging.Logger

	events  chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
	closeErr error
}

// New creates a watcher over every directory below root.
func New(root string, patterns []string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		root:     root,
		patterns: append([]string(nil), patterns...),
		debounce: DefaultDebounce,
		logger:   logging.GetGlobal(),
		events:   make(chan Event, 64),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "watch")

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("watch.add", "dir", path, "error", err)
		}
		return nil
	})
}

// Events delivers matched saves. It is closed after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins delivering events. Calling it twice is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	defer close(w.events)

	pending := make(map[string]Event)
	var order []string
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-w.stopCh:
			timer.Stop()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addTree(ev.Name)
					continue
				}
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			pattern, ok := w.match(ev.Name)
			if !ok {
				continue
			}
			if _, seen := pending[ev.Name]; !seen {
				order = append(order, ev.Name)
			}
			pending[ev.Name] = Event{Path: ev.Name, Pattern: pattern}
			timer.Reset(w.debounce)
		case <-timer.C:
			for _, path := range order {
				select {
				case w.events <- pending[path]:
				case <-w.stopCh:
					return
				}
			}
			pending = make(map[string]Event)
			order = order[:0]
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch.error", "error", err)
		}
	}
}

// match tries path relative to root first, then its absolute form.
func (w *Watcher) match(path string) (string, bool) {
	if pattern, ok := Match(w.patterns, w.rel(path)); ok {
		return pattern, true
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return Match(w.patterns, abs)
}

func (w *Watcher) rel(path string) string {
	if r, err := filepath.Rel(w.root, path); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return path
}

// Stop ends the watcher and closes the event channel. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		started := w.started
		w.started = true
		w.mu.Unlock()

		close(w.stopCh)
		if started {
			<-w.doneCh
		} else {
			close(w.events)
		}
		w.closeErr = w.fsw.Close()
	})
	return w.closeErr
}

// Match returns the first pattern matching path. Paths are compared in
// slash form without a leading root so absolute and relative paths
// behave alike.
func Match(patterns []string, path string) (string, bool) {
	p := filepath.ToSlash(path)
	if vol := filepath.VolumeName(path); vol != "" {
		p = strings.TrimPrefix(p, filepath.ToSlash(vol))
	}
	p = strings.TrimPrefix(p, "/")
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, p); err == nil && ok {
			return pattern, true
		}
	}
	return "", false
}
