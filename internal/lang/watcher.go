package lang

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quilledit/quill/internal/event"
)

// DefaultDebounce coalesces the burst of fsnotify events an editor
// save produces into one reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher hot-reloads the language registry when definitions files
// change on disk.
type Watcher struct {
	dir      string
	registry *Registry
	bus      *event.Bus
	debounce time.Duration
	onError  func(error)

	fsw  *fsnotify.Watcher
	done chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides the reload debounce interval.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithErrorFunc sets the callback invoked when a reload partially or
// wholly fails. The registry still swaps to whatever loaded.
func WithErrorFunc(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewWatcher creates a watcher over the definitions directory dir.
// Call Start to begin watching.
func NewWatcher(dir string, reg *Registry, bus *event.Bus, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dir:      dir,
		registry: reg,
		bus:      bus,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start performs an initial load, then watches for changes until Close.
func (w *Watcher) Start() error {
	w.Reload()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return err
	}
	w.fsw = fsw

	go w.loop()
	return nil
}

// Close stops the watcher. It is safe to call before Start.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

// Reload re-reads the directory, swaps the registry, and publishes
// Reloaded. Exposed so callers can force a reload without a file event.
func (w *Watcher) Reload() {
	if err := LoadDirInto(w.dir, w.registry); err != nil && w.onError != nil {
		w.onError(err)
	}
	if w.bus != nil {
		_ = w.bus.Publish(Reloaded{Count: w.registry.Count()})
	}
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if isDefinitionFile(ev.Name) && ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.scheduleReload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// scheduleReload arms (or re-arms) the debounce timer.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
			return
		default:
		}
		w.Reload()
	})
}

func isDefinitionFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml", ".lua":
		return true
	}
	return false
}
