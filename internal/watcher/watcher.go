// Package watcher reports changes to configuration files so a running
// server can reload its application catalog.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the bursts of events editors produce on save.
const DefaultDebounce = 250 * time.Millisecond

// Event represents a change to a watched file.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher monitors files through their parent directories, so files
// replaced by rename (as most editors save) keep being observed.
type Watcher struct {
	fsw      *fsnotify.Watcher
	Events   chan Event
	paths    map[string]bool
	debounce time.Duration
}

// New creates a Watcher for the given paths or glob patterns. Patterns are
// expanded at startup.
func New(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		Events:   make(chan Event, 16),
		paths:    make(map[string]bool),
		debounce: DefaultDebounce,
	}

	dirs := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := expandGlob(pattern)
		if err != nil {
			log.Printf("warning: failed to expand pattern %q: %v", pattern, err)
			continue
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				log.Printf("warning: cannot resolve %s: %v", m, err)
				continue
			}
			w.paths[abs] = true
			dirs[filepath.Dir(abs)] = true
		}
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			log.Printf("warning: cannot watch %s: %v", dir, err)
		}
	}

	return w, nil
}

// SetDebounce changes the quiet period before an event is reported.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Start forwards debounced changes of the watched files. It blocks until
// the context is cancelled and closes Events on return.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	var (
		pending *Event
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.paths[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending = &Event{Path: ev.Name, Op: ev.Op}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if pending == nil {
				continue
			}
			select {
			case w.Events <- *pending:
			case <-ctx.Done():
				return
			}
			pending = nil
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// Paths returns the files being watched.
func (w *Watcher) Paths() []string {
	out := make([]string, 0, len(w.paths))
	for p := range w.paths {
		out = append(out, p)
	}
	return out
}

// expandGlob resolves a glob pattern to matching file paths. A plain path
// matches itself.
func expandGlob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
}
