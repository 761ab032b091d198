// Package logfile holds log files proven to exist on a source, with their
// content read lazily through the strategy that found them.
package logfile

import (
	"context"
	"strings"
	"sync"

	"github.com/atikulmunna/logbrowser/internal/model"
	"github.com/atikulmunna/logbrowser/internal/transport"
)

// LogFile is an existing log file bound to the strategy that found it.
// Its content is read at most once and cached for the life of the value.
type LogFile struct {
	name     string
	alias    string
	strategy transport.Strategy

	mu     sync.Mutex
	lines  []model.Line
	loaded bool
}

// New wraps a strategy whose Exists probe succeeded.
func New(name, alias string, strategy transport.Strategy) *LogFile {
	return &LogFile{name: name, alias: alias, strategy: strategy}
}

// Name is the last path segment of the resolved path.
func (f *LogFile) Name() string { return f.name }

// Alias is the host alias of the owning source, possibly empty.
func (f *LogFile) Alias() string { return f.alias }

// DisplayName is the name qualified with the host alias.
func (f *LogFile) DisplayName() string {
	if f.alias == "" {
		return f.name
	}
	return f.name + "_" + f.alias
}

// Identity is the strategy identity; content never takes part in it.
func (f *LogFile) Identity() string { return f.strategy.Identity() }

// Path is the resolved path on the source.
func (f *LogFile) Path() string { return f.strategy.Path() }

// Strategy returns the transport bound to this file.
func (f *LogFile) Strategy() transport.Strategy { return f.strategy }

// Equal reports whether both files resolve to the same path on the same
// source.
func (f *LogFile) Equal(other *LogFile) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.Identity() == other.Identity()
}

func (f *LogFile) String() string { return f.Identity() }

// Loaded reports whether the content has been read.
func (f *LogFile) Loaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded
}

// Lines returns the whole content, reading it on first use.
func (f *LogFile) Lines(ctx context.Context) ([]model.Line, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.loaded {
		lines, err := f.strategy.ReadLines(ctx)
		if err != nil {
			return nil, err
		}
		f.lines = lines
		f.loaded = true
	}
	return f.lines, nil
}

// Search returns the lines containing text, in index order. The match is
// literal and case-sensitive; rejecting blank text is the caller's job.
func (f *LogFile) Search(ctx context.Context, text string) ([]model.Line, error) {
	lines, err := f.Lines(ctx)
	if err != nil {
		return nil, err
	}

	var found []model.Line
	for _, l := range lines {
		if strings.Contains(l.Text, text) {
			found = append(found, l)
		}
	}
	return found, nil
}

// CopyTo streams the file into a new local file at dest.
func (f *LogFile) CopyTo(ctx context.Context, dest string) error {
	return f.strategy.CopyTo(ctx, dest)
}
