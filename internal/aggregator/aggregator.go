// Package aggregator turns the event stream into search statistics for the
// stats and health endpoints.
package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/atikulmunna/logbrowser/internal/model"
)

const window = 5 * time.Second

// Stats holds a point-in-time snapshot of aggregated metrics.
type Stats struct {
	Uptime        string           `json:"uptime"`
	TotalEvents   int64            `json:"total_events"`
	EPS           float64          `json:"eps"`
	Searches      int64            `json:"searches"`
	Probes        int64            `json:"probes"`
	FilesFound    int64            `json:"files_found"`
	FilesMissing  int64            `json:"files_missing"`
	FilesLoaded   int64            `json:"files_loaded"`
	Matches       int64            `json:"matches"`
	Downloads     int64            `json:"downloads"`
	Errors        int64            `json:"errors"`
	LevelCounts   map[string]int64 `json:"level_counts"`
	LastSearch    string           `json:"last_search,omitempty"`
	DroppedEvents int64            `json:"dropped_events"`
	Apps          int              `json:"apps"`
}

// Aggregator consumes hub events and keeps running totals.
type Aggregator struct {
	mu        sync.RWMutex
	startTime time.Time
	stats     Stats
	window    []time.Time
	dropped   func() int64
	appCount  func() int
	events    <-chan model.Event
}

// New creates an Aggregator reading from a hub subscription. droppedFn and
// appCountFn provide live values from the hub and the loaded config.
func New(events <-chan model.Event, droppedFn func() int64, appCountFn func() int) *Aggregator {
	return &Aggregator{
		startTime: time.Now(),
		stats:     Stats{LevelCounts: make(map[string]int64)},
		dropped:   droppedFn,
		appCount:  appCountFn,
		events:    events,
	}
}

// Snapshot returns the current metrics.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := a.stats
	s.LevelCounts = make(map[string]int64, len(a.stats.LevelCounts))
	for k, v := range a.stats.LevelCounts {
		s.LevelCounts[k] = v
	}

	cutoff := time.Now().Add(-window)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}
	s.EPS = float64(recent) / window.Seconds()
	s.Uptime = time.Since(a.startTime).Truncate(time.Second).String()
	s.DroppedEvents = a.dropped()
	s.Apps = a.appCount()
	return s
}

// Start consumes events until the context is cancelled or the
// subscription is closed.
func (a *Aggregator) Start(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-a.events:
			if !ok {
				return
			}
			a.record(ev)
		case <-ticker.C:
			a.prune()
		}
	}
}

func (a *Aggregator) record(ev model.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.TotalEvents++
	a.window = append(a.window, time.Now())

	switch ev.Kind {
	case model.EventSearchStarted:
		a.stats.Searches++
		a.stats.LastSearch = ev.SearchID
	case model.EventProbe:
		a.stats.Probes++
	case model.EventFileFound:
		a.stats.FilesFound++
	case model.EventFileMissing:
		a.stats.FilesMissing++
	case model.EventFileLoaded:
		a.stats.FilesLoaded++
	case model.EventMatch:
		a.stats.Matches += int64(ev.Count)
		if ev.Detail != "" {
			a.stats.LevelCounts[ev.Detail] += int64(ev.Count)
		}
	case model.EventDownloaded:
		a.stats.Downloads++
	case model.EventError:
		a.stats.Errors++
	}
}

// prune removes timestamps that left the EPS window.
func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := time.Now().Add(-window)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}
