package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/atikulmunna/logbrowser/internal/model"
)

// waitFor polls until the aggregator has seen n events.
func waitFor(t *testing.T, agg *Aggregator, n int64) Stats {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		s := agg.Snapshot()
		if s.TotalEvents >= n || time.Now().After(deadline) {
			return s
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestEPSCalculation(t *testing.T) {
	ch := make(chan model.Event, 100)
	agg := New(ch, func() int64 { return 0 }, func() int { return 2 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Start(ctx)

	for i := 0; i < 10; i++ {
		ch <- model.Event{Kind: model.EventProbe}
	}

	stats := waitFor(t, agg, 10)
	if stats.TotalEvents != 10 {
		t.Errorf("expected 10 total events, got %d", stats.TotalEvents)
	}
	if stats.EPS <= 0 {
		t.Errorf("expected positive EPS, got %f", stats.EPS)
	}
	if stats.Apps != 2 {
		t.Errorf("expected 2 apps, got %d", stats.Apps)
	}
}

func TestSearchCounters(t *testing.T) {
	ch := make(chan model.Event, 100)
	agg := New(ch, func() int64 { return 3 }, func() int { return 1 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Start(ctx)

	ch <- model.Event{Kind: model.EventSearchStarted, SearchID: "s-1"}
	ch <- model.Event{Kind: model.EventProbe}
	ch <- model.Event{Kind: model.EventProbe}
	ch <- model.Event{Kind: model.EventFileMissing}
	ch <- model.Event{Kind: model.EventFileFound}
	ch <- model.Event{Kind: model.EventFileLoaded}
	ch <- model.Event{Kind: model.EventMatch, Count: 2, Detail: "ERROR"}
	ch <- model.Event{Kind: model.EventMatch, Count: 1, Detail: "WARN"}
	ch <- model.Event{Kind: model.EventDownloaded}
	ch <- model.Event{Kind: model.EventError}

	stats := waitFor(t, agg, 10)
	if stats.Searches != 1 || stats.LastSearch != "s-1" {
		t.Errorf("expected 1 search s-1, got %d %q", stats.Searches, stats.LastSearch)
	}
	if stats.Probes != 2 {
		t.Errorf("expected 2 probes, got %d", stats.Probes)
	}
	if stats.FilesFound != 1 || stats.FilesMissing != 1 || stats.FilesLoaded != 1 {
		t.Errorf("expected 1/1/1 found/missing/loaded, got %d/%d/%d", stats.FilesFound, stats.FilesMissing, stats.FilesLoaded)
	}
	if stats.Matches != 3 {
		t.Errorf("expected 3 matches, got %d", stats.Matches)
	}
	if stats.LevelCounts["ERROR"] != 2 || stats.LevelCounts["WARN"] != 1 {
		t.Errorf("unexpected level counts %v", stats.LevelCounts)
	}
	if stats.Downloads != 1 || stats.Errors != 1 {
		t.Errorf("expected 1 download and 1 error, got %d %d", stats.Downloads, stats.Errors)
	}
	if stats.DroppedEvents != 3 {
		t.Errorf("expected 3 dropped, got %d", stats.DroppedEvents)
	}
}

func TestStartStopsOnClosedSubscription(t *testing.T) {
	ch := make(chan model.Event)
	agg := New(ch, func() int64 { return 0 }, func() int { return 0 })

	done := make(chan struct{})
	go func() {
		agg.Start(context.Background())
		close(done)
	}()
	close(ch)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Start to return when the channel closes")
	}
}
