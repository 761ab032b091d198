package hub

import (
	"context"
	"testing"
	"time"

	"github.com/atikulmunna/logbrowser/internal/model"
)

func TestHubBroadcast(t *testing.T) {
	h := New()

	sub1 := h.Subscribe()
	sub2 := h.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Start(ctx)

	h.Publish(model.Event{Kind: model.EventFileFound, File: "app.log"})

	for i, sub := range []<-chan model.Event{sub1, sub2} {
		select {
		case ev := <-sub:
			if ev.Kind != model.EventFileFound || ev.File != "app.log" {
				t.Errorf("sub%d: expected file_found app.log, got %+v", i+1, ev)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("sub%d: timed out", i+1)
		}
	}
}

func TestHubSlowConsumer(t *testing.T) {
	h := New()

	// Subscribe but never read.
	_ = h.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Start(ctx)

	for i := 0; i < subscriberBuffer+100; i++ {
		h.Publish(model.Event{Kind: model.EventProbe})
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.Dropped() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if h.Dropped() == 0 {
		t.Error("expected dropped events for slow consumer, got 0")
	}
}

func TestHubPublishWithoutStartDoesNotBlock(t *testing.T) {
	h := New()
	done := make(chan struct{})
	go func() {
		for i := 0; i < inputBuffer+10; i++ {
			h.Publish(model.Event{Kind: model.EventProbe})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected Publish to return when the input is full")
	}
	if h.Dropped() != 10 {
		t.Errorf("expected 10 dropped, got %d", h.Dropped())
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h := New()
	sub := h.Subscribe()
	if h.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", h.Subscribers())
	}

	h.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Error("expected channel closed after Unsubscribe")
	}
	if h.Subscribers() != 0 {
		t.Errorf("expected 0 subscribers, got %d", h.Subscribers())
	}
}

func TestHubStopClosesSubscribers(t *testing.T) {
	h := New()
	sub := h.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Start(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	if _, ok := <-sub; ok {
		t.Error("expected subscriber closed after stop")
	}
	if _, ok := <-h.Subscribe(); ok {
		t.Error("expected late subscription to be closed")
	}
}
