// Package hub fans search progress events out to every subscriber.
package hub

import (
	"context"
	"log"
	"sync"

	"github.com/atikulmunna/logbrowser/internal/model"
)

const (
	inputBuffer      = 4096
	subscriberBuffer = 1024
)

// Hub receives events from publishers and broadcasts them to all
// subscribers. Publishing never blocks: events are dropped when the input
// or a subscriber buffer is full.
type Hub struct {
	input       chan model.Event
	mu          sync.RWMutex
	subscribers map[chan model.Event]struct{}
	closed      bool
	dropped     int64
}

// New creates a Hub. Call Start to begin broadcasting.
func New() *Hub {
	return &Hub{
		input:       make(chan model.Event, inputBuffer),
		subscribers: make(map[chan model.Event]struct{}),
	}
}

// Publish queues ev for broadcasting. It implements model.Publisher.
func (h *Hub) Publish(ev model.Event) {
	select {
	case h.input <- ev:
	default:
		h.drop("input full")
	}
}

// Subscribe returns a buffered channel that will receive every event.
// The channel is closed when the hub stops or on Unsubscribe.
func (h *Hub) Subscribe() <-chan model.Event {
	ch := make(chan model.Event, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe stops delivery to ch and closes it.
func (h *Hub) Unsubscribe(sub <-chan model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		if ch == sub {
			delete(h.subscribers, ch)
			close(ch)
			return
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped returns the total number of events dropped.
func (h *Hub) Dropped() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// Start broadcasts queued events until the context is cancelled.
func (h *Hub) Start(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-h.input:
			h.broadcast(ev)
		}
	}
}

// broadcast sends ev to all subscribers, skipping those that are full.
func (h *Hub) broadcast(ev model.Event) {
	h.mu.RLock()
	var full int
	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			full++
		}
	}
	h.mu.RUnlock()

	for i := 0; i < full; i++ {
		h.drop("slow consumer")
	}
}

func (h *Hub) drop(reason string) {
	h.mu.Lock()
	h.dropped++
	n := h.dropped
	h.mu.Unlock()
	if n == 1 || n%1000 == 0 {
		log.Printf("hub: dropped event, %s (total dropped: %d)", reason, n)
	}
}

// closeAll closes all subscriber channels.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = make(map[chan model.Event]struct{})
	h.closed = true
}
