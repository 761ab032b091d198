package model

import "time"

// EventKind identifies a progress notification published during a search.
type EventKind string

const (
	EventSearchStarted  EventKind = "search_started"
	EventProbe          EventKind = "probe"
	EventFileFound      EventKind = "file_found"
	EventFileMissing    EventKind = "file_missing"
	EventFileLoaded     EventKind = "file_loaded"
	EventMatch          EventKind = "match"
	EventSearchFinished EventKind = "search_finished"
	EventDownloaded     EventKind = "downloaded"
	EventError          EventKind = "error"
)

// Event is a progress notification. Fields not relevant to a kind are empty.
type Event struct {
	Kind     EventKind `json:"kind"`
	SearchID string    `json:"search_id,omitempty"`
	App      string    `json:"app,omitempty"`
	Source   string    `json:"source,omitempty"` // strategy identity
	File     string    `json:"file,omitempty"`   // display name
	Count    int       `json:"count,omitempty"`
	Detail   string    `json:"detail,omitempty"`
	Time     time.Time `json:"time"`
}

// Publisher receives progress events. Implementations must not block.
type Publisher interface {
	Publish(ev Event)
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}
