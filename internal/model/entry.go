package model

import "time"

// LogEntry is a parsed view of a matched log line.
type LogEntry struct {
	Timestamp time.Time         `json:"timestamp,omitempty"`
	Source    string            `json:"source"` // resolved file identity
	Line      int               `json:"line"`   // zero-based line index
	Raw       string            `json:"raw"`    // original line text
	Level     string            `json:"level"`  // INFO, WARN, ERROR, FATAL, DEBUG
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
}
