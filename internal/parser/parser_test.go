package parser

import (
	"errors"
	"testing"

	"github.com/atikulmunna/logbrowser/internal/model"
)

func line(text string) model.Line { return model.Line{Index: 7, Text: text} }

func TestJSONParser(t *testing.T) {
	p := NewJSONParser()

	entry := p.Parse(line(`{"level":"error","message":"disk full","timestamp":"2026-02-17T12:00:00Z","svc":"api"}`), "/var/log/app.log")

	if entry.Level != LevelError {
		t.Errorf("expected level ERROR, got %s", entry.Level)
	}
	if entry.Message != "disk full" {
		t.Errorf("expected message 'disk full', got %q", entry.Message)
	}
	if entry.Source != "/var/log/app.log" {
		t.Errorf("expected source '/var/log/app.log', got %q", entry.Source)
	}
	if entry.Line != 7 {
		t.Errorf("expected line 7, got %d", entry.Line)
	}
	if entry.Timestamp.Year() != 2026 {
		t.Errorf("expected year 2026, got %d", entry.Timestamp.Year())
	}
	if entry.Fields["svc"] != "api" {
		t.Errorf("expected field svc=api, got %v", entry.Fields)
	}
}

func TestJSONParserAltFields(t *testing.T) {
	p := NewJSONParser()

	entry := p.Parse(line(`{"severity":"warning","msg":"high latency","ts":"2026-02-17T12:00:00Z"}`), "app.log")

	if entry.Level != LevelWarn {
		t.Errorf("expected level WARN, got %s", entry.Level)
	}
	if entry.Message != "high latency" {
		t.Errorf("expected message 'high latency', got %q", entry.Message)
	}
}

func TestJSONParserInvalidJSON(t *testing.T) {
	entry := NewJSONParser().Parse(line("not json at all"), "test.log")

	if entry.Message != "not json at all" {
		t.Errorf("expected raw line as message, got %q", entry.Message)
	}
	if entry.Level != LevelInfo {
		t.Errorf("expected default level INFO, got %s", entry.Level)
	}
	if !entry.Timestamp.IsZero() {
		t.Errorf("expected zero timestamp, got %v", entry.Timestamp)
	}
}

func TestCLFParser(t *testing.T) {
	p := NewCLFParser()

	entry := p.Parse(line(`127.0.0.1 - frank [17/Feb/2026:12:00:00 +0000] "GET /api/health HTTP/1.1" 500 1234`), "access.log")

	if entry.Level != LevelError {
		t.Errorf("expected level ERROR for status 500, got %s", entry.Level)
	}
	if entry.Message != "GET /api/health HTTP/1.1" {
		t.Errorf("expected request as message, got %q", entry.Message)
	}
	if entry.Fields["status"] != "500" {
		t.Errorf("expected status 500, got %q", entry.Fields["status"])
	}
	if entry.Fields["user"] != "frank" {
		t.Errorf("expected user frank, got %q", entry.Fields["user"])
	}
}

func TestCLFParserStatusLevels(t *testing.T) {
	p := NewCLFParser()
	tests := []struct {
		status string
		want   string
	}{
		{"200", LevelInfo},
		{"302", LevelInfo},
		{"404", LevelWarn},
		{"503", LevelError},
	}
	for _, tt := range tests {
		entry := p.Parse(line(`10.0.0.1 - - [17/Feb/2026:12:00:00 +0000] "GET / HTTP/1.1" `+tt.status+` 0`), "access.log")
		if entry.Level != tt.want {
			t.Errorf("status %s: expected %s, got %s", tt.status, tt.want, entry.Level)
		}
	}
}

func TestRegexParser(t *testing.T) {
	p, err := NewRegexParser(`^(?P<timestamp>\S+) (?P<level>\w+) \[(?P<thread>[^\]]+)\] (?P<message>.+)$`)
	if err != nil {
		t.Fatal(err)
	}

	entry := p.Parse(line("2026-02-17T12:00:00Z SEVERE [main] something failed badly"), "app.log")

	if entry.Level != LevelFatal {
		t.Errorf("expected level FATAL, got %s", entry.Level)
	}
	if entry.Message != "something failed badly" {
		t.Errorf("expected message 'something failed badly', got %q", entry.Message)
	}
	if entry.Fields["thread"] != "main" {
		t.Errorf("expected thread main, got %q", entry.Fields["thread"])
	}
}

func TestRegexParserFallback(t *testing.T) {
	rp, err := NewRegexParser(`^\[(?P<level>\w+)\] (?P<message>.+)$`)
	if err != nil {
		t.Fatal(err)
	}

	if entry := rp.Parse(line("ERROR no brackets"), "app.log"); entry.Level != LevelInfo {
		t.Errorf("expected unmatched line to stay INFO without fallback, got %s", entry.Level)
	}

	p := rp.WithFallback(NewAutoParser())
	if entry := p.Parse(line("[warning] disk at 91%"), "app.log"); entry.Level != LevelWarn {
		t.Errorf("expected pattern level WARN, got %s", entry.Level)
	}
	if entry := p.Parse(line("ERROR no brackets"), "app.log"); entry.Level != LevelError {
		t.Errorf("expected fallback level ERROR, got %s", entry.Level)
	}
}

func TestRegexParserInvalidPattern(t *testing.T) {
	if _, err := NewRegexParser(`[invalid`); err == nil {
		t.Error("expected error for invalid regex")
	}
}

func TestAutoParser(t *testing.T) {
	p := NewAutoParser()

	tests := []struct {
		name    string
		text    string
		level   string
		message string
	}{
		{"json", `{"level":"error","message":"oom killed"}`, LevelError, "oom killed"},
		{"clf", `10.0.0.1 - - [17/Feb/2026:12:00:00 +0000] "POST /data HTTP/1.1" 503 0`, LevelError, "POST /data HTTP/1.1"},
		{"keyword", "2026-02-17 WARN disk usage at 90%", LevelWarn, "2026-02-17 WARN disk usage at 90%"},
		{"exception", "java.lang.IllegalStateException: closed", LevelError, "java.lang.IllegalStateException: closed"},
		{"plain", "user logged in", LevelInfo, "user logged in"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := p.Parse(line(tt.text), "app.log")
			if entry.Level != tt.level {
				t.Errorf("expected %s, got %s", tt.level, entry.Level)
			}
			if entry.Message != tt.message {
				t.Errorf("expected %q, got %q", tt.message, entry.Message)
			}
		})
	}
}

func TestAutoParserLeadingTimestamp(t *testing.T) {
	entry := NewAutoParser().Parse(line("2026-02-17 12:30:00,123 ERROR pool exhausted"), "app.log")
	if entry.Timestamp.Hour() != 12 || entry.Timestamp.Minute() != 30 {
		t.Errorf("expected 12:30 timestamp, got %v", entry.Timestamp)
	}
	if entry.Level != LevelError {
		t.Errorf("expected ERROR, got %s", entry.Level)
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("warning"); err != nil || l != LevelWarn {
		t.Errorf("expected WARN, got %q (%v)", l, err)
	}
	if l, err := ParseLevel(" error "); err != nil || l != LevelError {
		t.Errorf("expected ERROR, got %q (%v)", l, err)
	}
	if _, err := ParseLevel("loud"); !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestAtLeast(t *testing.T) {
	if !AtLeast(LevelError, LevelWarn) {
		t.Error("expected ERROR to pass a WARN filter")
	}
	if AtLeast(LevelInfo, LevelWarn) {
		t.Error("expected INFO to fail a WARN filter")
	}
	if !AtLeast(LevelDebug, "") {
		t.Error("expected empty filter to accept everything")
	}
}
