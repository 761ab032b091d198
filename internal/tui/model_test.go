package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atikulmunna/logbrowser/internal/browser"
	"github.com/atikulmunna/logbrowser/internal/highlight"
	"github.com/atikulmunna/logbrowser/internal/logfile"
	"github.com/atikulmunna/logbrowser/internal/model"
)

type memStrategy struct {
	id    string
	lines []model.Line
}

func (s memStrategy) Exists(context.Context) (bool, error)            { return true, nil }
func (s memStrategy) ReadLines(context.Context) ([]model.Line, error) { return s.lines, nil }
func (s memStrategy) CopyTo(context.Context, string) error             { return nil }
func (s memStrategy) Identity() string                                 { return s.id }
func (s memStrategy) Path() string                                     { return s.id }

func newModel(t *testing.T) Model {
	t.Helper()
	content := []model.Line{
		{Index: 0, Text: "INFO start"},
		{Index: 1, Text: "ERROR disk full"},
		{Index: 2, Text: "INFO ok"},
		{Index: 3, Text: "ERROR disk gone"},
	}
	f := logfile.New("app.log", "", memStrategy{id: "/var/log/app.log", lines: content})
	entries := []browser.ResultEntry{
		browser.Header(f),
		browser.Match(f, content[1], "ERROR"),
		browser.Match(f, content[3], "ERROR"),
	}
	return New(context.Background(), "Payments 2024-01-01", entries)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func countCurrent(rows []string) int {
	n := 0
	for _, r := range rows {
		n += strings.Count(r, highlight.TerminalMarkers.Current)
	}
	return n
}

func TestHighlightAndNavigateResults(t *testing.T) {
	m := newModel(t)

	m = press(t, m, runes("/"))
	if !m.searching {
		t.Fatal("expected search input to open")
	}
	m = press(t, m, runes("disk"), enter)
	if m.searching {
		t.Error("expected search input closed after enter")
	}
	if m.results.cursor != 1 {
		t.Errorf("expected cursor on first occurrence (row 1), got %d", m.results.cursor)
	}
	if !strings.Contains(m.status, "2 occurrence(s)") {
		t.Errorf("unexpected status %q", m.status)
	}

	m = press(t, m, runes("n"))
	if m.results.cursor != 2 {
		t.Errorf("expected cursor on row 2 after next, got %d", m.results.cursor)
	}
	m = press(t, m, runes("n"))
	if m.results.cursor != 2 || m.status != "no further occurrence" {
		t.Errorf("expected to stay on the last occurrence, got %d %q", m.results.cursor, m.status)
	}
	m = press(t, m, runes("N"))
	if m.results.cursor != 1 {
		t.Errorf("expected cursor back on row 1, got %d", m.results.cursor)
	}
	if countCurrent(m.results.rows) != 1 {
		t.Errorf("expected one current occurrence, got %q", m.results.rows)
	}
}

func TestHighlightSkipsLineNumbers(t *testing.T) {
	m := newModel(t)
	m = press(t, m, runes("/"), runes("2"), enter)

	if m.status != `"2" not found` {
		t.Errorf("expected line numbers to be ignored, got status %q", m.status)
	}
	for _, r := range m.results.rows {
		if strings.Contains(r, highlight.TerminalMarkers.Found) || strings.Contains(r, highlight.TerminalMarkers.Current) {
			t.Errorf("expected no marks, got %q", r)
		}
	}
	if view := m.View(); !strings.Contains(view, "     2  ERROR disk full") {
		t.Errorf("expected line number in the rendered row, got %q", view)
	}
}

func TestOpenFileAndBack(t *testing.T) {
	m := newModel(t)
	m = press(t, m, runes("/"), runes("ERROR"), enter)

	next, cmd := m.Update(enter)
	m = next.(Model)
	if cmd == nil || !m.loading {
		t.Fatal("expected a load command for the selected file")
	}

	next, _ = m.Update(cmd())
	m = next.(Model)
	if m.detail == nil || len(m.detail.rows) != 4 {
		t.Fatalf("expected detail pane with 4 lines, got %+v", m.detail)
	}
	if m.detail.cursor != 1 {
		t.Errorf("expected highlight carried into the file, cursor 1, got %d", m.detail.cursor)
	}

	m = press(t, m, runes("n"))
	if m.detail.cursor != 3 {
		t.Errorf("expected next occurrence on line 3, got %d", m.detail.cursor)
	}

	m = press(t, m, esc)
	if m.detail != nil || m.file != nil {
		t.Error("expected esc to return to the results")
	}
	if m.results.cursor != 1 {
		t.Errorf("expected results cursor kept, got %d", m.results.cursor)
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestViewRendersPlainText(t *testing.T) {
	m := newModel(t)
	m = press(t, m, runes("/"), runes("disk"), enter)

	view := m.View()
	if strings.ContainsAny(view, highlight.TerminalMarkers.Found+highlight.TerminalMarkers.Current+highlight.TerminalMarkers.End) {
		t.Error("expected markers to be turned into styles")
	}
	if !strings.Contains(view, "Payments 2024-01-01") {
		t.Errorf("expected title in view, got %q", view)
	}
}
