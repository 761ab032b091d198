// Package output prints search results and progress events.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/atikulmunna/logbrowser/internal/browser"
	"github.com/atikulmunna/logbrowser/internal/model"
)

// Renderer writes result rows to an output stream.
type Renderer interface {
	Render(entry browser.ResultEntry) error
}

// New returns the renderer for a --output value.
func New(format string, w io.Writer) (Renderer, error) {
	switch format {
	case "", "text":
		return NewTextRenderer(w), nil
	case "json":
		return NewJSONRenderer(w), nil
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", model.ErrValidation, format)
	}
}

// RenderAll renders entries in order, stopping at the first error.
func RenderAll(r Renderer, entries []browser.ResultEntry) error {
	for _, e := range entries {
		if err := r.Render(e); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleFatal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true)
	styleFile   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	styleSource = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)
	styleIndex  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// TextRenderer prints a header per file and its matches beneath it.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer writing colorized text to w, or to
// stdout when w is nil.
func NewTextRenderer(w io.Writer) *TextRenderer {
	if w == nil {
		w = os.Stdout
	}
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(entry browser.ResultEntry) error {
	if entry.IsHeader() {
		_, err := fmt.Fprintf(r.w, "%s %s\n",
			styleFile.Render(entry.File.DisplayName()),
			styleSource.Render(entry.File.Identity()))
		return err
	}

	idx := styleIndex.Render(fmt.Sprintf("%6d", entry.Line.Index+1))
	_, err := fmt.Fprintf(r.w, "%s %s %s\n", idx, StyleLevelTag(entry.Level), entry.Line.Text)
	return err
}

// StyleLevelTag renders a padded, colored severity tag.
func StyleLevelTag(level string) string {
	padded := fmt.Sprintf("%-5s", level)
	return LevelStyle(level).Render(padded)
}

// LevelStyle returns the style used for a severity.
func LevelStyle(level string) lipgloss.Style {
	switch level {
	case "DEBUG":
		return styleDebug
	case "WARN":
		return styleWarn
	case "ERROR":
		return styleError
	case "FATAL":
		return styleFatal
	default:
		return styleInfo
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each row as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer writing JSON lines to w, or to stdout
// when w is nil.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	if w == nil {
		w = os.Stdout
	}
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(entry browser.ResultEntry) error {
	return r.enc.Encode(entry)
}

// ---------------------------------------------------------------------------
// Events (--verbose)
// ---------------------------------------------------------------------------

// EventLine formats a progress event for stderr.
func EventLine(ev model.Event) string {
	line := fmt.Sprintf("%s %-15s", ev.Time.Format("15:04:05"), ev.Kind)
	if ev.Source != "" {
		line += " " + ev.Source
	}
	if ev.Count > 0 {
		line += fmt.Sprintf(" (%d)", ev.Count)
	}
	if ev.Detail != "" {
		line += " " + ev.Detail
	}
	return line
}
