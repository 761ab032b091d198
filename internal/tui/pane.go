package tui

import (
	"strings"

	"github.com/atikulmunna/logbrowser/internal/highlight"
)

// pane is a list of rendered rows with a cursor and its own navigator.
// Rows hold marker-embedded text; styling happens at render time. The
// gutter (line numbers) is printed before each row and never highlighted.
type pane struct {
	rows   []string
	gutter []string
	nav    *highlight.Navigator
	cursor int
	query  string
}

func newPane(rows, gutter []string) *pane {
	return &pane{rows: rows, gutter: gutter, nav: highlight.New(rows, highlight.TerminalMarkers)}
}

// highlight marks text and moves the cursor to the first occurrence.
func (p *pane) highlight(text string) highlight.Result {
	p.query = text
	res := p.nav.Highlight(text)
	if res.FirstFoundLine >= 0 {
		p.cursor = res.FirstFoundLine
	}
	return res
}

func (p *pane) next() bool {
	line, ok := p.nav.Next()
	if ok {
		p.cursor = line
	}
	return ok
}

func (p *pane) previous() bool {
	line, ok := p.nav.Previous()
	if ok {
		p.cursor = line
	}
	return ok
}

func (p *pane) move(delta int) {
	p.cursor += delta
	if p.cursor >= len(p.rows) {
		p.cursor = len(p.rows) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// render styles every row and marks the cursor.
func (p *pane) render(style func(i int, s string) string) string {
	var b strings.Builder
	for i, row := range p.rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		prefix := "  "
		if i == p.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix)
		if i < len(p.gutter) {
			b.WriteString(p.gutter[i])
		}
		b.WriteString(highlight.TerminalMarkers.Decorate(row,
			func(s string) string { return style(i, s) },
			func(s string) string { return foundStyle.Render(s) },
			func(s string) string { return currentStyle.Render(s) },
		))
	}
	return b.String()
}
