// Package tui is the terminal browser for search results: highlight a
// text, walk its occurrences and open the content of a file.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atikulmunna/logbrowser/internal/browser"
	"github.com/atikulmunna/logbrowser/internal/logfile"
	"github.com/atikulmunna/logbrowser/internal/model"
	"github.com/atikulmunna/logbrowser/internal/output"
)

// fileLoadedMsg carries the content of a file opened from the results.
type fileLoadedMsg struct {
	file  *logfile.LogFile
	lines []model.Line
	err   error
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx     context.Context
	title   string
	entries []browser.ResultEntry
	keys    keyMap

	results *pane
	detail  *pane
	file    *logfile.LogFile
	levels  map[int]string // result row -> level, for coloring

	viewport  viewport.Model
	input     textinput.Model
	searching bool
	loading   bool
	status    string
	width     int
	height    int
}

// New builds the browser over the rows of a search.
func New(ctx context.Context, title string, entries []browser.ResultEntry) Model {
	ti := textinput.New()
	ti.Placeholder = "text to highlight"
	ti.Prompt = "/"
	ti.CharLimit = 200

	rows := make([]string, len(entries))
	gutter := make([]string, len(entries))
	levels := make(map[int]string)
	for i, e := range entries {
		if e.IsHeader() {
			rows[i] = e.File.DisplayName() + "  " + e.File.Identity()
			continue
		}
		rows[i] = e.Line.Text
		gutter[i] = lineNumber(e.Line)
		levels[i] = e.Level
	}

	m := Model{
		ctx:      ctx,
		title:    title,
		entries:  entries,
		keys:     defaultKeyMap(),
		results:  newPane(rows, gutter),
		levels:   levels,
		viewport: viewport.New(80, 20),
		input:    ti,
		width:    80,
		height:   24,
	}
	m.status = fmt.Sprintf("%d row(s)", len(rows))
	m.refresh()
	return m
}

func lineNumber(l model.Line) string { return fmt.Sprintf("%6d  ", l.Index+1) }

// Run starts the browser in the alternate screen.
func Run(ctx context.Context, title string, entries []browser.ResultEntry) error {
	_, err := tea.NewProgram(New(ctx, title, entries), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		m.refresh()
		return m, nil

	case fileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorStyle.Render(msg.err.Error())
			return m, nil
		}
		rows := make([]string, len(msg.lines))
		gutter := make([]string, len(msg.lines))
		for i, l := range msg.lines {
			rows[i] = l.Text
			gutter[i] = lineNumber(l)
		}
		m.file = msg.file
		m.detail = newPane(rows, gutter)
		m.status = fmt.Sprintf("%s: %d line(s)", msg.file.DisplayName(), len(rows))
		if q := m.results.query; q != "" {
			m.applyHighlight(q)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.input.Blur()
		m.applyHighlight(m.input.Value())
		m.refresh()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.active()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.input.SetValue(p.query)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Next):
		if !p.next() {
			m.status = "no further occurrence"
		}
	case key.Matches(msg, m.keys.Previous):
		if !p.previous() {
			m.status = "no earlier occurrence"
		}
	case key.Matches(msg, m.keys.Open):
		if m.detail != nil || m.loading {
			return m, nil
		}
		if f := m.selectedFile(); f != nil {
			m.loading = true
			m.status = "loading " + f.DisplayName() + "..."
			return m, m.load(f)
		}
	case key.Matches(msg, m.keys.Back):
		if m.detail != nil {
			m.detail, m.file = nil, nil
			m.status = fmt.Sprintf("%d row(s)", len(m.results.rows))
		}
	case key.Matches(msg, m.keys.Up):
		p.move(-1)
	case key.Matches(msg, m.keys.Down):
		p.move(1)
	case key.Matches(msg, m.keys.PageUp):
		p.move(-m.viewport.Height)
	case key.Matches(msg, m.keys.PageDown):
		p.move(m.viewport.Height)
	case key.Matches(msg, m.keys.Top):
		p.move(-len(p.rows))
	case key.Matches(msg, m.keys.Bottom):
		p.move(len(p.rows))
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

// applyHighlight highlights text in the active pane and reports counts.
func (m *Model) applyHighlight(text string) {
	res := m.active().highlight(text)
	switch {
	case text == "":
		m.status = "highlight cleared"
	case res.TotalFound == 0:
		m.status = fmt.Sprintf("%q not found", text)
	default:
		m.status = fmt.Sprintf("%q: %d occurrence(s) on %d line(s)", text, res.TotalFound, res.LinesFound)
	}
}

// selectedFile is the file of the row under the cursor.
func (m Model) selectedFile() *logfile.LogFile {
	c := m.results.cursor
	if c < 0 || c >= len(m.entries) {
		return nil
	}
	return m.entries[c].File
}

func (m Model) load(f *logfile.LogFile) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		lines, err := f.Lines(ctx)
		return fileLoadedMsg{file: f, lines: lines, err: err}
	}
}

func (m Model) active() *pane {
	if m.detail != nil {
		return m.detail
	}
	return m.results
}

// refresh re-renders the active pane and keeps the cursor in view.
func (m *Model) refresh() {
	p := m.active()
	style := func(_ int, s string) string { return s }
	if p == m.results {
		style = func(i int, s string) string {
			if m.entries[i].IsHeader() {
				return headerStyle.Render(s)
			}
			return output.LevelStyle(m.levels[i]).Render(s)
		}
	}
	m.viewport.SetContent(p.render(style))

	h := m.viewport.Height
	switch {
	case p.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(p.cursor)
	case p.cursor >= m.viewport.YOffset+h:
		m.viewport.SetYOffset(p.cursor - h + 1)
	}
}

func (m Model) View() string {
	title := m.title
	if m.file != nil {
		title += "  >  " + m.file.DisplayName()
	}

	footer := dimStyle.Render(m.status)
	if m.searching {
		footer = m.input.View()
	}

	var help []string
	for _, b := range m.keys.help() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		m.viewport.View(),
		footer,
		dimStyle.Render(strings.Join(help, " | ")),
	)
}
