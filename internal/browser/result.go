package browser

import (
	"encoding/json"

	"github.com/atikulmunna/logbrowser/internal/logfile"
	"github.com/atikulmunna/logbrowser/internal/model"
)

// EntryKind tells a file header from a matching line.
type EntryKind string

const (
	KindFileHeader EntryKind = "file"
	KindMatch      EntryKind = "match"
)

// ResultEntry is one row of a search result. Headers carry only the file;
// matches carry the file, the line and its classified level.
type ResultEntry struct {
	Kind  EntryKind
	File  *logfile.LogFile
	Line  model.Line
	Level string
}

// Header builds a file header entry.
func Header(f *logfile.LogFile) ResultEntry {
	return ResultEntry{Kind: KindFileHeader, File: f}
}

// Match builds a matching line entry.
func Match(f *logfile.LogFile, l model.Line, level string) ResultEntry {
	return ResultEntry{Kind: KindMatch, File: f, Line: l, Level: level}
}

// IsHeader reports whether the entry is a file header.
func (e ResultEntry) IsHeader() bool { return e.Kind == KindFileHeader }

type entryJSON struct {
	Kind   EntryKind `json:"kind"`
	File   string    `json:"file"`
	Alias  string    `json:"alias,omitempty"`
	Source string    `json:"source"`
	Line   *int      `json:"line,omitempty"`
	Text   string    `json:"text,omitempty"`
	Level  string    `json:"level,omitempty"`
}

func (e ResultEntry) MarshalJSON() ([]byte, error) {
	out := entryJSON{Kind: e.Kind}
	if e.File != nil {
		out.File = e.File.DisplayName()
		out.Alias = e.File.Alias()
		out.Source = e.File.Identity()
	}
	if e.Kind == KindMatch {
		idx := e.Line.Index
		out.Line = &idx
		out.Text = e.Line.Text
		out.Level = e.Level
	}
	return json.Marshal(out)
}

// Result is a completed search.
type Result struct {
	ID      string        `json:"id"`
	App     string        `json:"app"`
	Range   string        `json:"range"`
	Text    string        `json:"text,omitempty"`
	Files   int           `json:"files"`
	Matches int           `json:"matches"`
	Entries []ResultEntry `json:"entries"`
}
