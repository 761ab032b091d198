// Package highlight marks occurrences of a text in a sequence of rendered
// lines and moves a single "current" occurrence forwards and backwards.
//
// Markers are embedded in the lines themselves: every occurrence is wrapped
// in a found (or current) opening marker and an end marker. The lines belong
// to the caller and are rewritten in place; a Navigator is not safe for
// concurrent use.
package highlight

import "strings"

// Markers are the strings wrapped around occurrences. None of them may
// contain another, and searched text should not contain them.
type Markers struct {
	Found   string
	Current string
	End     string
}

// HTMLMarkers wrap occurrences in colored spans.
var HTMLMarkers = Markers{
	Found:   `<span style="background-color:#00FF00;">`,
	Current: `<span style="background-color:#FF0000;">`,
	End:     `</span>`,
}

// TerminalMarkers use private-use runes that never appear in log text; the
// view turns them into styles with Decorate.
var TerminalMarkers = Markers{
	Found:   "\uE000",
	Current: "\uE001",
	End:     "\uE002",
}

// Result summarises a Highlight call.
type Result struct {
	TotalFound     int // occurrences, overlapping ones included
	LinesFound     int // lines with at least one occurrence
	FirstFoundLine int // -1 when nothing was found
}

// Navigator highlights and walks occurrences over a caller-owned slice.
type Navigator struct {
	lines []string
	m     Markers
}

// New returns a Navigator that rewrites lines in place.
func New(lines []string, m Markers) *Navigator {
	return &Navigator{lines: lines, m: m}
}

// Lines returns the slice being navigated.
func (n *Navigator) Lines() []string { return n.lines }

// Markers returns the markers in use.
func (n *Navigator) Markers() Markers { return n.m }

// Highlight clears previous markers, then wraps every occurrence of text in
// a found marker. The first occurrence over all lines becomes current.
func (n *Navigator) Highlight(text string) Result {
	n.Clear()

	res := Result{FirstFoundLine: -1}
	if text == "" {
		return res
	}

	wrapped := n.m.Found + text + n.m.End
	for i, line := range n.lines {
		count := countOccurrences(line, text)
		if count == 0 {
			continue
		}
		res.TotalFound += count
		res.LinesFound++

		line = strings.ReplaceAll(line, text, wrapped)
		if res.FirstFoundLine < 0 {
			line = strings.Replace(line, n.m.Found, n.m.Current, 1)
			res.FirstFoundLine = i
		}
		n.lines[i] = line
	}
	return res
}

// Clear removes every found and current marker along with its end marker.
func (n *Navigator) Clear() {
	for i, line := range n.lines {
		if stripped, changed := n.m.strip(line); changed {
			n.lines[i] = stripped
		}
	}
}

// Current returns the line holding the current marker.
func (n *Navigator) Current() (int, bool) {
	line, _, ok := n.current()
	return line, ok
}

// Next makes the following found occurrence current and returns its line.
// It returns false, leaving the markers untouched, when there is no current
// occurrence or nothing follows it.
func (n *Navigator) Next() (int, bool) {
	cl, cp, ok := n.current()
	if !ok {
		return -1, false
	}

	tl, tp := -1, -1
	after := cp + len(n.m.Current)
	if j := strings.Index(n.lines[cl][after:], n.m.Found); j >= 0 {
		tl, tp = cl, after+j
	} else {
		for i := cl + 1; i < len(n.lines); i++ {
			if j := strings.Index(n.lines[i], n.m.Found); j >= 0 {
				tl, tp = i, j
				break
			}
		}
	}
	if tl < 0 {
		return -1, false
	}

	n.move(cl, cp, tl, tp)
	return tl, true
}

// Previous makes the preceding found occurrence current and returns its
// line. It returns false, leaving the markers untouched, when there is no
// current occurrence or nothing precedes it.
func (n *Navigator) Previous() (int, bool) {
	cl, cp, ok := n.current()
	if !ok {
		return -1, false
	}

	tl, tp := -1, -1
	if j := strings.LastIndex(n.lines[cl][:cp], n.m.Found); j >= 0 {
		tl, tp = cl, j
	} else {
		for i := cl - 1; i >= 0; i-- {
			if j := strings.LastIndex(n.lines[i], n.m.Found); j >= 0 {
				tl, tp = i, j
				break
			}
		}
	}
	if tl < 0 {
		return -1, false
	}

	n.move(cl, cp, tl, tp)
	return tl, true
}

// current locates the current marker: line index and byte offset.
func (n *Navigator) current() (int, int, bool) {
	for i, line := range n.lines {
		if j := strings.Index(line, n.m.Current); j >= 0 {
			return i, j, true
		}
	}
	return -1, -1, false
}

// move demotes the current marker at (cl, cp) and promotes the found marker
// at (tl, tp). Within one line the later offset is rewritten first so the
// earlier one stays valid.
func (n *Navigator) move(cl, cp, tl, tp int) {
	if cl != tl {
		n.lines[cl] = replaceAt(n.lines[cl], cp, n.m.Current, n.m.Found)
		n.lines[tl] = replaceAt(n.lines[tl], tp, n.m.Found, n.m.Current)
		return
	}

	line := n.lines[cl]
	if tp > cp {
		line = replaceAt(line, tp, n.m.Found, n.m.Current)
		line = replaceAt(line, cp, n.m.Current, n.m.Found)
	} else {
		line = replaceAt(line, cp, n.m.Current, n.m.Found)
		line = replaceAt(line, tp, n.m.Found, n.m.Current)
	}
	n.lines[cl] = line
}

// countOccurrences counts text in line, advancing one byte past each match
// so overlapping occurrences are counted too.
func countOccurrences(line, text string) int {
	count := 0
	for pos := 0; pos <= len(line); {
		j := strings.Index(line[pos:], text)
		if j < 0 {
			break
		}
		count++
		pos += j + 1
	}
	return count
}

func replaceAt(line string, pos int, old, repl string) string {
	return line[:pos] + repl + line[pos+len(old):]
}
