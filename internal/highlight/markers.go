package highlight

import "strings"

// Strip returns line without any markers.
func (m Markers) Strip(line string) string {
	s, _ := m.strip(line)
	return s
}

func (m Markers) strip(line string) (string, bool) {
	changed := false
	for {
		i, open := m.nextOpen(line, 0)
		if i < 0 {
			return line, changed
		}
		changed = true
		line = line[:i] + line[i+len(open):]
		if j := strings.Index(line[i:], m.End); j >= 0 {
			line = line[:i+j] + line[i+j+len(m.End):]
		}
	}
}

// nextOpen returns the offset of the first found or current marker at or
// after from, and which of the two it is.
func (m Markers) nextOpen(line string, from int) (int, string) {
	f := strings.Index(line[from:], m.Found)
	c := strings.Index(line[from:], m.Current)
	switch {
	case f < 0 && c < 0:
		return -1, ""
	case c < 0 || (f >= 0 && f < c):
		return from + f, m.Found
	default:
		return from + c, m.Current
	}
}

// Decorate renders a marked line: text outside markers goes through plain,
// found spans through found and the current span through current. A span
// without an end marker runs to the end of the line.
func (m Markers) Decorate(line string, plain, found, current func(string) string) string {
	var b strings.Builder
	pos := 0
	for pos < len(line) {
		i, open := m.nextOpen(line, pos)
		if i < 0 {
			b.WriteString(plain(line[pos:]))
			break
		}
		if i > pos {
			b.WriteString(plain(line[pos:i]))
		}

		start := i + len(open)
		end := len(line)
		next := len(line)
		if j := strings.Index(line[start:], m.End); j >= 0 {
			end = start + j
			next = end + len(m.End)
		}

		style := found
		if open == m.Current {
			style = current
		}
		b.WriteString(style(line[start:end]))
		pos = next
	}
	return b.String()
}
