package model

// Line is one line of a log file.
type Line struct {
	Index int    `json:"index"` // zero-based, in read order
	Text  string `json:"text"`
}

// Equal reports whether two lines carry the same text. The index is not
// part of a line's identity: the same text at two positions is a duplicate.
func (l Line) Equal(other Line) bool {
	return l.Text == other.Text
}

// uniqueLines drops lines whose text already appeared earlier in the slice.
func uniqueLines(lines []Line) []Line {
	seen := make(map[string]struct{}, len(lines))
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.Text]; ok {
			continue
		}
		seen[l.Text] = struct{}{}
		out = append(out, l)
	}
	return out
}
