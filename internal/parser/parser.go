// Package parser classifies matched log lines: severity, timestamp and
// message, so results can be colored and filtered by level.
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/atikulmunna/logbrowser/internal/model"
)

// Severity levels, lowest first.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelFatal = "FATAL"
)

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
	LevelFatal: 4,
}

// Parser turns a matched line of source into a LogEntry.
type Parser interface {
	Parse(line model.Line, source string) model.LogEntry
}

// ---------------------------------------------------------------------------
// JSON Parser
// ---------------------------------------------------------------------------

// JSONParser handles JSON-formatted lines.
// Recognizes level/severity, msg/message and timestamp/time/ts.
type JSONParser struct{}

func NewJSONParser() *JSONParser { return &JSONParser{} }

func (p *JSONParser) Parse(line model.Line, source string) model.LogEntry {
	entry := base(line, source)

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(line.Text), &data); err != nil {
		return entry
	}

	if v, ok := strField(data, "level", "severity"); ok {
		entry.Level = NormalizeLevel(v)
	}
	if v, ok := strField(data, "message", "msg"); ok {
		entry.Message = v
	}
	if v, ok := strField(data, "timestamp", "time", "ts"); ok {
		entry.Timestamp = parseTime(v)
	}

	skip := map[string]bool{"level": true, "severity": true, "message": true, "msg": true, "timestamp": true, "time": true, "ts": true}
	for k, v := range data {
		if skip[k] {
			continue
		}
		if entry.Fields == nil {
			entry.Fields = make(map[string]string)
		}
		entry.Fields[k] = fmt.Sprintf("%v", v)
	}

	return entry
}

// ---------------------------------------------------------------------------
// CLF Parser (access logs)
// ---------------------------------------------------------------------------

// CLFParser handles Apache/Nginx access log lines.
// Format: host ident authuser [date] "request" status bytes
type CLFParser struct {
	re *regexp.Regexp
}

func NewCLFParser() *CLFParser {
	return &CLFParser{
		re: regexp.MustCompile(`^(\S+) (\S+) (\S+) \[([^\]]+)\] "([^"]*)" (\d{3}) (\S+)`),
	}
}

func (p *CLFParser) Parse(line model.Line, source string) model.LogEntry {
	entry := base(line, source)

	m := p.re.FindStringSubmatch(line.Text)
	if m == nil {
		return entry
	}

	if t, err := time.Parse("02/Jan/2006:15:04:05 -0700", m[4]); err == nil {
		entry.Timestamp = t
	}
	entry.Level = statusToLevel(m[6])
	entry.Message = m[5]
	entry.Fields = map[string]string{
		"host":   m[1],
		"ident":  m[2],
		"user":   m[3],
		"status": m[6],
		"bytes":  m[7],
	}

	return entry
}

// statusToLevel maps HTTP status codes to severities.
func statusToLevel(status string) string {
	if status == "" {
		return LevelInfo
	}
	switch status[0] {
	case '5':
		return LevelError
	case '4':
		return LevelWarn
	default:
		return LevelInfo
	}
}

// ---------------------------------------------------------------------------
// Regex Parser (per-application layouts)
// ---------------------------------------------------------------------------

// RegexParser uses a pattern with named groups.
// Recognized groups: timestamp, level, message (all optional).
// Lines the pattern does not match go to the fallback, if any.
type RegexParser struct {
	re       *regexp.Regexp
	fallback Parser
}

func NewRegexParser(pattern string) (*RegexParser, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return &RegexParser{re: re}, nil
}

// WithFallback sets the parser used for lines the pattern does not match.
func (p *RegexParser) WithFallback(f Parser) *RegexParser {
	p.fallback = f
	return p
}

func (p *RegexParser) Parse(line model.Line, source string) model.LogEntry {
	entry := base(line, source)

	m := p.re.FindStringSubmatch(line.Text)
	if m == nil {
		if p.fallback != nil {
			return p.fallback.Parse(line, source)
		}
		return entry
	}

	entry.Fields = make(map[string]string)
	for i, name := range p.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		val := m[i]
		switch name {
		case "level":
			entry.Level = NormalizeLevel(val)
		case "message":
			entry.Message = val
		case "timestamp":
			entry.Timestamp = parseTime(val)
		default:
			entry.Fields[name] = val
		}
	}

	return entry
}

// ---------------------------------------------------------------------------
// Auto Parser
// ---------------------------------------------------------------------------

// AutoParser tries JSON, then access log format, then keyword detection.
type AutoParser struct {
	jsonParser *JSONParser
	clfParser  *CLFParser
	plain      *regexp.Regexp
}

func NewAutoParser() *AutoParser {
	return &AutoParser{
		jsonParser: NewJSONParser(),
		clfParser:  NewCLFParser(),
		plain:      regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?(?:Z|[+-]\d{2}:?\d{2})?)\s+`),
	}
}

func (p *AutoParser) Parse(line model.Line, source string) model.LogEntry {
	trimmed := strings.TrimSpace(line.Text)

	if strings.HasPrefix(trimmed, "{") {
		entry := p.jsonParser.Parse(line, source)
		if entry.Message != line.Text {
			return entry
		}
	}

	entry := p.clfParser.Parse(line, source)
	if entry.Message != line.Text {
		return entry
	}

	entry = keywordParse(line, source)
	if m := p.plain.FindStringSubmatch(line.Text); m != nil {
		entry.Timestamp = parseTime(m[1])
	}
	return entry
}

// ---------------------------------------------------------------------------
// Levels
// ---------------------------------------------------------------------------

// NormalizeLevel maps common level spellings onto the standard set.
func NormalizeLevel(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FATAL", "CRITICAL", "CRIT", "SEVERE":
		return LevelFatal
	case "ERROR", "ERR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG", "TRACE", "FINE", "FINER", "FINEST":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// ParseLevel validates a level given on the command line.
func ParseLevel(s string) (string, error) {
	l := strings.ToUpper(strings.TrimSpace(s))
	if l == "WARNING" {
		l = LevelWarn
	}
	if _, ok := levelRank[l]; !ok {
		return "", fmt.Errorf("%w: unknown level %q", model.ErrValidation, s)
	}
	return l, nil
}

// AtLeast reports whether level is as severe as min. An empty min accepts
// everything.
func AtLeast(level, min string) bool {
	if min == "" {
		return true
	}
	return levelRank[level] >= levelRank[min]
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func base(line model.Line, source string) model.LogEntry {
	return model.LogEntry{
		Source:  source,
		Line:    line.Index,
		Raw:     line.Text,
		Level:   LevelInfo,
		Message: line.Text,
	}
}

// keywordParse detects severity from keywords in the line.
func keywordParse(line model.Line, source string) model.LogEntry {
	entry := base(line, source)
	upper := strings.ToUpper(line.Text)

	switch {
	case strings.Contains(upper, "FATAL"), strings.Contains(upper, "SEVERE"):
		entry.Level = LevelFatal
	case strings.Contains(upper, "ERROR"), strings.Contains(upper, "EXCEPTION"):
		entry.Level = LevelError
	case strings.Contains(upper, "WARN"):
		entry.Level = LevelWarn
	case strings.Contains(upper, "DEBUG"), strings.Contains(upper, "TRACE"):
		entry.Level = LevelDebug
	}

	return entry
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05,000",
}

// parseTime returns the zero time when s matches no known layout.
func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// strField returns the first non-empty value among keys.
func strField(data map[string]interface{}, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := data[k]; ok {
			s := fmt.Sprintf("%v", v)
			if s != "" {
				return s, true
			}
		}
	}
	return "", false
}
