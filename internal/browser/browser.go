// Package browser coordinates searches over every log source of an
// application and downloads the files a search found.
package browser

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/atikulmunna/logbrowser/internal/logfile"
	"github.com/atikulmunna/logbrowser/internal/model"
	"github.com/atikulmunna/logbrowser/internal/parser"
	"github.com/atikulmunna/logbrowser/internal/resolver"
)

// Catalog looks applications up by name.
type Catalog interface {
	App(name string) (model.App, bool)
}

// Settings is everything a Coordinator derives from the configuration.
type Settings struct {
	Catalog      Catalog
	Resolver     *resolver.Resolver
	DownloadBase string
	DownloadExt  string
}

// Query is one search request. An empty (or blank) Text lists files
// without reading them.
type Query struct {
	App   string
	Range model.DateRange
	Text  string
	Files string // doublestar pattern on file names; empty keeps all
	Level string // minimum severity of match lines; empty keeps all
}

// Coordinator runs searches and downloads one at a time. The files found
// by the last successful search form the download set.
type Coordinator struct {
	mu         sync.Mutex
	settings   Settings
	classifier parser.Parser
	patterns   map[string]parser.Parser
	events     model.Publisher
	now        func() time.Time

	last *search
}

type search struct {
	id    string
	app   string
	dr    model.DateRange
	files []*logfile.LogFile
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPublisher sets the receiver of progress events.
func WithPublisher(p model.Publisher) Option {
	return func(c *Coordinator) { c.events = p }
}

// WithParser replaces the classifier used for match lines.
func WithParser(p parser.Parser) Option {
	return func(c *Coordinator) { c.classifier = p }
}

// WithClock sets the clock used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// New returns a Coordinator. A nil resolver means ISO dates over the
// default transports.
func New(s Settings, opts ...Option) *Coordinator {
	c := &Coordinator{
		classifier: parser.NewAutoParser(),
		patterns:   make(map[string]parser.Parser),
		events:     model.Discard,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.settings = c.normalize(s)
	return c
}

// Reload swaps the settings. The download set of the previous search is
// kept; it refers to files, not to configuration.
func (c *Coordinator) Reload(s Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = c.normalize(s)
}

func (c *Coordinator) normalize(s Settings) Settings {
	if s.Resolver == nil {
		s.Resolver = resolver.New(model.ISODate, resolver.WithPublisher(c.events))
	}
	return s
}

// Search runs a query without file or level filters and returns its rows.
func (c *Coordinator) Search(ctx context.Context, app string, dr model.DateRange, text string) ([]ResultEntry, error) {
	res, err := c.Run(ctx, Query{App: app, Range: dr, Text: text})
	if err != nil {
		return nil, err
	}
	return res.Entries, nil
}

// Run executes q over every source of the application, in configuration
// order. Without text it lists one header per resolved file. With text it
// emits, per file with at least one match, a header followed by the
// matching lines in index order. Every resolved file (after the name
// filter) becomes the download set; on error the previous set is kept.
func (c *Coordinator) Run(ctx context.Context, q Query) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dr, err := model.NewDateRange(q.Range.From, q.Range.To)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(q.Text) == "" {
		q.Text = ""
	}
	if q.Files != "" && !doublestar.ValidatePattern(q.Files) {
		return nil, fmt.Errorf("%w: invalid file pattern %q", model.ErrValidation, q.Files)
	}
	if q.Level != "" {
		if q.Level, err = parser.ParseLevel(q.Level); err != nil {
			return nil, err
		}
	}

	app, ok := c.settings.Catalog.App(q.App)
	if !ok {
		return nil, fmt.Errorf("%w: application %q does not exist", model.ErrConfiguration, q.App)
	}
	classify, err := c.classifierFor(app)
	if err != nil {
		return nil, err
	}

	s := &search{id: uuid.NewString(), app: app.Name, dr: dr}
	res := &Result{ID: s.id, App: app.Name, Range: dr.String(), Text: q.Text}
	c.publish(s, model.Event{Kind: model.EventSearchStarted, Detail: dr.String()})

	for _, src := range app.Sources {
		files, err := c.settings.Resolver.Resolve(ctx, dr, src)
		if err != nil {
			return nil, c.fail(s, src.String(), err)
		}

		for _, f := range files {
			if q.Files != "" && !matchName(q.Files, f.Name()) {
				continue
			}
			s.files = append(s.files, f)

			if q.Text == "" {
				res.Entries = append(res.Entries, Header(f))
				continue
			}

			entries, err := c.searchFile(ctx, s, f, q, classify)
			if err != nil {
				return nil, c.fail(s, f.Identity(), err)
			}
			if len(entries) > 0 {
				res.Entries = append(res.Entries, Header(f))
				res.Entries = append(res.Entries, entries...)
				res.Matches += len(entries)
			}
		}
	}

	res.Files = len(s.files)
	c.last = s
	c.publish(s, model.Event{Kind: model.EventSearchFinished, Count: res.Matches, Detail: fmt.Sprintf("%d files", res.Files)})
	return res, nil
}

// searchFile returns the classified match rows of one file.
func (c *Coordinator) searchFile(ctx context.Context, s *search, f *logfile.LogFile, q Query, classify parser.Parser) ([]ResultEntry, error) {
	wasLoaded := f.Loaded()
	lines, err := f.Search(ctx, q.Text)
	if err != nil {
		return nil, err
	}
	if !wasLoaded {
		c.publish(s, model.Event{Kind: model.EventFileLoaded, Source: f.Identity(), File: f.DisplayName()})
	}

	var entries []ResultEntry
	perLevel := make(map[string]int)
	for _, l := range lines {
		level := classify.Parse(l, f.Identity()).Level
		if !parser.AtLeast(level, q.Level) {
			continue
		}
		perLevel[level]++
		entries = append(entries, Match(f, l, level))
	}
	for level, n := range perLevel {
		c.publish(s, model.Event{Kind: model.EventMatch, Source: f.Identity(), File: f.DisplayName(), Count: n, Detail: level})
	}
	return entries, nil
}

// classifierFor returns the app's pattern parser, falling back to the
// default classifier for lines it does not match.
func (c *Coordinator) classifierFor(app model.App) (parser.Parser, error) {
	if app.Pattern == "" {
		return c.classifier, nil
	}
	if p, ok := c.patterns[app.Pattern]; ok {
		return p, nil
	}
	rp, err := parser.NewRegexParser(app.Pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: application %q: %v", model.ErrConfiguration, app.Name, err)
	}
	p := rp.WithFallback(c.classifier)
	c.patterns[app.Pattern] = p
	return p, nil
}

func (c *Coordinator) fail(s *search, source string, err error) error {
	c.publish(s, model.Event{Kind: model.EventError, Source: source, Detail: err.Error()})
	log.Printf("[browser] search %s on %s failed: %v", s.app, source, err)
	return err
}

func (c *Coordinator) publish(s *search, ev model.Event) {
	ev.SearchID = s.id
	ev.App = s.app
	ev.Time = c.now()
	c.events.Publish(ev)
}

// DownloadSet returns the files found by the last successful search.
func (c *Coordinator) DownloadSet() []*logfile.LogFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return nil
	}
	return append([]*logfile.LogFile(nil), c.last.files...)
}

func matchName(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
