// Package resolver expands dated path templates into the log files that
// actually exist on a source.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atikulmunna/logbrowser/internal/logfile"
	"github.com/atikulmunna/logbrowser/internal/model"
	"github.com/atikulmunna/logbrowser/internal/transport"
)

// DefaultDateLayout is used when no date format is configured.
const DefaultDateLayout = model.ISODate

// Builder constructs the strategy for one candidate path.
type Builder func(spec transport.Spec, opts transport.Options) (transport.Strategy, error)

// Resolver turns a date range and a log source into existing log files.
// Probing is sequential: one candidate at a time, in template then date
// order.
type Resolver struct {
	layout string
	opts   transport.Options
	build  Builder
	now    func() time.Time
	events model.Publisher
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTransport sets the protocol options handed to every strategy.
func WithTransport(opts transport.Options) Option {
	return func(r *Resolver) { r.opts = opts }
}

// WithBuilder replaces transport.New.
func WithBuilder(b Builder) Option {
	return func(r *Resolver) { r.build = b }
}

// WithClock sets the clock used to recognise today's date.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithPublisher sets the receiver of probe events.
func WithPublisher(p model.Publisher) Option {
	return func(r *Resolver) { r.events = p }
}

// New returns a Resolver formatting dates with the Go layout.
func New(layout string, options ...Option) *Resolver {
	if layout == "" {
		layout = DefaultDateLayout
	}
	r := &Resolver{
		layout: layout,
		build:  transport.New,
		now:    time.Now,
		events: model.Discard,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Layout returns the Go date layout used for expansion.
func (r *Resolver) Layout() string { return r.layout }

// Resolve returns the existing files of src for every day of dr.
//
// Templates without a date placeholder are probed once whatever the range.
// For dated templates each day is probed in ascending order; when the
// source declares a compression the compressed variant is tried first and,
// if it exists, the plain variant is not probed for that day.
func (r *Resolver) Resolve(ctx context.Context, dr model.DateRange, src model.LogSource) ([]*logfile.LogFile, error) {
	if src.Type == model.SourceSFTP && src.Compression != model.CompressionNone {
		return nil, fmt.Errorf("%w: SFTP source %s cannot be compressed (%s)",
			model.ErrConfiguration, src.Host, src.Compression)
	}

	var files []*logfile.LogFile
	for _, tmpl := range src.Files {
		// Undated templates name the live file: checked once, plain only,
		// whatever compression the source declares.
		if !strings.Contains(tmpl, model.DateHolder) {
			f, err := r.probe(ctx, src, tmpl, model.CompressionNone)
			if err != nil {
				return nil, err
			}
			if f != nil {
				files = append(files, f)
			}
			continue
		}

		for _, day := range dr.Days() {
			f, err := r.resolveDay(ctx, src, r.Expand(tmpl, day, src))
			if err != nil {
				return nil, err
			}
			if f != nil {
				files = append(files, f)
			}
		}
	}
	return files, nil
}

// Expand substitutes the date placeholder of tmpl for day. Sources with
// TodayUndated drop the placeholder, separator included, for today.
func (r *Resolver) Expand(tmpl string, day time.Time, src model.LogSource) string {
	if src.TodayUndated && model.SameDay(day, r.now()) {
		return strings.ReplaceAll(tmpl, model.DateHolder, "")
	}
	return strings.ReplaceAll(tmpl, model.DateHolder, src.DateSeparator+day.Format(r.layout))
}

// resolveDay applies the compression fallback to one expanded path.
func (r *Resolver) resolveDay(ctx context.Context, src model.LogSource, path string) (*logfile.LogFile, error) {
	if src.Compression != model.CompressionNone {
		f, err := r.probe(ctx, src, path, src.Compression)
		if err != nil || f != nil {
			return f, err
		}
	}
	return r.probe(ctx, src, path, model.CompressionNone)
}

// probe builds the strategy for path (plus the compression suffix) and
// returns a LogFile when it exists, nil otherwise.
func (r *Resolver) probe(ctx context.Context, src model.LogSource, path string, c model.Compression) (*logfile.LogFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidate := path + c.Suffix()
	strategy, err := r.build(transport.Spec{Source: src, Path: candidate, Compression: c}, r.opts)
	if err != nil {
		return nil, err
	}

	r.publish(model.EventProbe, strategy.Identity(), "")
	ok, err := strategy.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		r.publish(model.EventFileMissing, strategy.Identity(), "")
		return nil, nil
	}

	name := transport.BaseName(candidate)
	r.publish(model.EventFileFound, strategy.Identity(), name)
	return logfile.New(name, src.Alias, strategy), nil
}

func (r *Resolver) publish(kind model.EventKind, source, file string) {
	r.events.Publish(model.Event{Kind: kind, Source: source, File: file, Time: r.now()})
}
