package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/logbrowser/internal/browser"
	"github.com/atikulmunna/logbrowser/internal/config"
	"github.com/atikulmunna/logbrowser/internal/model"
	"github.com/atikulmunna/logbrowser/internal/output"
	"github.com/atikulmunna/logbrowser/internal/resolver"
	"github.com/atikulmunna/logbrowser/internal/transport"
)

// queryFlags are shared by the commands that run a search.
type queryFlags struct {
	app  string
	from string
	to   string
	text string
}

func (q *queryFlags) register(cmd *cobra.Command, withText bool) {
	cmd.Flags().StringVarP(&q.app, "app", "a", "", "application name (see `logbrowser apps`)")
	cmd.Flags().StringVar(&q.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&q.to, "to", "", "last day, YYYY-MM-DD (default: --from)")
	if withText {
		cmd.Flags().StringVarP(&q.text, "text", "t", "", "text to search for; empty lists files")
	}
	_ = cmd.MarkFlagRequired("app")
	_ = cmd.MarkFlagRequired("from")
}

func (q *queryFlags) dateRange() (model.DateRange, error) {
	return model.ParseDateRange(q.from, q.to)
}

// settings derives the coordinator settings from cfg.
func settings(cfg *config.Config, events model.Publisher) browser.Settings {
	return browser.Settings{
		Catalog: cfg,
		Resolver: resolver.New(cfg.DateLayout,
			resolver.WithTransport(transport.Options{DialTimeout: timeout}),
			resolver.WithPublisher(events)),
		DownloadBase: cfg.DownloadBaseFolder,
		DownloadExt:  cfg.DownloadExtension,
	}
}

// newCoordinator builds a coordinator that prints events with --verbose.
func newCoordinator(cfg *config.Config) *browser.Coordinator {
	var events model.Publisher = model.Discard
	if verbose {
		events = stderrEvents{}
	}
	return browser.New(settings(cfg, events), browser.WithPublisher(events))
}

// stderrEvents prints progress events as they happen.
type stderrEvents struct{}

func (stderrEvents) Publish(ev model.Event) {
	fmt.Fprintln(os.Stderr, output.EventLine(ev))
}
