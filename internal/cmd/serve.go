package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atikulmunna/logbrowser/internal/aggregator"
	"github.com/atikulmunna/logbrowser/internal/browser"
	"github.com/atikulmunna/logbrowser/internal/config"
	"github.com/atikulmunna/logbrowser/internal/hub"
	"github.com/atikulmunna/logbrowser/internal/server"
	"github.com/atikulmunna/logbrowser/internal/watcher"
)

var (
	servePort  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve searches and downloads over HTTP",
	Long: `Start an HTTP API for searches and downloads, with progress events
streamed over a WebSocket. The configuration is reloaded when it changes.

Endpoints:
  GET  /healthz
  GET  /api/stats
  GET  /api/apps
  GET  /api/search?app=&from=&to=&text=&files=&level=
  POST /api/download {"overwrite": false}
  GET  /ws[?search=<id>]`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "port to listen on")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "reload the configuration when it changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nlogbrowser shutting down...")
		cancel()
	}()

	var current atomic.Pointer[config.Config]
	current.Store(cfg)

	h := hub.New()
	b := browser.New(settings(cfg, h), browser.WithPublisher(h))
	agg := aggregator.New(h.Subscribe(), h.Dropped, func() int { return len(current.Load().Apps) })

	go h.Start(ctx)
	go agg.Start(ctx)

	if verbose {
		events := h.Subscribe()
		go func() {
			for ev := range events {
				log.Printf("[event] %s %s %s", ev.Kind, ev.Source, ev.Detail)
			}
		}()
	}

	if path := viper.ConfigFileUsed(); serveWatch && path != "" {
		w, err := watcher.New([]string{path})
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		go w.Start(ctx)
		go func() {
			for ev := range w.Events {
				next, err := config.Load(ev.Path)
				if err != nil {
					log.Printf("warning: keeping previous configuration: %v", err)
					continue
				}
				current.Store(next)
				b.Reload(settings(next, h))
				log.Printf("[serve] reloaded %s: %d application(s)", ev.Path, len(next.Apps))
			}
		}()
	}

	srv := server.New(server.Deps{
		Browser:    b,
		Hub:        h,
		Aggregator: agg,
		Apps:       func() []string { return current.Load().AppNames() },
	}, servePort)

	fmt.Fprintf(os.Stderr, "logbrowser serving %d application(s) on http://localhost:%s\n", len(cfg.Apps), servePort)
	return srv.Start(ctx)
}

var _ browser.Catalog = (*config.Config)(nil)
