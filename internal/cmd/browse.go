package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/logbrowser/internal/tui"
)

var browseQuery queryFlags

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse search results in the terminal",
	Long: `Run a search and open the results in an interactive view.

Keys: / highlight, n/N next/previous occurrence, enter open file,
esc back, q quit.

Examples:
  logbrowser browse --app Payments --from 2024-01-01 --text ERROR`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	browseQuery.register(browseCmd, true)
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dr, err := browseQuery.dateRange()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entries, err := newCoordinator(cfg).Search(ctx, browseQuery.app, dr, browseQuery.text)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "nothing found")
		return nil
	}

	title := fmt.Sprintf("%s %s", browseQuery.app, dr)
	if browseQuery.text != "" {
		title += fmt.Sprintf(" %q", browseQuery.text)
	}
	return tui.Run(ctx, title, entries)
}
