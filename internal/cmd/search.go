package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/logbrowser/internal/browser"
	"github.com/atikulmunna/logbrowser/internal/output"
)

var (
	searchQuery queryFlags
	searchFiles string
	searchLevel string
	searchOut   string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the logs of an application",
	Long: `Find the log files of an application for a range of days and print the
lines containing a text. Without --text the files found are listed.

Examples:
  logbrowser search --app Payments --from 2024-01-01 --text "disk full"
  logbrowser search --app Payments --from 2024-01-01 --to 2024-01-07
  logbrowser search --app Payments --from 2024-01-01 -t timeout --level warn -o json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	searchQuery.register(searchCmd, true)
	searchCmd.Flags().StringVar(&searchFiles, "files", "", "only files whose name matches this glob")
	searchCmd.Flags().StringVarP(&searchLevel, "level", "l", "", "minimum severity of matching lines: debug, info, warn, error, fatal")
	searchCmd.Flags().StringVarP(&searchOut, "output", "o", "text", "output format: text, json")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dr, err := searchQuery.dateRange()
	if err != nil {
		return err
	}
	renderer, err := output.New(searchOut, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := newCoordinator(cfg).Run(ctx, browser.Query{
		App:   searchQuery.app,
		Range: dr,
		Text:  searchQuery.text,
		Files: searchFiles,
		Level: searchLevel,
	})
	if err != nil {
		return err
	}

	if err := output.RenderAll(renderer, res.Entries); err != nil {
		return err
	}
	if searchOut != "json" {
		fmt.Fprintf(os.Stderr, "%d file(s), %d matching line(s)\n", res.Files, res.Matches)
	}
	return nil
}
