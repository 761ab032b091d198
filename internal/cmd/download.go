package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/logbrowser/internal/model"
)

var (
	downloadQuery     queryFlags
	downloadOverwrite bool
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the logs of an application into a dated folder",
	Long: `Find the log files of an application for a range of days and copy them
into <downloadBaseFolder><app>_<from>[_<to>].

Examples:
  logbrowser download --app Payments --from 2024-01-01
  logbrowser download --app Payments --from 2024-01-01 --to 2024-01-03 --overwrite`,
	Args: cobra.NoArgs,
	RunE: runDownload,
}

func init() {
	downloadQuery.register(downloadCmd, false)
	downloadCmd.Flags().BoolVar(&downloadOverwrite, "overwrite", false, "replace an existing download folder")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dr, err := downloadQuery.dateRange()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := newCoordinator(cfg)
	if _, err := b.Search(ctx, downloadQuery.app, dr, ""); err != nil {
		return err
	}
	if len(b.DownloadSet()) == 0 {
		return fmt.Errorf("no log files found for %s on %s", downloadQuery.app, dr)
	}

	folder, err := b.PrepareDownloadFolder()
	var exists *model.FolderExistsError
	switch {
	case errors.As(err, &exists) && !downloadOverwrite:
		return fmt.Errorf("%w (use --overwrite to replace it)", err)
	case err != nil && !errors.As(err, &exists):
		return err
	}

	n, err := b.Download(ctx, folder, downloadOverwrite)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "downloaded %d file(s) to %s\n", n, folder)
	return nil
}
