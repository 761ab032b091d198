package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List the configured applications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, app := range cfg.Apps {
			fmt.Fprintf(out, "%s\n", app.Name)
			if verbose {
				for _, src := range app.Sources {
					fmt.Fprintf(out, "  %s %v\n", src, src.Files)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(appsCmd)
}
