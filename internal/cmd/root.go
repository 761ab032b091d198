package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atikulmunna/logbrowser/internal/config"
)

var (
	cfgFile   string
	envFile   string
	verbose   bool
	timeout   time.Duration
	configErr error
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "logbrowser",
	Short: "logbrowser: search and fetch application logs across hosts",
	Long: `logbrowser finds the log files of an application for a range of days,
on local disks, HTTP(S) servers and SFTP hosts, searches them for a text
and downloads them into a dated folder.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.logbrowser.yaml or ./.logbrowser.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with credentials")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress events to stderr")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "connection timeout for remote sources")
}

func initConfig() {
	if err := config.LoadDotEnv(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".logbrowser")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	configErr = viper.ReadInConfig()
}

// loadConfig decodes the configuration read by initConfig.
func loadConfig() (*config.Config, error) {
	if configErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(configErr, &notFound) {
			return nil, fmt.Errorf("no configuration found; run `logbrowser init` or pass --config")
		}
		return nil, fmt.Errorf("read config: %w", configErr)
	}
	return config.FromViper(viper.GetViper())
}
