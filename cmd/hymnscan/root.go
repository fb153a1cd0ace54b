package main

import (
	"fmt"

	"github.com/lutherald/hymnscan/internal/config"
	"github.com/lutherald/hymnscan/internal/http"
	"github.com/lutherald/hymnscan/internal/logger"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	cfgFile string
	verbose bool

	settings *config.Settings
	log      logger.Interface
)

var rootCmd = &cobra.Command{
	Use:   "hymnscan",
	Short: "Find and fill gaps in a hymn collection from The Lutheran Hymnal",
	Long: `hymnscan checks a JSON hymn collection for missing TLH hymn numbers,
scrapes the missing hymns from the parish website, and merges them back
into the collection with a backup of the previous file.

For an interactive walkthrough use hymnscan-tui.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		settings = s

		level := "info"
		if verbose {
			level = "debug"
		}
		log = logger.New(logger.Config{Level: level, Output: cmd.ErrOrStderr()})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON); HYMNSCAN_* environment variables override it")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show per-request detail")

	rootCmd.AddCommand(scanCmd, scrapeCmd, linksCmd, audioCmd)
}

// collectionPath returns the file named on the command line, or the
// configured default.
func collectionPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return settings.CollectionPath
}

func newClient() *http.Client {
	return http.NewClient(settings.Timeout(), settings.UserAgent)
}
