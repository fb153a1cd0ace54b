package main

import (
	"github.com/lutherald/hymnscan/internal/gap"
	"github.com/spf13/cobra"
)

var (
	saveMissing bool
	missingList string
)

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Report which hymn numbers are missing from a collection",
	Long: `Load a hymn collection and report which TLH numbers between 1 and the
configured last hymn are present and which are missing.

Examples:
  hymnscan scan                        # analyze hymns.json
  hymnscan scan tlh.json --save-missing # write missing_list_path from config
  hymnscan scan --save-missing --missing-list gaps.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := collectionPath(args)

		result, collection, err := gap.Scan(path, settings.LastHymn)
		if err != nil {
			log.Error("Could not analyze collection", "path", path, "error", err.Error())
			return nil
		}
		if rejected := collection.Rejected(); len(rejected) > 0 {
			log.Warn("Keeping keys that are not readable hymn records as-is", "keys", rejected)
		}

		if err := gap.WriteReport(cmd.OutOrStdout(), result); err != nil {
			return err
		}

		if saveMissing && len(result.Missing) > 0 {
			target := settings.MissingListPath
			if missingList != "" {
				target = missingList
			}
			if err := gap.SaveMissingList(target, result.Missing, result.Last); err != nil {
				log.Error("Could not save missing list", "path", target, "error", err.Error())
				return nil
			}
			log.Info("Missing hymns list saved", "path", target)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&saveMissing, "save-missing", false, "write the missing numbers to a file")
	scanCmd.Flags().StringVar(&missingList, "missing-list", "", "file for --save-missing (default from config)")
}
