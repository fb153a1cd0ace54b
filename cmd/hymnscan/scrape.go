package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lutherald/hymnscan/internal/gap"
	"github.com/lutherald/hymnscan/internal/scrape"
	"github.com/lutherald/hymnscan/internal/store"
	"github.com/spf13/cobra"
)

var (
	scrapeDelay  time.Duration
	scrapeYes    bool
	scrapeDryRun bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [file]",
	Short: "Fetch the missing hymns and merge them into the collection",
	Long: `Analyze the collection, fetch every missing hymn page one after another,
extract the verses, and merge the new records into the file. The previous
file is kept as <file>.backup.

Examples:
  hymnscan scrape                      # ask before saving
  hymnscan scrape tlh.json --delay 2s --yes
  hymnscan scrape --dry-run            # fetch and report only`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := collectionPath(args)

		result, collection, err := gap.Scan(path, settings.LastHymn)
		if err != nil {
			log.Error("Could not analyze collection", "path", path, "error", err.Error())
			return nil
		}
		if len(result.Missing) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No missing hymns. Nothing to scrape.")
			return nil
		}

		delay := settings.Delay()
		if cmd.Flags().Changed("delay") {
			delay = scrapeDelay
		}

		manager := scrape.NewManager(settings, newClient(), logScrapeEvent(log))
		scraped, summary, err := manager.Scrape(ctx, result.Missing, delay)
		if err != nil {
			if !scrape.IsCancelled(err) {
				return err
			}
			log.Warn("Scrape interrupted", "fetched", len(summary.Results), "missing", len(result.Missing))
		}

		summary.WriteTable(cmd.OutOrStdout())

		if scraped.Len() == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No hymns were scraped. Nothing to save.")
			return nil
		}
		if scrapeDryRun {
			fmt.Fprintln(cmd.OutOrStdout(), "[Dry run - not saving]")
			return nil
		}
		if !scrapeYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Save %d scraped hymns to %s?", scraped.Len(), path)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Changes discarded.")
			return nil
		}

		merged := store.Merge(collection, scraped)
		// The write goes ahead even after an interrupt.
		saved, err := store.Save(context.WithoutCancel(ctx), path, merged)
		if err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		if saved.BackupErr != nil {
			log.Warn("Could not create backup", "error", saved.BackupErr.Error())
		} else if saved.BackupPath != "" {
			log.Info("Backup created", "path", saved.BackupPath)
		}
		log.Info("Collection saved", "path", path, "hymns", saved.Written)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().DurationVar(&scrapeDelay, "delay", time.Second, "pause between page requests (default from config)")
	scrapeCmd.Flags().BoolVarP(&scrapeYes, "yes", "y", false, "save without asking")
	scrapeCmd.Flags().BoolVar(&scrapeDryRun, "dry-run", false, "fetch and report without saving")
}
