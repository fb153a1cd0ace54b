package main

import (
	"context"
	"fmt"

	"github.com/lutherald/hymnscan/internal/store"
	"github.com/lutherald/hymnscan/internal/tlh"
	"github.com/spf13/cobra"
)

var (
	linksStrategy string
	linksPage     string
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Work with the recording links on the songs and hymns page",
}

var linksMergeCmd = &cobra.Command{
	Use:   "merge [file]",
	Short: "Attach recording URLs from the songs page to matching hymns",
	Long: `Fetch the songs and hymns listing, map each .mp3 link to a hymn number,
and store the URL in the "audiofile" field of every record whose title starts
with that number.

Strategies:
  sibling  the number is the text right before the link (default)
  suffix   the number is the first digit run in the file name`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := collectionPath(args)

		strategy, err := tlh.ParseLinkStrategy(linksStrategy)
		if err != nil {
			return err
		}

		collection, err := store.Load(path)
		if err != nil {
			log.Error("Could not load collection", "path", path, "error", err.Error())
			return nil
		}

		page, err := newClient().GetString(ctx, listingURL())
		if err != nil {
			log.Error("Could not fetch songs page", "url", listingURL(), "error", err.Error())
			return nil
		}

		links, err := tlh.LinkIndex(page, strategy)
		if err != nil {
			log.Error("No recording links found", "url", listingURL(), "error", err.Error())
			return nil
		}
		log.Info("Recording links indexed", "links", len(links), "strategy", strategy.String())

		updated := tlh.ApplyAudioLinks(&collection, links)
		if updated == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No hymn in the collection matched a recording link.")
			return nil
		}

		saved, err := store.Save(context.WithoutCancel(ctx), path, collection)
		if err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		if saved.BackupErr != nil {
			log.Warn("Could not create backup", "error", saved.BackupErr.Error())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Linked %d hymns to recordings in %s\n", updated, path)
		return nil
	},
}

var linksDuplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "List hrefs that appear more than once on the songs page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := newClient().GetString(cmd.Context(), listingURL())
		if err != nil {
			log.Error("Could not fetch songs page", "url", listingURL(), "error", err.Error())
			return nil
		}

		dups, err := tlh.DuplicateLinks(page)
		if err != nil {
			return err
		}
		if len(dups) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No duplicate links.")
			return nil
		}
		for _, href := range dups {
			fmt.Fprintln(cmd.OutOrStdout(), href)
		}
		return nil
	},
}

func listingURL() string {
	if linksPage != "" {
		return linksPage
	}
	return settings.SongsPageURL
}

func init() {
	linksCmd.PersistentFlags().StringVar(&linksPage, "page", "", "songs page URL (default from config)")
	linksMergeCmd.Flags().StringVar(&linksStrategy, "strategy", tlh.StrategySibling.String(), "how links map to hymn numbers: sibling or suffix")

	linksCmd.AddCommand(linksMergeCmd, linksDuplicatesCmd)
}
