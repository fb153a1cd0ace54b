package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lutherald/hymnscan/internal/audio"
	"github.com/lutherald/hymnscan/internal/store"
	"github.com/spf13/cobra"
)

var (
	audioDir      string
	audioPlaylist bool
)

var audioCmd = &cobra.Command{
	Use:   "audio [file]",
	Short: "Download and tag the recordings linked from the collection",
	Long: `Download the recording of every hymn that has an "audiofile" link into a
local directory, write ID3 tags (title, number, hymnal, lyrics) and
optionally a playlist. Files already present with the right size are kept.

Examples:
  hymnscan audio --dir hymns
  hymnscan audio tlh.json --playlist`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := collectionPath(args)

		collection, err := store.Load(path)
		if err != nil {
			log.Error("Could not load collection", "path", path, "error", err.Error())
			return nil
		}

		if audioDir != "" {
			settings.AudioDir = audioDir
		}
		if audioPlaylist {
			settings.CreatePlaylist = true
		}

		mirror := audio.NewMirror(settings, newClient(), logAudioEvent(log))
		report, err := mirror.Run(cmd.Context(), collection)
		if report != nil {
			writeFailures(cmd, report)
		}
		if err != nil {
			return err
		}

		if report.PlaylistPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Playlist: %s\n", report.PlaylistPath)
		}
		return nil
	},
}

// writeFailures prints a table of the recordings that could not be mirrored.
func writeFailures(cmd *cobra.Command, report *audio.Report) {
	if report.Count(audio.StatusFailed) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Hymn", "URL", "Error"})
	for _, f := range report.Files {
		if f.Status != audio.StatusFailed {
			continue
		}
		t.AppendRow(table.Row{int(f.Number), f.URL, f.Err})
	}
	t.Render()
}

func init() {
	audioCmd.Flags().StringVar(&audioDir, "dir", "", "download directory (default from config)")
	audioCmd.Flags().BoolVar(&audioPlaylist, "playlist", false, "write a playlist of the mirrored files")
}
