package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newSongsCommand(ctx *commandContext) *cobra.Command {
	songsCmd := &cobra.Command{
		Use:   "songs",
		Short: "Look up song metadata on Genius",
	}

	songsCmd.AddCommand(newSongsSearchCommand(ctx))
	songsCmd.AddCommand(newSongsShowCommand(ctx))

	return songsCmd
}

func newSongsSearchCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search Genius for songs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}
			client, err := ctx.geniusClient()
			if err != nil {
				return err
			}
			hits, err := client.Search(cmd.Context(), normalizeQuery(args[0]))
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(hits))
			for _, hit := range hits {
				rows = append(rows, []string{
					strconv.FormatInt(hit.ID, 10),
					hit.Type,
					hit.FullTitle,
				})
			}
			jsonRows := make([]map[string]any, 0, len(hits))
			for _, hit := range hits {
				jsonRows = append(jsonRows, map[string]any{
					"id":         hit.ID,
					"type":       hit.Type,
					"full_title": hit.FullTitle,
				})
			}
			return writeListing(cmd, format, []string{"ID", "Type", "Title"}, rows, jsonRows)
		},
	}

	addFormatFlag(cmd, &formatFlag)
	return cmd
}

func newSongsShowCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <song-id>",
		Short: "Show a Genius song record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			songID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("song id must be numeric: %q", args[0])
			}
			client, err := ctx.geniusClient()
			if err != nil {
				return err
			}
			song, err := client.GetSong(cmd.Context(), songID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:    %s\n", song.Title)
			fmt.Fprintf(out, "Artists:  %s\n", song.ArtistNames)
			if song.ReleaseDate != nil {
				fmt.Fprintf(out, "Released: %s\n", song.ReleaseDate.Format(time.DateOnly))
			}
			if song.URL != "" {
				fmt.Fprintf(out, "URL:      %s\n", song.URL)
			}
			if song.Description != "" {
				fmt.Fprintf(out, "\n%s\n", song.Description)
			}
			return nil
		},
	}
	return cmd
}
