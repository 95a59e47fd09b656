package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"librarian/internal/vinyl"
)

func newVinylCommand(ctx *commandContext) *cobra.Command {
	vinylCmd := &cobra.Command{
		Use:   "vinyl",
		Short: "Inventory the library's vinyl record collection",
	}

	vinylCmd.AddCommand(newVinylAddCommand(ctx))
	vinylCmd.AddCommand(newVinylMultiAddCommand(ctx))
	vinylCmd.AddCommand(newVinylListCommand(ctx))
	vinylCmd.AddCommand(newVinylSearchCommand(ctx))
	vinylCmd.AddCommand(newVinylUpdateArtistsCommand(ctx))

	return vinylCmd
}

func newVinylAddCommand(ctx *commandContext) *cobra.Command {
	var isbn string
	var releaseID int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a vinyl record by ISBN or Discogs release id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isbn == "" && releaseID == 0 {
				value, err := promptForValue(cmd, "ISBN or Discogs release id")
				if err != nil {
					return err
				}
				if id, convErr := strconv.ParseInt(value, 10, 64); convErr == nil && len(value) < 10 {
					releaseID = id
				} else {
					isbn = value
				}
			}
			return ctx.withVinyl(func(service *vinyl.Service) error {
				var result *vinyl.AddResult
				var err error
				if releaseID != 0 {
					result, err = service.AddByReleaseID(cmd.Context(), releaseID)
				} else {
					result, err = service.AddByISBN(cmd.Context(), isbn)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q (id %d, %d tracks)\n",
					result.Record.Title, result.Record.ID, len(result.Tracks))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN printed on the record's barcode")
	cmd.Flags().Int64Var(&releaseID, "release-id", 0, "Discogs release id")
	cmd.MarkFlagsMutuallyExclusive("isbn", "release-id")
	return cmd
}

func newVinylMultiAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "multi-add",
		Short: "Add records for newline-separated ISBNs read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			isbns, err := readIdentifiers(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if len(isbns) == 0 {
				return fmt.Errorf("no ISBNs on stdin")
			}
			return ctx.withVinyl(func(service *vinyl.Service) error {
				for _, isbn := range isbns {
					result, err := service.AddByISBN(cmd.Context(), isbn)
					if err != nil {
						return fmt.Errorf("add %s: %w", isbn, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added %q (id %d)\n", result.Record.Title, result.Record.ID)
				}
				return nil
			})
		},
	}
}

func newVinylListCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the vinyl collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}
			return ctx.withVinyl(func(service *vinyl.Service) error {
				listings, err := service.List(cmd.Context())
				if err != nil {
					return err
				}
				return writeVinylListings(cmd, format, listings)
			})
		},
	}

	addFormatFlag(cmd, &formatFlag)
	return cmd
}

func newVinylSearchCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search record titles and artist names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}
			query := normalizeQuery(args[0])
			return ctx.withVinyl(func(service *vinyl.Service) error {
				listings, err := service.Search(cmd.Context(), query)
				if err != nil {
					return err
				}
				return writeVinylListings(cmd, format, listings)
			})
		},
	}

	addFormatFlag(cmd, &formatFlag)
	return cmd
}

func newVinylUpdateArtistsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update-artists",
		Short: "Refresh stored artists with full Discogs records and band membership",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVinyl(func(service *vinyl.Service) error {
				updated, err := service.UpdateArtists(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d artists\n", updated)
				return nil
			})
		},
	}
}

func writeVinylListings(cmd *cobra.Command, format outputFormat, listings []vinyl.Listing) error {
	rows := make([][]string, 0, len(listings))
	for _, listing := range listings {
		rows = append(rows, []string{
			fmt.Sprintf("%d", listing.ID),
			listing.Title,
			formatYear(listing.Year),
			listing.Artists,
		})
	}
	return writeListing(cmd, format, []string{"ID", "Title", "Year", "Artists"}, rows, listings)
}
