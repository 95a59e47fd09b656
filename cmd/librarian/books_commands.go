package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"librarian/internal/books"
)

func newBooksCommand(ctx *commandContext) *cobra.Command {
	booksCmd := &cobra.Command{
		Use:   "books",
		Short: "Inventory the library's book collection",
	}

	booksCmd.AddCommand(newBooksAddCommand(ctx))
	booksCmd.AddCommand(newBooksMultiAddCommand(ctx))
	booksCmd.AddCommand(newBooksListCommand(ctx))
	booksCmd.AddCommand(newBooksSearchCommand(ctx))

	return booksCmd
}

func newBooksAddCommand(ctx *commandContext) *cobra.Command {
	var isbn string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the collection by ISBN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isbn == "" {
				value, err := promptForValue(cmd, "ISBN")
				if err != nil {
					return err
				}
				isbn = value
			}
			return ctx.withBooks(func(service *books.Service) error {
				result, err := service.AddByISBN(cmd.Context(), isbn)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q (id %d)\n", result.Book.Title, result.Book.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN of the book")
	return cmd
}

func newBooksMultiAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "multi-add",
		Short: "Add books for newline-separated ISBNs read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			isbns, err := readIdentifiers(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if len(isbns) == 0 {
				return fmt.Errorf("no ISBNs on stdin")
			}
			return ctx.withBooks(func(service *books.Service) error {
				for _, isbn := range isbns {
					result, err := service.AddByISBN(cmd.Context(), isbn)
					if err != nil {
						return fmt.Errorf("add %s: %w", isbn, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added %q (id %d)\n", result.Book.Title, result.Book.ID)
				}
				return nil
			})
		},
	}
}

func newBooksListCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the book collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}
			return ctx.withBooks(func(service *books.Service) error {
				listings, err := service.List(cmd.Context())
				if err != nil {
					return err
				}
				return writeBookListings(cmd, format, listings)
			})
		},
	}

	addFormatFlag(cmd, &formatFlag)
	return cmd
}

func newBooksSearchCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search book titles and author names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}
			query := normalizeQuery(args[0])
			return ctx.withBooks(func(service *books.Service) error {
				listings, err := service.Search(cmd.Context(), query)
				if err != nil {
					return err
				}
				return writeBookListings(cmd, format, listings)
			})
		},
	}

	addFormatFlag(cmd, &formatFlag)
	return cmd
}

func writeBookListings(cmd *cobra.Command, format outputFormat, listings []books.Listing) error {
	rows := make([][]string, 0, len(listings))
	for _, listing := range listings {
		rows = append(rows, []string{
			fmt.Sprintf("%d", listing.ID),
			listing.Title,
			listing.ISBN,
			listing.Authors,
		})
	}
	return writeListing(cmd, format, []string{"ID", "Title", "ISBN", "Authors"}, rows, listings)
}
