package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hardbound/internal/ipc"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the public book catalogs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Search(query)
				if err != nil {
					return fmt.Errorf("search: %w", err)
				}
				if len(resp.Books) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No matches for %q\n", query)
					return nil
				}

				rows := make([][]string, 0, len(resp.Books))
				for i, book := range resp.Books {
					year := ""
					if book.FirstPublish > 0 {
						year = strconv.Itoa(book.FirstPublish)
					}
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						book.Title,
						strings.Join(book.Authors, ", "),
						year,
						book.ISBN13,
						book.Source,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Title", "Authors", "Year", "ISBN-13", "Source"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
				return nil
			})
		},
	}
}
