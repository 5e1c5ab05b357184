package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"hardbound/internal/ipc"
)

func newRequestCommand(ctx *commandContext) *cobra.Command {
	var userID string
	var author string
	var requestType string

	cmd := &cobra.Command{
		Use:   "request <title>",
		Short: "Open a book request and queue it for admin approval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Request(ipc.RequestRequest{
					UserID: userID,
					Title:  args[0],
					Author: author,
					Type:   requestType,
				})
				if err != nil {
					return fmt.Errorf("open request: %w", err)
				}

				out := cmd.OutOrStdout()
				if resp.Merged {
					fmt.Fprintf(out, "Merged into existing approval %s (%s already requested)\n",
						resp.ApprovalID, resp.Book.Title)
					return nil
				}

				fmt.Fprintf(out, "Opened approval %s for %q\n", resp.ApprovalID, resp.Book.Title)
				rows := make([][]string, 0, len(resp.Candidates))
				for i, candidate := range resp.Candidates {
					rows = append(rows, []string{
						strconv.Itoa(i),
						candidate.Title,
						strconv.Itoa(candidate.Seeders),
						humanize.Bytes(uint64(candidate.Size)),
						candidate.Indexer,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Release", "Seeders", "Size", "Indexer"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft}))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Requesting user id")
	cmd.Flags().StringVar(&author, "author", "", "Author to narrow the catalog lookup")
	cmd.Flags().StringVar(&requestType, "type", "ebook", "Request type: ebook or audiobook")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
