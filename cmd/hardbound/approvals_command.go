package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"hardbound/internal/ipc"
)

func newApprovalsCommand(ctx *commandContext) *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:   "approvals",
		Short: "List approval records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Approvals(statuses)
				if err != nil {
					return fmt.Errorf("list approvals: %w", err)
				}
				if len(resp.Approvals) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No approvals found")
					return nil
				}

				rows := make([][]string, 0, len(resp.Approvals))
				for _, entry := range resp.Approvals {
					record := entry.Record
					selected := record.Selected.Title
					if selected == "" {
						selected = "-"
					}
					size := "-"
					if record.Selected.Size > 0 {
						size = humanize.Bytes(uint64(record.Selected.Size))
					}
					rows = append(rows, []string{
						entry.ID,
						record.BookTitle,
						string(record.RequestType),
						string(record.Status),
						selected,
						size,
						record.UserID,
						humanize.Time(record.CreatedAt),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Book", "Type", "Status", "Selected", "Size", "User", "Created"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (pending, approved, denied, completed)")
	return cmd
}
