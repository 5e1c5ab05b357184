package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hardbound/internal/daemon"
	"hardbound/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return fmt.Errorf("fetch status: %w", err)
				}
				status := resp.Status

				rows := [][]string{
					{"Running", yesNo(status.Running)},
					{"PID", strconv.Itoa(status.PID)},
					{"Socket", status.SocketPath},
					{"Category", status.Category},
					{"Poll interval", fmt.Sprintf("%ds", status.PollSeconds)},
					{"Pending approvals", strconv.Itoa(status.PendingApprovals)},
					{"Processed jobs", strconv.Itoa(status.ProcessedJobs)},
					{"Media library", libraryCell(status)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Field", "Value"}, rows,
					[]columnAlignment{alignLeft, alignLeft}))
				return nil
			})
		},
	}
}

func libraryCell(status daemon.Status) string {
	switch {
	case !status.LibraryConfigured:
		return "not configured"
	case !status.LibraryReachable:
		return "unreachable"
	case status.LibraryName != "":
		return status.LibraryName
	default:
		return "reachable"
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
