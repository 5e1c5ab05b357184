package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hardbound/internal/ipc"
)

func newSelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <approval-id> <index>",
		Short: "Change the selected release on a pending approval",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index must be a number: %w", err)
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Select(args[0], index); err != nil {
					return fmt.Errorf("select candidate: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Selected candidate %d on %s\n", index, args[0])
				return nil
			})
		},
	}
}

func newApproveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <approval-id>",
		Short: "Approve a pending request and start the download",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Approve(args[0])
				if err != nil {
					return fmt.Errorf("approve: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Approved %s; download job %s\n", args[0], resp.DownloadJobID)
				return nil
			})
		},
	}
}

func newDenyCommand(ctx *commandContext) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "deny <approval-id>",
		Short: "Deny a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Deny(args[0], reason); err != nil {
					return fmt.Errorf("deny: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Denied %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason shown to the requester")
	return cmd
}
