package main

import (
	"fmt"

	"github.com/arnavshah/planner-api-go/pkg/auth"
	"github.com/spf13/cobra"
)

func newKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key <userID>",
		Short: "Print the API key of a user (needs API_MASTER_SECRET)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := auth.GenerateHMACKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated Key for %s:\n%s\n", args[0], key)
			return nil
		},
	}
}
