package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/planner-api-go/pkg/config"
	"github.com/spf13/cobra"
)

func main() {
	config.LoadEnvFiles()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "plannerctl",
		Short:         "Operator tools for the study planner API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newKeyCmd(), newPlanCmd())
	return cmd
}
