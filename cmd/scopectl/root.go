package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scopectl",
		Short:         "Inspect scope resolution and rankings from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newDescendantsCmd())
	cmd.AddCommand(newRankCmd())
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
