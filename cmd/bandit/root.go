package main

import "github.com/spf13/cobra"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bandit",
		Short:         "Run and plot contextual bandit experiments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newTrainCommand(),
		newPlotCommand(),
	)

	return cmd
}
