package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/improc"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "improc",
		Short:         "Convolve images with configurable border handling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose {
				improc.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug records to stderr")

	cmd.AddCommand(
		newConvolveCmd(),
		newIterateCmd(),
		newBatchCmd(),
		newPoliciesCmd(),
		newKernelsCmd(),
	)
	cmd.SetOut(os.Stdout)
	return cmd
}
