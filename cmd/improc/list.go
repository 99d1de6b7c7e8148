package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/improc"
	"github.com/gogpu/improc/kernel"
)

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List border policies",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, p := range improc.BorderPolicies() {
				marker := ""
				if p == improc.DefaultBorderPolicy {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s%s\n", p.Ordinal(), p, marker)
			}
		},
	}
}

func newKernelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kernels",
		Short: "List built-in kernels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range kernel.Names() {
				k, err := kernel.ByName(name, 1)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %dx%d sum=%g\n", name, k.Width(), k.Height(), kernel.Sum(k))
			}
			return nil
		},
	}
}
