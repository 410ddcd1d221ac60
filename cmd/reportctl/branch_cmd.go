package main

import (
	"github.com/spf13/cobra"
)

func newNavigationCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "navigation",
		Short: "Print the navigation entries visible to the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newAPIClient(opts, true)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts)
			defer cancel()

			items, err := c.Navigation(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), items)
		},
	}
}

func newBranchesCmd(opts *globalOptions) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "branches",
		Short: "List the branches the signed-in user can access",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newAPIClient(opts, true)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts)
			defer cancel()

			if tree {
				h, err := c.BranchHierarchy(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), h)
			}
			branches, err := c.Branches(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), branches)
		},
	}
	cmd.Flags().BoolVar(&tree, "tree", false, "print the hierarchy with parent links")

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Reload the branch hierarchy cache (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newAPIClient(opts, true)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd, opts)
			defer cancel()

			h, err := c.RefreshHierarchy(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), h)
		},
	})
	return cmd
}
