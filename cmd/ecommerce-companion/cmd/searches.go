package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func searchesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "searches [query]...",
		Short: "View or replace the saved auto searches",
		Long: "With no arguments, prints the saved searches that `lots search`\n" +
			"runs. With arguments, replaces the saved list.",
		Example: `  ecommerce-companion searches
  ecommerce-companion searches "makeup bundle joblot" "nail polish job lot"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if len(args) > 0 {
				if err := a.store.UpdateAutoSearches(ctx, args); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "searches updated")
				return nil
			}

			searches, err := a.store.AutoSearches(ctx)
			if err != nil {
				return err
			}
			if len(searches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no searches found")
				return nil
			}
			for _, s := range searches {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}
