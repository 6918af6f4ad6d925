package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yusefshaaban/Ecommerce-Companion/internal/ebay"
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

func appraiseCommand() *cobra.Command {
	var condition string
	var quantity float64

	cmd := &cobra.Command{
		Use:   "appraise <name>...",
		Short: "Estimate resale value for items by name",
		Long: "Appraises one or more items directly from their names, without\n" +
			"a lot around them. Prints the estimate per item; nothing is stored.",
		Example: `  ecommerce-companion appraise "Bluesky Gel Polish 10 ml"
  ecommerce-companion appraise --condition USED "Avon Glimmerstick"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if condition != ebay.ConditionNew && condition != ebay.ConditionUsed {
				return fmt.Errorf("condition must be %s or %s", ebay.ConditionNew, ebay.ConditionUsed)
			}

			for _, name := range args {
				item := domain.NewItem(name, "", name, quantity)
				if err := a.engine.ProcessItem(cmd.Context(), item, condition); err != nil {
					return fmt.Errorf("appraising %q: %w", name, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), item)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&condition, "condition", ebay.ConditionNew, "item condition (NEW or USED)")
	cmd.Flags().Float64Var(&quantity, "quantity", 1, "quantity per item")

	return cmd
}
