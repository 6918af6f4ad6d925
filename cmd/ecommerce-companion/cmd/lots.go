package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func lotsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lots",
		Short: "Find and appraise job lots",
	}
	cmd.AddCommand(lotsSearchCommand())
	cmd.AddCommand(lotsLinkCommand())
	cmd.AddCommand(lotsImageCommand())
	return cmd
}

func lotsSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Appraise lots found by an eBay search",
		Long: "Searches eBay for job lots and appraises each unseen result.\n" +
			"With no query, every saved search is run and the working set is\n" +
			"rebuilt from scratch.",
		Example: `  ecommerce-companion lots search "makeup bundle joblot"
  ecommerce-companion lots search`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if len(args) == 0 {
				err = a.creator.FromAutoSearches(ctx)
			} else {
				err = a.creator.FromSearch(ctx, args[0])
			}
			if err != nil {
				return err
			}
			return writeReport(cmd, a)
		},
	}
}

func lotsLinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "link <url>...",
		Short: "Appraise lots from direct eBay listing links",
		Example: `  ecommerce-companion lots link "https://www.ebay.co.uk/itm/267075364121"
  ecommerce-companion lots link url1,url2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			for _, arg := range args {
				for _, link := range strings.Split(arg, ",") {
					if link = strings.TrimSpace(link); link == "" {
						continue
					}
					if err := a.creator.FromLink(cmd.Context(), link); err != nil {
						return err
					}
				}
			}
			return writeReport(cmd, a)
		},
	}
}

func lotsImageCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "image <path>...",
		Short:   "Appraise lots photographed locally",
		Example: `  ecommerce-companion lots image ./haul.jpeg`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			for _, path := range args {
				if err := a.creator.FromImage(cmd.Context(), path); err != nil {
					return err
				}
			}
			return writeReport(cmd, a)
		},
	}
}

func writeReport(cmd *cobra.Command, a *app) error {
	path, err := a.store.WriteReport(cmd.Context())
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "report written to", path)
	return nil
}
