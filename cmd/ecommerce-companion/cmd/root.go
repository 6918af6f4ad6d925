// Package cmd implements the ecommerce-companion CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "ecommerce-companion",
		Short: "Appraise marketplace job lots for resale value",
		Long: "ecommerce-companion appraises \"job lot\" bundles sold on eBay.\n" +
			"It extracts the items a lot contains, searches for comparable\n" +
			"listings, estimates a resale value per item, and rates each lot\n" +
			"by expected profit.",
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initEnv)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "config.yaml", "config file path")
	cobra.CheckErr(viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")))

	rootCmd.AddCommand(lotsCommand())
	rootCmd.AddCommand(appraiseCommand())
	rootCmd.AddCommand(searchesCommand())
	rootCmd.AddCommand(versionCommand())
}

func initEnv() {
	viper.SetEnvPrefix("ECOMP")
	viper.AutomaticEnv()
}

func configPath() string {
	if path := viper.GetString("config"); path != "" {
		return path
	}
	return cfgFile
}
