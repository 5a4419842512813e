// Package cmd implements the CLI commands for the relister server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "relister",
	Short: "Turn photo dumps into marketplace listings",
	Long: "An API-first service that groups uploaded photos by SKU, analyzes each " +
		"group with an AI vision model, and produces normalized, ready-to-post " +
		"marketplace listings.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
