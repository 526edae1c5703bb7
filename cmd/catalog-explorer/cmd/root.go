// Package cmd implements the CLI commands for the catalog-explorer server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "catalog-explorer",
	Short: "Explore a retail product catalog API",
	Long: "catalog-explorer serves a web UI and JSON API over a retail product\n" +
		"catalog: keyword search, SKU-list lookup, and category browse, with\n" +
		"CSV export of the normalized results.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
