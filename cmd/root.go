package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pconsole",
	Short: "Operational console and schema dictionary for a customer data platform",
	Long: `pconsole connects to a customer data platform org, crawls its schema
registry into a flattened field dictionary, and serves an operational
dashboard over datasets, ingestion batches, segments and dataflows. It
also exposes the dictionary to AI agents via MCP.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".pconsole.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
