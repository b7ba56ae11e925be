package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dviselman/pconsole/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pconsole configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to connect pconsole to your platform org and writes a .pconsole.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
