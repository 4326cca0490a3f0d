package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docportal/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docportal configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to describe where the catalog and content live and writes a .docportal.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
