package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docportal/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docportal",
	Short: "Single-page portal for browsing a catalog of internal documents",
	Long: `docportal serves a single-page content portal. Sections of a catalog
appear in a sidebar, items open in the content area without leaving the
page, and the browser's back and forward buttons move through what was
viewed.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
