package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docportal/internal/check"
	"github.com/ziadkadry99/docportal/internal/progress"
	"github.com/ziadkadry99/docportal/internal/render"
)

var (
	checkWorkers int
	checkRemote  bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that every catalog item can be retrieved",
	Long: `Fetches every local item in the catalog and reports the ones that are
missing or unreadable. PDFs must also have at least one page. External
links are never fetched; remote pages only with --remote.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		c := &check.Checker{
			Fetcher:  newFetcher(cfg),
			Pages:    render.PDFPages{},
			Reporter: progress.NewReporter(os.Stderr, "Checking catalog"),
			Workers:  checkWorkers,
			Remote:   checkRemote,
		}
		res, err := c.Run(cmd.Context(), cat)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range res.Problems {
			fmt.Fprintln(out, p)
		}
		fmt.Fprintf(out, "%d checked, %d skipped, %d problems\n", res.Checked, res.Skipped, len(res.Problems))
		if !res.OK() {
			return fmt.Errorf("%d catalog items failed", len(res.Problems))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().IntVar(&checkWorkers, "workers", 4, "concurrent retrievals")
	checkCmd.Flags().BoolVar(&checkRemote, "remote", false, "also fetch remote (http) pages")
	rootCmd.AddCommand(checkCmd)
}
