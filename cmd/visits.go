package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docportal/internal/visits"
)

var (
	popularLimit int
	pruneDays    int
)

var visitsCmd = &cobra.Command{
	Use:   "visits",
	Short: "Report on and maintain the navigation log",
}

var visitsPopularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List the most viewed items",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		top, err := visits.NewStore(database).Popular(cmd.Context(), popularLimit)
		if err != nil {
			return err
		}
		if len(top) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No page views recorded.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VIEWS\tSECTION\tTITLE\tLOCATOR")
		for _, p := range top {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.Views, p.Section, p.Title, p.Item)
		}
		return w.Flush()
	},
}

var visitsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete navigation records older than --days",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pruneDays <= 0 {
			return fmt.Errorf("--days must be positive")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		cutoff := time.Now().AddDate(0, 0, -pruneDays)
		n, err := visits.NewStore(database).DeleteBefore(cmd.Context(), cutoff)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d records older than %s\n", n, cutoff.Format(time.DateOnly))
		return nil
	},
}

func init() {
	visitsPopularCmd.Flags().IntVar(&popularLimit, "limit", 10, "number of items to show")
	visitsPruneCmd.Flags().IntVar(&pruneDays, "days", 90, "keep records from the last N days")
	visitsCmd.AddCommand(visitsPopularCmd)
	visitsCmd.AddCommand(visitsPruneCmd)
	rootCmd.AddCommand(visitsCmd)
}
