package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docportal/internal/catalog"
	"github.com/ziadkadry99/docportal/internal/dispatch"
	"github.com/ziadkadry99/docportal/internal/nav"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the content catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sections and items with how each would be shown",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SECTION\tKIND\tTITLE\tLOCATOR")
		for _, sec := range cat.Sections() {
			name := sec.Key
			if sec.Key == cat.Default().Key {
				name += " (default)"
			}
			if len(sec.Items) == 0 {
				fmt.Fprintf(w, "%s\t-\t%s\t\n", name, sec.Title)
			}
			for _, it := range sec.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, dispatch.Classify(it.Locator, it.External), it.Title, it.Locator)
			}
		}
		return w.Flush()
	},
}

var catalogResolveCmd = &cobra.Command{
	Use:   "resolve <fragment>",
	Short: "Show what a deep link such as #hr/Apply%20Leave opens",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		sec, it := resolveFragment(cat, args[0])
		if it == nil {
			fmt.Fprintf(out, "section %s: %s\n", sec.Key, sec.Title)
			return nil
		}

		kind := dispatch.Classify(it.Locator, it.External)
		fmt.Fprintf(out, "section %s, item %s (%s)\n", sec.Key, it.Locator, kind)
		fmt.Fprintf(out, "title: %s\n", dispatch.Title(sec, it))
		if kind == dispatch.Redirect {
			fmt.Fprintf(out, "redirects to: %s\n", dispatch.ResolveRedirect(it.Locator, cfg.RedirectParams))
		}
		return nil
	},
}

// resolveFragment maps a URL fragment to the section and item a deep link
// opens. Unknown sections fall back to the default and ignore the slug.
func resolveFragment(cat *catalog.Catalog, fragment string) (*catalog.Section, *catalog.Item) {
	key, slug := nav.ParseFragment(fragment)
	sec, ok := cat.Section(key)
	if !ok {
		return cat.Default(), nil
	}
	it, ok := cat.ResolveSlug(sec.Key, slug)
	if !ok {
		return sec, nil
	}
	return sec, it
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogResolveCmd)
	rootCmd.AddCommand(catalogCmd)
}
