package catalog

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandGlobs appends to every section with a Glob the files of fsys that
// match it and are not already listed. Matches are added in lexical order.
func (c *Catalog) ExpandGlobs(fsys fs.FS) error {
	for _, s := range c.sections {
		if s.Glob == "" {
			continue
		}
		if !doublestar.ValidatePattern(s.Glob) {
			return fmt.Errorf("section %q: invalid glob %q", s.Key, s.Glob)
		}
		matches, err := doublestar.Glob(fsys, s.Glob, doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("section %q: expanding %q: %w", s.Key, s.Glob, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if s.find(m) != nil {
				continue
			}
			s.Items = append(s.Items, Item{
				Locator: m,
				Title:   formatName(Slug(m)),
			})
		}
	}
	return nil
}
