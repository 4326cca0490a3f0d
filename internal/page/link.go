package page

import (
	"net/url"
	"strings"
)

// Linker maps content locators to the URLs the browser should load.
// Remote locators pass through; local ones are served under Prefix.
type Linker struct {
	Prefix string
}

// Href returns the browser-facing URL for locator.
func (l Linker) Href(locator string) string {
	lower := strings.ToLower(locator)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(locator, "/") || strings.HasPrefix(lower, "data:") {
		return locator
	}
	prefix := l.Prefix
	if prefix == "" {
		prefix = "/"
	}
	locator = strings.TrimPrefix(locator, "./")

	var query string
	if i := strings.IndexAny(locator, "?#"); i >= 0 {
		locator, query = locator[:i], locator[i:]
	}
	segs := strings.Split(locator, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return prefix + strings.Join(segs, "/") + query
}
