// Package dispatch classifies content locators and hands them to the
// renderer for their kind.
package dispatch

import (
	"net/url"
	"path"
	"strings"

	"github.com/ziadkadry99/docportal/internal/catalog"
)

// Kind is the closed set of ways a locator can be shown.
type Kind int

const (
	// Redirect leaves the portal for the locator.
	Redirect Kind = iota + 1
	PDF
	Video
	// Embedded shows a remote page in a frame.
	Embedded
	// Fragment inlines a local document into the content area.
	Fragment
)

func (k Kind) String() string {
	switch k {
	case Redirect:
		return "redirect"
	case PDF:
		return "pdf"
	case Video:
		return "video"
	case Embedded:
		return "embedded"
	case Fragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Classify picks the kind for a locator. The first matching rule wins:
// external marker, .pdf path, .mp4 path, http(s) scheme, then local.
func Classify(locator string, external bool) Kind {
	if external {
		return Redirect
	}
	switch strings.ToLower(path.Ext(locatorPath(locator))) {
	case ".pdf":
		return PDF
	case ".mp4":
		return Video
	}
	if isHTTP(locator) {
		return Embedded
	}
	return Fragment
}

// ResolveRedirect unwraps tracking or SSO wrappers that carry the real
// destination in a query parameter. The first listed parameter holding
// an absolute http(s) URL, decoded at most one extra time, wins;
// otherwise locator is returned as is.
func ResolveRedirect(locator string, params []string) string {
	u, err := url.Parse(locator)
	if err != nil {
		return locator
	}
	q := u.Query()
	for _, p := range params {
		target := q.Get(p)
		if target == "" {
			continue
		}
		if absoluteHTTP(target) {
			return target
		}
		// Some wrappers encode the target twice.
		if once, err := url.QueryUnescape(target); err == nil && absoluteHTTP(once) {
			return once
		}
	}
	return locator
}

func absoluteHTTP(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Title returns "<section> - <item>" for item views and the section
// title alone otherwise.
func Title(sec *catalog.Section, item *catalog.Item) string {
	if sec == nil {
		return ""
	}
	if item == nil || item.Title == "" {
		return sec.Title
	}
	return sec.Title + " - " + item.Title
}

// locatorPath drops the query and fragment so suffix checks only see
// the path.
func locatorPath(locator string) string {
	if isHTTP(locator) {
		if u, err := url.Parse(locator); err == nil {
			return u.Path
		}
	}
	if i := strings.IndexAny(locator, "?#"); i >= 0 {
		return locator[:i]
	}
	return locator
}

func isHTTP(locator string) bool {
	lower := strings.ToLower(locator)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
