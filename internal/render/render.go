// Package render builds the content-area subtrees for each kind of
// portal content: paged documents, videos, embedded frames and local
// HTML or markdown fragments.
package render

import (
	"errors"

	"github.com/ziadkadry99/docportal/internal/page"
	"golang.org/x/net/html"
)

var (
	// ErrRetrieval wraps any failure to obtain a locator's bytes.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrNoPages is returned for documents that parse but have no pages.
	ErrNoPages = errors.New("document has no pages")
)

// failure builds a single in-place error message inside the usual
// wrapper for kind.
func failure(kind, wrapperClass, message string) *page.Fragment {
	msg := page.Append(page.Elem("p", "class", "error-message", "role", "alert"), page.Text(message))
	return &page.Fragment{
		Kind:  kind,
		Nodes: []*html.Node{page.Append(page.Elem("div", "class", wrapperClass), msg)},
		Style: errorCSS,
	}
}
