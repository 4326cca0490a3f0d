package render

import (
	"context"

	"github.com/ziadkadry99/docportal/internal/page"
	"golang.org/x/net/html"
)

// frameFeatures is the permission list granted to embedded pages.
const frameFeatures = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"

// Frame embeds a page in a full-bleed iframe. The frame's document is
// never inspected; it may be cross-origin.
type Frame struct {
	Links page.Linker
}

func (f *Frame) Render(ctx context.Context, locator string) (*page.Fragment, error) {
	iframe := page.Elem("iframe",
		"src", f.Links.Href(locator),
		"class", "embedded-content",
		"allowfullscreen", "",
		"allow", frameFeatures,
		"referrerpolicy", "no-referrer-when-downgrade",
	)
	wrapper := page.Append(page.Elem("div", "class", "content-page iframe-page"),
		page.Append(page.Elem("div", "class", "iframe-container"), iframe))

	return &page.Fragment{Kind: "frame", Nodes: []*html.Node{wrapper}, Style: frameCSS}, nil
}

func (f *Frame) Failure(locator string, err error) *page.Fragment {
	return failure("frame", "content-page iframe-page", "This page could not be embedded. Please try again later.")
}
