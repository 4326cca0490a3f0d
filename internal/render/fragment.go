package render

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/ziadkadry99/docportal/internal/fetch"
	"github.com/ziadkadry99/docportal/internal/page"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment inlines a local HTML or markdown document into the content
// area. Scripts are dropped and relative images are re-pointed at the
// document's asset directory.
type Fragment struct {
	Fetcher fetch.Fetcher
	Images  ImageRewriter

	md goldmark.Markdown
}

// NewFragment returns a fragment renderer with markdown support.
func NewFragment(f fetch.Fetcher, images ImageRewriter) *Fragment {
	return &Fragment{
		Fetcher: f,
		Images:  images,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				ghtml.WithUnsafe(),
			),
		),
	}
}

func (r *Fragment) Render(ctx context.Context, locator string) (*page.Fragment, error) {
	data, err := r.Fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	if isMarkdown(locator) && r.md != nil {
		var buf bytes.Buffer
		if err := r.md.Convert(data, &buf); err != nil {
			return nil, fmt.Errorf("converting markdown: %w", err)
		}
		data = buf.Bytes()
	}

	holder := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(bytes.NewReader(data), holder)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}

	content := page.Elem("div", "class", "html-content")
	for _, n := range nodes {
		content.AppendChild(n)
	}
	wrapper := page.Append(page.Elem("div", "class", "content-page"), content)

	sel := goquery.NewDocumentFromNode(wrapper).Selection
	sel.Find("script").Remove()
	if r.Images != nil {
		sel.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
			src, _ := img.Attr("src")
			img.SetAttr("src", r.Images.RewriteImage(locator, src))
		})
	}

	return &page.Fragment{Kind: "fragment", Nodes: []*html.Node{wrapper}, Style: fragmentCSS}, nil
}

func (r *Fragment) Failure(locator string, err error) *page.Fragment {
	return failure("fragment", "content-page", "This page could not be displayed. Please try again later.")
}

func isMarkdown(locator string) bool {
	if i := strings.IndexAny(locator, "?#"); i >= 0 {
		locator = locator[:i]
	}
	switch strings.ToLower(path.Ext(locator)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
