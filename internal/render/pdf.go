package render

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/ledongthuc/pdf"
	"github.com/ziadkadry99/docportal/internal/fetch"
	"github.com/ziadkadry99/docportal/internal/page"
	"golang.org/x/net/html"
)

// PageCounter reports how many pages a paged document has.
type PageCounter interface {
	CountPages(data []byte) (int, error)
}

// PDFPages counts pages with the ledongthuc/pdf reader.
type PDFPages struct{}

func (PDFPages) CountPages(data []byte) (n int, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("opening pdf: %w", err)
	}
	return r.NumPage(), nil
}

// PDF lays out one canvas per page, in page order, inside a scrollable
// container. The shell script paints the canvases.
type PDF struct {
	Fetcher fetch.Fetcher
	Pages   PageCounter
	Links   page.Linker
}

func (p *PDF) Render(ctx context.Context, locator string) (*page.Fragment, error) {
	data, err := p.Fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}
	n, err := p.Pages.CountPages(data)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, ErrNoPages
	}

	container := page.Elem("div",
		"id", "pdf-content",
		"class", "pdf-container",
		"data-src", p.Links.Href(locator),
		"data-pages", strconv.Itoa(n),
	)
	for i := 1; i <= n; i++ {
		container.AppendChild(page.Elem("canvas", "class", "pdf-page-canvas", "data-page", strconv.Itoa(i)))
	}

	return &page.Fragment{
		Kind:  "pdf",
		Nodes: []*html.Node{page.Append(page.Elem("div", "class", "content-page pdf-page"), container)},
		Style: pdfCSS,
	}, nil
}

func (p *PDF) Failure(locator string, err error) *page.Fragment {
	f := failure("pdf", "content-page pdf-page", "Error loading PDF. Please try again later.")
	// Keep the container so the message sits where the pages would have.
	wrapper := f.Nodes[0]
	msg := wrapper.FirstChild
	wrapper.RemoveChild(msg)
	page.Append(wrapper, page.Append(page.Elem("div", "id", "pdf-content", "class", "pdf-container"), msg))
	return f
}
