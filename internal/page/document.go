// Package page models the portal's single page: a title region, the
// content area, and the style blocks injected for the current view.
package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// styleMarker tags style blocks owned by the current view.
const styleMarker = "data-view-style"

// Fragment is a detached subtree ready to be placed in the content area.
type Fragment struct {
	// Kind names the view for its style block ("pdf", "video", ...).
	Kind  string
	Nodes []*html.Node
	// Style is CSS injected while the fragment is displayed.
	Style string
}

// Document is one session's page. It is not safe for concurrent use; the
// navigation controller serialises access.
type Document struct {
	title    string
	head     *html.Node
	area     *html.Node
	redirect string
	version  uint64
}

// New returns an empty document.
func New() *Document {
	return &Document{
		head: Elem("head"),
		area: Elem("div", "id", "content-area"),
	}
}

// SetTitle updates the title region.
func (d *Document) SetTitle(title string) { d.title = title }

// Title returns the title region text.
func (d *Document) Title() string { return d.title }

// Version changes every time the content area is replaced.
func (d *Document) Version() uint64 { return d.version }

// Replace removes the previous content and injected styles, then inserts f.
func (d *Document) Replace(f *Fragment) {
	d.clear()
	if f == nil {
		return
	}
	if f.Style != "" {
		style := Elem("style", styleMarker, f.Kind)
		style.AppendChild(Text(f.Style))
		d.head.AppendChild(style)
	}
	Append(d.area, f.Nodes...)
}

func (d *Document) clear() {
	removeChildren(d.area)
	for c := d.head.FirstChild; c != nil; {
		next := c.NextSibling
		if _, ok := Attr(c, styleMarker); ok {
			d.head.RemoveChild(c)
		}
		c = next
	}
	d.version++
}

// Redirect asks the browser to leave the portal for url.
func (d *Document) Redirect(url string) { d.redirect = url }

// TakeRedirect returns and clears the pending redirect.
func (d *Document) TakeRedirect() string {
	r := d.redirect
	d.redirect = ""
	return r
}

// Area returns the content area as a goquery selection.
func (d *Document) Area() *goquery.Selection {
	return goquery.NewDocumentFromNode(d.area).Selection
}

// ContentHTML renders the children of the content area.
func (d *Document) ContentHTML() string {
	return renderChildren(d.area)
}

// StylesHTML renders the injected style blocks.
func (d *Document) StylesHTML() string {
	return renderChildren(d.head)
}

// StyleKinds lists the kinds of the injected style blocks.
func (d *Document) StyleKinds() []string {
	var kinds []string
	for c := d.head.FirstChild; c != nil; c = c.NextSibling {
		if k, ok := Attr(c, styleMarker); ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func renderChildren(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		// Rendering to a strings.Builder cannot fail.
		_ = html.Render(&b, c)
	}
	return b.String()
}
