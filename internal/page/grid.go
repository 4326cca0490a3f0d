package page

import (
	"github.com/ziadkadry99/docportal/internal/catalog"
	"golang.org/x/net/html"
)

// ShowSection replaces the content area with the section's card grid.
func (d *Document) ShowSection(sec *catalog.Section, links Linker) {
	d.Replace(&Fragment{
		Kind:  "section",
		Nodes: []*html.Node{SectionGrid(sec, links)},
	})
}

// SectionGrid builds the card grid for a section.
func SectionGrid(sec *catalog.Section, links Linker) *html.Node {
	grid := Elem("div", "class", "metrics-container", "data-section", sec.Key)
	for _, it := range sec.Items {
		box := Elem("div", "class", "metric-box", "data-page", it.Locator, "data-section", sec.Key)
		if it.External {
			box.Attr = append(box.Attr, html.Attribute{Key: "data-external", Val: "true"})
		}
		if it.Image != "" {
			Append(box, Append(Elem("div", "class", "metric-image"),
				Elem("img", "src", links.Href(it.Image), "alt", it.Title)))
		}
		Append(box, Append(Elem("h3"), Text(it.Title)))
		if it.Description != "" {
			Append(box, Append(Elem("div", "class", "metric-content"),
				Append(Elem("p"), Text(it.Description))))
		}
		grid.AppendChild(box)
	}
	return grid
}
