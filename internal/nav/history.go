package nav

import (
	"net/url"
	"strings"

	"github.com/ziadkadry99/docportal/internal/catalog"
)

// ViewKind tells section views from page views in history records.
type ViewKind string

const (
	ViewSection ViewKind = "section"
	ViewPage    ViewKind = "page"
)

// View is the serialisable form of an Entry.
type View struct {
	Kind    ViewKind `json:"kind"`
	Section string   `json:"sectionKey"`
	Item    string   `json:"itemLocator,omitempty"`
}

// Record is the state stored with a native history entry.
type Record struct {
	View
	Index int `json:"sequenceIndex"`
}

// History is the browser's native history as seen by the controller.
// fragment is the URL fragment, without '#', that the entry should show.
type History interface {
	Push(rec Record, fragment string)
	Replace(rec Record, fragment string)
}

// ViewOf describes e.
func ViewOf(e Entry) View {
	switch e := e.(type) {
	case PageEntry:
		return View{Kind: ViewPage, Section: e.Section, Item: e.Locator}
	case SectionEntry:
		return View{Kind: ViewSection, Section: e.Key}
	}
	return View{}
}

// Entry converts v back to an Entry.
func (v View) Entry() Entry {
	if v.Kind == ViewPage {
		return PageEntry{Section: v.Section, Locator: v.Item}
	}
	return SectionEntry{Key: v.Section}
}

// Fragment returns the bookmarkable URL fragment for e: "section" or
// "section/slug", where slug is the item's filename stem.
func Fragment(e Entry) string {
	switch e := e.(type) {
	case PageEntry:
		return url.PathEscape(e.Section) + "/" + url.PathEscape(catalog.Slug(e.Locator))
	case SectionEntry:
		return url.PathEscape(e.Key)
	}
	return ""
}

// ParseFragment splits a URL fragment into its section key and item slug.
// A leading '#' is ignored.
func ParseFragment(fragment string) (section, slug string) {
	fragment = strings.TrimPrefix(fragment, "#")
	section, slug, _ = strings.Cut(fragment, "/")
	return unescape(section), unescape(slug)
}

func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

// Direction is how a native history event moved through history.
type Direction int

const (
	// Still is a history event that does not move, such as the entry a
	// replace left behind.
	Still Direction = iota
	Back
	Forward
)

func (d Direction) String() string {
	switch d {
	case Back:
		return "back"
	case Forward:
		return "forward"
	default:
		return "still"
	}
}

// Classify compares a native event's sequence index with the last one
// seen and reports the direction and number of steps moved.
func Classify(lastSeen, index int) (Direction, int) {
	switch {
	case index > lastSeen:
		return Forward, index - lastSeen
	case index < lastSeen:
		return Back, lastSeen - index
	default:
		return Still, 0
	}
}
