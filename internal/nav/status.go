package nav

import "github.com/ziadkadry99/docportal/internal/page"

// Status is a debugging view of a controller.
type Status struct {
	Section  string `json:"currentSection"`
	Item     string `json:"currentItem,omitempty"`
	Title    string `json:"title"`
	Back     []View `json:"backStack"`
	Forward  []View `json:"forwardStack"`
	Sequence int    `json:"sequenceIndex"`
	LastSeen int    `json:"lastSeenIndex"`
}

// Snapshot reports the controller's stacks and history counters.
func (c *Controller) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{
		Section:  c.state.Section,
		Item:     c.state.Item,
		Title:    c.doc.Title(),
		Back:     make([]View, 0, len(c.state.Back)),
		Forward:  make([]View, 0, len(c.state.Forward)),
		Sequence: c.seq,
		LastSeen: c.lastSeen,
	}
	for _, e := range c.state.Back {
		st.Back = append(st.Back, ViewOf(e))
	}
	for _, e := range c.state.Forward {
		st.Forward = append(st.Forward, ViewOf(e))
	}
	return st
}

// WithDocument runs fn with the session's document and a copy of the
// navigation state while holding the controller lock, so fn sees them
// consistent with each other.
func (c *Controller) WithDocument(fn func(doc *page.Document, st State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.doc, c.state.clone())
}
