// Package visits keeps a log of portal navigation: which sections and
// items were viewed, by which session, and how deep their history was.
package visits

import "time"

// View describes what a logged navigation showed.
type View string

const (
	ViewSection  View = "section"
	ViewPage     View = "page"
	ViewRedirect View = "redirect"
)

// Visit is a single navigation record.
type Visit struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Timestamp    time.Time `json:"timestamp"`
	Event        string    `json:"event"`
	View         View      `json:"view"`
	Section      string    `json:"section"`
	Item         string    `json:"item,omitempty"`
	Redirect     string    `json:"redirect,omitempty"`
	Title        string    `json:"title,omitempty"`
	BackDepth    int       `json:"back_depth"`
	ForwardDepth int       `json:"forward_depth"`
}

// Session is a browser page session.
type Session struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	LastSeen      time.Time `json:"last_seen"`
	UserAgent     string    `json:"user_agent,omitempty"`
	EntryFragment string    `json:"entry_fragment,omitempty"`
}

// Popular is an item ranked by page views.
type Popular struct {
	Section string `json:"section"`
	Item    string `json:"item"`
	Title   string `json:"title"`
	Views   int    `json:"views"`
}
