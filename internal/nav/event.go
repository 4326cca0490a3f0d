package nav

import "time"

// EventType names a navigation event sent by the page.
type EventType string

const (
	EventInit     EventType = "init"
	EventSection  EventType = "section"
	EventItem     EventType = "item"
	EventPopState EventType = "popstate"
	EventBack     EventType = "back"
	EventForward  EventType = "forward"
)

// Event is one navigation input. Which fields are set depends on Type:
// Fragment for init, Section for section clicks, Section and Locator for
// item clicks, State for popstate (nil when the entry carried no state).
type Event struct {
	Type     EventType `json:"type"`
	Fragment string    `json:"fragment,omitempty"`
	Section  string    `json:"section,omitempty"`
	Locator  string    `json:"locator,omitempty"`
	State    *Record   `json:"state,omitempty"`
}

// Transition describes a handled event that changed the view or left
// the portal.
type Transition struct {
	Session  string
	Event    EventType
	Section  string
	Item     string
	Redirect string
	Title    string
	Back     int
	Forward  int
	At       time.Time
}
