package portal

import (
	"sync"
	"time"

	"github.com/ziadkadry99/docportal/internal/nav"
	"github.com/ziadkadry99/docportal/internal/page"
)

// HistoryOp is an instruction for the browser's history API.
type HistoryOp struct {
	Op       string     `json:"op"` // "push" or "replace"
	State    nav.Record `json:"state"`
	Fragment string     `json:"fragment"`
}

// queueHistory collects history operations until they are sent.
type queueHistory struct {
	mu  sync.Mutex
	ops []HistoryOp
}

func (h *queueHistory) Push(rec nav.Record, fragment string) {
	h.add(HistoryOp{Op: "push", State: rec, Fragment: fragment})
}

func (h *queueHistory) Replace(rec nav.Record, fragment string) {
	h.add(HistoryOp{Op: "replace", State: rec, Fragment: fragment})
}

func (h *queueHistory) add(op HistoryOp) {
	h.mu.Lock()
	h.ops = append(h.ops, op)
	h.mu.Unlock()
}

func (h *queueHistory) drain() []HistoryOp {
	h.mu.Lock()
	defer h.mu.Unlock()
	ops := h.ops
	h.ops = nil
	return ops
}

// Update is what the browser applies after an event.
type Update struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Section   string `json:"section"`
	Item      string `json:"item,omitempty"`
	Title     string `json:"title"`
	// Replaced is set when Content and Styles carry a new view.
	Replaced bool        `json:"replaced"`
	Content  string      `json:"content,omitempty"`
	Styles   string      `json:"styles,omitempty"`
	Version  uint64      `json:"version"`
	History  []HistoryOp `json:"history,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
	// Pending names an item whose content is still loading.
	Pending string `json:"pending,omitempty"`
}

type session struct {
	id   string
	ctrl *nav.Controller
	hist *queueHistory

	mu       sync.Mutex
	lastUsed time.Time
	// sendMu orders draining history with writing to the client.
	sendMu sync.Mutex
}

func (s *session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func (s *session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// update captures the session's page. Content is included only when the
// view differs from sentVersion; pass nil to always include it.
func (s *session) update(sentVersion *uint64, pending string) Update {
	u := Update{
		Type:      "update",
		SessionID: s.id,
		History:   s.hist.drain(),
		Pending:   pending,
	}
	s.ctrl.WithDocument(func(doc *page.Document, st nav.State) {
		u.Section, u.Item = st.Section, st.Item
		u.Title = doc.Title()
		u.Redirect = doc.TakeRedirect()
		u.Version = doc.Version()
		if sentVersion == nil || *sentVersion != u.Version {
			u.Replaced = true
			u.Content = doc.ContentHTML()
			u.Styles = doc.StylesHTML()
			if sentVersion != nil {
				*sentVersion = u.Version
			}
		}
	})
	return u
}
