// Package nav keeps a session's back/forward model in step with the
// browser's native history and drives the content area through the
// dispatch router.
package nav

// Entry is one addressable view: a section grid or an item inside a
// section.
type Entry interface {
	SectionKey() string
	entry()
}

// SectionEntry is the grid view of a section.
type SectionEntry struct {
	Key string
}

// PageEntry is a single item shown from a section.
type PageEntry struct {
	Section string
	Locator string
}

func (e SectionEntry) SectionKey() string { return e.Key }
func (e PageEntry) SectionKey() string    { return e.Section }

func (SectionEntry) entry() {}
func (PageEntry) entry()    {}

// State is the navigation model of one page session. The last element
// of Back is always the view on screen.
type State struct {
	Section string
	Item    string
	Back    []Entry
	Forward []Entry
	// Suppress is set while a back/forward step is applied so the step
	// does not push a new native history entry.
	Suppress bool
}

func (s *State) top() Entry {
	return s.Back[len(s.Back)-1]
}

func (s *State) setCurrent(e Entry) {
	switch e := e.(type) {
	case SectionEntry:
		s.Section, s.Item = e.Key, ""
	case PageEntry:
		s.Section, s.Item = e.Section, e.Locator
	}
}

// push records a user-initiated navigation.
func (s *State) push(e Entry) {
	s.Back = append(s.Back, e)
	s.Forward = nil
}

func (s *State) stepBack() bool {
	if len(s.Back) <= 1 {
		return false
	}
	e := s.Back[len(s.Back)-1]
	s.Back = s.Back[:len(s.Back)-1]
	s.Forward = append(s.Forward, e)
	return true
}

func (s *State) stepForward() bool {
	if len(s.Forward) == 0 {
		return false
	}
	e := s.Forward[len(s.Forward)-1]
	s.Forward = s.Forward[:len(s.Forward)-1]
	s.Back = append(s.Back, e)
	return true
}

func (s State) clone() State {
	s.Back = append([]Entry(nil), s.Back...)
	s.Forward = append([]Entry(nil), s.Forward...)
	return s
}
