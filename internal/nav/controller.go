package nav

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ziadkadry99/docportal/internal/catalog"
	"github.com/ziadkadry99/docportal/internal/dispatch"
	"github.com/ziadkadry99/docportal/internal/page"
)

// Recorder is told about every transition. It is called without the
// controller lock held.
type Recorder interface {
	RecordTransition(ctx context.Context, t Transition)
}

// Options configures a Controller.
type Options struct {
	Session  string
	Catalog  *catalog.Catalog
	Router   *dispatch.Router
	History  History
	Document *page.Document
	Links    page.Linker
	Recorder Recorder
	Log      *log.Entry
}

// Controller is the only writer of a session's navigation state and
// content area. Transitions are applied under a lock; content retrieval
// for page views happens outside it and is dropped if a newer view has
// been entered in the meantime.
type Controller struct {
	mu sync.Mutex

	session string
	cat     *catalog.Catalog
	router  *dispatch.Router
	hist    History
	doc     *page.Document
	links   page.Linker
	rec     Recorder
	log     *log.Entry

	state    State
	ready    bool
	seq      int
	lastSeen int
	// view is bumped on every view change and stamps pending renders.
	view uint64
}

// New returns a controller. InitialLoad should be its first event; any
// other event before it seeds the default section first.
func New(opts Options) *Controller {
	logger := opts.Log
	if logger == nil {
		logger = log.WithField("component", "nav")
	}
	if opts.Session != "" {
		logger = logger.WithField("session", opts.Session)
	}
	doc := opts.Document
	if doc == nil {
		doc = page.New()
	}
	return &Controller{
		session: opts.Session,
		cat:     opts.Catalog,
		router:  opts.Router,
		hist:    opts.History,
		doc:     doc,
		links:   opts.Links,
		rec:     opts.Recorder,
		log:     logger,
	}
}

// Render is the content still owed to a page view after its transition.
type Render struct {
	c       *Controller
	token   uint64
	locator string
}

// Locator returns the item being rendered.
func (r *Render) Locator() string {
	if r == nil {
		return ""
	}
	return r.locator
}

// Finish retrieves and builds the content, then shows it unless the
// session has moved to another view. It reports whether the content was
// applied.
func (r *Render) Finish(ctx context.Context) bool {
	if r == nil {
		return false
	}
	c := r.c
	job := c.router.Prepare(ctx, r.locator, false)

	c.mu.Lock()
	defer c.mu.Unlock()
	if r.token != c.view || c.state.Item != r.locator {
		c.log.WithField("locator", r.locator).Debug("discarding content for abandoned view")
		return false
	}
	job.Apply(c.doc)
	return true
}

// Handle applies ev and renders its content before returning.
func (c *Controller) Handle(ctx context.Context, ev Event) {
	c.Begin(ctx, ev).Finish(ctx)
}

// Begin applies ev's state transition and returns the content render it
// still needs, or nil when the view is already complete.
func (c *Controller) Begin(ctx context.Context, ev Event) *Render {
	c.mu.Lock()
	view := c.view
	r, redirect := c.handle(ctx, ev)
	var t *Transition
	if c.view != view || redirect != "" {
		t = &Transition{
			Session:  c.session,
			Event:    ev.Type,
			Section:  c.state.Section,
			Item:     c.state.Item,
			Redirect: redirect,
			Title:    c.doc.Title(),
			Back:     len(c.state.Back),
			Forward:  len(c.state.Forward),
			At:       time.Now().UTC(),
		}
	}
	c.mu.Unlock()

	if t != nil && c.rec != nil {
		c.rec.RecordTransition(ctx, *t)
	}
	return r
}

// InitialLoad seeds the session from the URL fragment.
func (c *Controller) InitialLoad(ctx context.Context, fragment string) {
	c.Handle(ctx, Event{Type: EventInit, Fragment: fragment})
}

// ClickSection shows a section's grid.
func (c *Controller) ClickSection(ctx context.Context, key string) {
	c.Handle(ctx, Event{Type: EventSection, Section: key})
}

// ClickItem shows an item from a section.
func (c *Controller) ClickItem(ctx context.Context, locator, sectionKey string) {
	c.Handle(ctx, Event{Type: EventItem, Section: sectionKey, Locator: locator})
}

// NativeBack replays one step back.
func (c *Controller) NativeBack(ctx context.Context) {
	c.Handle(ctx, Event{Type: EventBack})
}

// NativeForward replays one step forward.
func (c *Controller) NativeForward(ctx context.Context) {
	c.Handle(ctx, Event{Type: EventForward})
}

// PopState handles the browser moving through its history. rec is the
// state stored with the entry it landed on, or nil if there was none.
func (c *Controller) PopState(ctx context.Context, rec *Record) {
	c.Handle(ctx, Event{Type: EventPopState, State: rec})
}

// State returns a copy of the navigation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) handle(ctx context.Context, ev Event) (*Render, string) {
	if !c.ready && ev.Type != EventInit {
		c.initialLoad(ctx, "")
	}
	switch ev.Type {
	case EventInit:
		return c.initialLoad(ctx, ev.Fragment)
	case EventSection:
		return c.clickSection(ev.Section), ""
	case EventItem:
		return c.clickItem(ctx, ev.Locator, ev.Section)
	case EventPopState:
		return c.popState(ev.State), ""
	case EventBack:
		if !c.state.stepBack() {
			return nil, ""
		}
		return c.replay(), ""
	case EventForward:
		if !c.state.stepForward() {
			return nil, ""
		}
		return c.replay(), ""
	default:
		c.log.WithField("event", ev.Type).Warn("ignoring unknown navigation event")
		return nil, ""
	}
}

func (c *Controller) initialLoad(ctx context.Context, fragment string) (*Render, string) {
	key, slug := ParseFragment(fragment)
	sec, ok := c.cat.Section(key)
	if !ok {
		if key != "" {
			c.log.WithField("section", key).Warn("unknown section in link, showing default")
		}
		sec, slug = c.cat.Default(), ""
	}

	c.state = State{Back: []Entry{SectionEntry{Key: sec.Key}}}
	var redirect string
	if slug != "" {
		item, ok := c.cat.ResolveSlug(sec.Key, slug)
		switch {
		case !ok:
			c.log.WithFields(log.Fields{"section": sec.Key, "slug": slug}).Warn("unknown item in link, showing section")
		case item.External:
			redirect = item.Locator
		default:
			c.state.Back = append(c.state.Back, PageEntry{Section: sec.Key, Locator: item.Locator})
		}
	}

	top := c.state.top()
	c.state.Suppress = true
	r := c.apply(top)
	c.state.Suppress = false
	c.hist.Replace(Record{View: ViewOf(top), Index: c.seq}, Fragment(top))
	c.lastSeen = c.seq
	c.ready = true

	if redirect != "" {
		return r, c.leave(ctx, redirect)
	}
	return r, ""
}

func (c *Controller) clickSection(key string) *Render {
	sec, ok := c.cat.Section(key)
	if !ok {
		c.log.WithField("section", key).Warn("unknown section, showing default")
		sec = c.cat.Default()
	}
	if sec.Key == c.state.Section && c.state.Item == "" {
		return nil
	}
	e := SectionEntry{Key: sec.Key}
	c.state.push(e)
	return c.apply(e)
}

func (c *Controller) clickItem(ctx context.Context, locator, sectionKey string) (*Render, string) {
	sec, item, err := c.cat.Item(sectionKey, locator)
	if err != nil {
		c.log.WithError(err).Warn("unknown item, showing default section")
		return c.clickSection(c.cat.Default().Key), ""
	}
	if item.External {
		return nil, c.leave(ctx, item.Locator)
	}
	if locator == c.state.Item {
		return nil, ""
	}
	e := PageEntry{Section: sec.Key, Locator: item.Locator}
	c.state.push(e)
	return c.apply(e), ""
}

func (c *Controller) popState(rec *Record) *Render {
	if rec == nil {
		return c.resync("history entry has no navigation state")
	}
	dir, steps := Classify(c.lastSeen, rec.Index)
	c.see(rec.Index)
	if dir == Still {
		if ViewOf(c.state.top()) != rec.View {
			return c.resync("history entry at current position does not match navigation stacks")
		}
		return nil
	}

	step := c.state.stepBack
	if dir == Forward {
		step = c.state.stepForward
	}
	moved := 0
	for moved < steps && step() {
		moved++
	}
	if moved < steps || ViewOf(c.state.top()) != rec.View {
		return c.resync("history entry does not match navigation stacks")
	}
	return c.replay()
}

// see records the index of the entry the browser is on. Entries left
// over from an earlier page session may be ahead of seq; later pushes must
// still be numbered above them.
func (c *Controller) see(index int) {
	c.lastSeen = index
	if c.lastSeen > c.seq {
		c.seq = c.lastSeen
	}
}

// resync drops all history depth and returns to the default section.
func (c *Controller) resync(reason string) *Render {
	c.log.WithField("last_seen", c.lastSeen).Warn(reason + ", resetting to default section")
	c.see(c.lastSeen)
	e := SectionEntry{Key: c.cat.Default().Key}
	c.state.Back = []Entry{e}
	c.state.Forward = nil
	r := c.replay()
	c.hist.Replace(Record{View: ViewOf(e), Index: c.lastSeen}, Fragment(e))
	return r
}

// replay shows the top of the back stack without touching native history.
func (c *Controller) replay() *Render {
	c.state.Suppress = true
	defer func() { c.state.Suppress = false }()
	return c.apply(c.state.top())
}

func (c *Controller) apply(e Entry) *Render {
	c.state.setCurrent(e)
	if !c.state.Suppress {
		c.seq++
		c.lastSeen = c.seq
		c.hist.Push(Record{View: ViewOf(e), Index: c.seq}, Fragment(e))
	}
	return c.show(e)
}

// show changes the displayed view. Section grids come straight from the
// catalog; page views return the render that will fill the content area.
func (c *Controller) show(e Entry) *Render {
	c.view++
	switch e := e.(type) {
	case PageEntry:
		sec, item, err := c.cat.Item(e.Section, e.Locator)
		if err != nil {
			c.log.WithError(err).Error("page entry missing from catalog")
			c.doc.SetTitle("")
			c.doc.Replace(nil)
			return nil
		}
		c.doc.SetTitle(dispatch.Title(sec, item))
		return &Render{c: c, token: c.view, locator: item.Locator}
	case SectionEntry:
		sec, ok := c.cat.Section(e.Key)
		if !ok {
			sec = c.cat.Default()
		}
		c.doc.SetTitle(dispatch.Title(sec, nil))
		c.doc.ShowSection(sec, c.links)
	}
	return nil
}

// leave sends the whole page to an external locator. Stacks and native
// history are left alone.
func (c *Controller) leave(ctx context.Context, locator string) string {
	job := c.router.Prepare(ctx, locator, true)
	job.Apply(c.doc)
	c.log.WithField("target", job.Redirect).Info("leaving portal")
	return job.Redirect
}
