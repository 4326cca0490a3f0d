// Package portal serves the single-page shell and carries navigation
// events between browsers and their server-side sessions.
package portal

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ziadkadry99/docportal/internal/catalog"
	"github.com/ziadkadry99/docportal/internal/dispatch"
	"github.com/ziadkadry99/docportal/internal/nav"
	"github.com/ziadkadry99/docportal/internal/page"
	"github.com/ziadkadry99/docportal/internal/visits"
)

// Options configures a Portal.
type Options struct {
	Catalog *catalog.Catalog
	Router  *dispatch.Router
	Links   page.Linker

	// ContentDir is served under Links.Prefix. When ContentBaseURL is
	// set, requests there are redirected to it instead.
	ContentDir     string
	ContentBaseURL string

	// Visits, when set, records sessions and navigation.
	Visits *visits.Store

	// Idle is how long a session may go unused before it is dropped.
	Idle time.Duration
	// RequestTimeout bounds REST requests.
	RequestTimeout time.Duration

	Log *log.Entry
}

// Portal owns the live sessions.
type Portal struct {
	opts     Options
	log      *log.Entry
	recorder nav.Recorder

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a Portal.
func New(opts Options) *Portal {
	logger := opts.Log
	if logger == nil {
		logger = log.WithField("component", "portal")
	}
	if opts.Idle <= 0 {
		opts.Idle = 2 * time.Hour
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	p := &Portal{
		opts:     opts,
		log:      logger,
		sessions: make(map[string]*session),
	}
	if opts.Visits != nil {
		p.recorder = &visits.Recorder{Store: opts.Visits, Log: logger}
	}
	return p
}

// RegisterRoutes mounts the shell, content, REST and WebSocket endpoints.
func (p *Portal) RegisterRoutes(r chi.Router) {
	r.Get("/", p.serveShell)
	r.Get("/static/shell.js", serveAsset("application/javascript", shellJS))
	r.Get("/static/shell.css", serveAsset("text/css", shellCSS))
	r.Get("/ws/nav", p.handleWebSocket)

	prefix := p.opts.Links.Prefix
	if prefix == "" {
		prefix = "/content/"
	}
	r.Handle(prefix+"*", p.contentHandler(prefix))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(p.opts.RequestTimeout))
		r.Get("/api/catalog", p.handleCatalog)
		r.Post("/api/sessions", p.handleCreateSession)
		r.Get("/api/sessions/{id}", p.handleSessionStatus)
		r.Delete("/api/sessions/{id}", p.handleDeleteSession)
		r.Post("/api/sessions/{id}/events", p.handleEvent)
	})
}

// newSession starts a session with its own controller and document.
func (p *Portal) newSession(ctx context.Context, userAgent, fragment string) *session {
	id := uuid.NewString()
	hist := &queueHistory{}
	s := &session{
		id:   id,
		hist: hist,
		ctrl: nav.New(nav.Options{
			Session:  id,
			Catalog:  p.opts.Catalog,
			Router:   p.opts.Router,
			History:  hist,
			Links:    p.opts.Links,
			Recorder: p.recorder,
		}),
		lastUsed: time.Now(),
	}

	p.mu.Lock()
	p.sessions[id] = s
	p.mu.Unlock()

	if p.opts.Visits != nil {
		err := p.opts.Visits.StartSession(ctx, visits.Session{ID: id, UserAgent: userAgent, EntryFragment: strings.TrimPrefix(fragment, "#")})
		if err != nil {
			p.log.WithError(err).Warn("could not record session")
		}
	}
	p.log.WithField("session", id).Debug("session started")
	return s
}

// session returns a live session and marks it used.
func (p *Portal) session(id string) (*session, bool) {
	p.mu.Lock()
	s, ok := p.sessions[id]
	p.mu.Unlock()
	if !ok {
		return nil, false
	}
	s.touch()
	if p.opts.Visits != nil {
		if err := p.opts.Visits.TouchSession(context.Background(), id); err != nil {
			p.log.WithError(err).Debug("could not touch session")
		}
	}
	return s, true
}

func (p *Portal) dropSession(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.sessions[id]
	delete(p.sessions, id)
	return ok
}

// Sessions reports how many sessions are live.
func (p *Portal) Sessions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

// Prune drops sessions idle since before now minus the idle limit and
// returns how many were dropped.
func (p *Portal) Prune(now time.Time) int {
	cutoff := now.Add(-p.opts.Idle)
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for id, s := range p.sessions {
		if s.idleSince().Before(cutoff) {
			delete(p.sessions, id)
			n++
		}
	}
	return n
}

// Janitor prunes idle sessions every interval until ctx is done.
func (p *Portal) Janitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := p.Prune(now); n > 0 {
				p.log.WithField("sessions", n).Info("dropped idle sessions")
			}
		}
	}
}
