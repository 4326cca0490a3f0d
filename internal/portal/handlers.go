package portal

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ziadkadry99/docportal/internal/nav"
)

type catalogItem struct {
	Locator     string `json:"locator"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	External    bool   `json:"external,omitempty"`
	Kind        string `json:"kind"`
	Slug        string `json:"slug"`
}

type catalogSection struct {
	Key   string        `json:"key"`
	Title string        `json:"title"`
	Items []catalogItem `json:"items"`
}

type catalogResponse struct {
	DefaultSection string           `json:"default_section"`
	Sections       []catalogSection `json:"sections"`
}

type createSessionRequest struct {
	Fragment string `json:"fragment"`
}

func (p *Portal) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, p.catalogView())
}

func (p *Portal) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sess := p.newSession(r.Context(), r.UserAgent(), req.Fragment)
	sess.ctrl.InitialLoad(r.Context(), req.Fragment)
	writeJSON(w, http.StatusCreated, sess.update(nil, ""))
}

func (p *Portal) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := p.session(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, sess.ctrl.Snapshot())
}

func (p *Portal) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !p.dropSession(chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (p *Portal) handleEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := p.session(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	var ev nav.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event"})
		return
	}
	if ev.Type == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "event type is required"})
		return
	}

	sess.ctrl.Handle(r.Context(), ev)

	sess.sendMu.Lock()
	u := sess.update(nil, "")
	sess.sendMu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

// contentHandler serves catalog content under prefix, either from the
// content directory or by redirecting to the remote content root.
func (p *Portal) contentHandler(prefix string) http.Handler {
	if base := p.opts.ContentBaseURL; base != "" {
		base = strings.TrimSuffix(base, "/") + "/"
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.EscapedPath(), prefix)
			target := base + rest
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			if _, err := url.Parse(target); err != nil {
				http.NotFound(w, r)
				return
			}
			http.Redirect(w, r, target, http.StatusFound)
		})
	}
	dir := p.opts.ContentDir
	if dir == "" {
		dir = "."
	}
	return http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
