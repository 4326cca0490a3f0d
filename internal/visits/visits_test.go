package visits

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ziadkadry99/docportal/internal/db"
	"github.com/ziadkadry99/docportal/internal/nav"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func logVisits(t *testing.T, store *Store, visits ...Visit) {
	t.Helper()
	for _, v := range visits {
		if err := store.Log(context.Background(), v); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}
}

func TestLogAndQuery(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	logVisits(t, store, Visit{
		ID:        "v1",
		SessionID: "s1",
		Timestamp: at,
		Event:     "item",
		View:      ViewPage,
		Section:   "hr",
		Item:      "content/HR/Leave.htm",
		Title:     "HR - Leave",
		BackDepth: 2,
	})

	got, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 visit, got %d", len(got))
	}
	v := got[0]
	if v.ID != "v1" || v.SessionID != "s1" || v.View != ViewPage || v.Item != "content/HR/Leave.htm" {
		t.Errorf("unexpected visit %+v", v)
	}
	if !v.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v", v.Timestamp, at)
	}
	if v.BackDepth != 2 || v.ForwardDepth != 0 {
		t.Errorf("depths = %d/%d", v.BackDepth, v.ForwardDepth)
	}
}

func TestLogGeneratesUUID(t *testing.T) {
	store := setupStore(t)
	logVisits(t, store, Visit{SessionID: "s1", Event: "init", View: ViewSection, Section: "hr"})

	got, err := store.Query(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || len(got[0].ID) != 36 {
		t.Errorf("expected a generated UUID, got %+v", got)
	}
}

func TestQueryFilters(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	logVisits(t, store,
		Visit{SessionID: "s1", Timestamp: base, Event: "init", View: ViewSection, Section: "hr"},
		Visit{SessionID: "s1", Timestamp: base.Add(time.Minute), Event: "item", View: ViewPage, Section: "hr", Item: "a.htm"},
		Visit{SessionID: "s2", Timestamp: base.Add(2 * time.Minute), Event: "item", View: ViewPage, Section: "kb", Item: "b.pdf"},
		Visit{SessionID: "s2", Timestamp: base.Add(3 * time.Minute), Event: "back", View: ViewSection, Section: "kb"},
	)

	since := base.Add(90 * time.Second)
	tests := []struct {
		name   string
		filter QueryFilter
		want   int
	}{
		{"all", QueryFilter{}, 4},
		{"session", QueryFilter{SessionID: "s1"}, 2},
		{"section", QueryFilter{Section: "kb"}, 2},
		{"event", QueryFilter{Event: "item"}, 2},
		{"view", QueryFilter{View: ViewSection}, 2},
		{"since", QueryFilter{Since: &since}, 2},
		{"limit", QueryFilter{Limit: 3}, 3},
		{"offset", QueryFilter{Offset: 3}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d visits, want %d", len(got), tt.want)
			}
		})
	}

	got, _ := store.Query(ctx, QueryFilter{Limit: 1})
	if got[0].Event != "back" {
		t.Errorf("newest first: got %q", got[0].Event)
	}
}

func TestPopular(t *testing.T) {
	store := setupStore(t)
	logVisits(t, store,
		Visit{SessionID: "s1", Event: "item", View: ViewPage, Section: "hr", Item: "a.htm", Title: "HR - A"},
		Visit{SessionID: "s2", Event: "item", View: ViewPage, Section: "hr", Item: "a.htm", Title: "HR - A"},
		Visit{SessionID: "s2", Event: "back", View: ViewSection, Section: "hr"},
		Visit{SessionID: "s2", Event: "item", View: ViewPage, Section: "kb", Item: "b.pdf", Title: "KB - B"},
	)

	got, err := store.Popular(context.Background(), 5)
	if err != nil {
		t.Fatalf("Popular: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %+v", got)
	}
	if got[0].Item != "a.htm" || got[0].Views != 2 || got[0].Title != "HR - A" {
		t.Errorf("top item = %+v", got[0])
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour)

	logVisits(t, store,
		Visit{SessionID: "s1", Timestamp: old, Event: "init", View: ViewSection, Section: "hr"},
		Visit{SessionID: "s1", Event: "section", View: ViewSection, Section: "kb"},
	)

	n, err := store.DeleteBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
}

func TestSessions(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.StartSession(ctx, Session{ID: "s1", UserAgent: "test", EntryFragment: "hr"}); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := store.TouchSession(ctx, "s1"); err != nil {
		t.Fatalf("TouchSession: %v", err)
	}
	got, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.UserAgent != "test" || got.EntryFragment != "hr" || got.StartedAt.IsZero() {
		t.Errorf("unexpected session %+v", got)
	}

	if _, err := store.GetSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.StartSession(ctx, Session{}); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestRecorder(t *testing.T) {
	store := setupStore(t)
	rec := &Recorder{Store: store}
	ctx := context.Background()

	rec.RecordTransition(ctx, nav.Transition{Session: "s1", Event: nav.EventInit, Section: "hr", Back: 1})
	rec.RecordTransition(ctx, nav.Transition{Session: "s1", Event: nav.EventItem, Section: "hr", Item: "a.htm", Title: "HR - A", Back: 2})
	rec.RecordTransition(ctx, nav.Transition{Session: "s1", Event: nav.EventItem, Section: "hr", Redirect: "https://example.com", Back: 2})

	got, err := store.Query(ctx, QueryFilter{SessionID: "s1"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	views := map[View]int{}
	for _, v := range got {
		views[v.View]++
	}
	if views[ViewSection] != 1 || views[ViewPage] != 1 || views[ViewRedirect] != 1 {
		t.Errorf("views = %v", views)
	}
}

// --- HTTP handler tests ---

func setupRouter(t *testing.T) (chi.Router, *Store) {
	t.Helper()
	store := setupStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r, store
}

func TestHTTPQuery(t *testing.T) {
	r, store := setupRouter(t)
	logVisits(t, store,
		Visit{SessionID: "s1", Event: "init", View: ViewSection, Section: "hr"},
		Visit{SessionID: "s2", Event: "init", View: ViewSection, Section: "kb"},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/visits?session=s2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got []Visit
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Section != "kb" {
		t.Errorf("unexpected visits %+v", got)
	}
}

func TestHTTPPopular(t *testing.T) {
	r, store := setupRouter(t)
	logVisits(t, store, Visit{SessionID: "s1", Event: "item", View: ViewPage, Section: "hr", Item: "a.htm"})

	req := httptest.NewRequest(http.MethodGet, "/api/visits/popular?limit=3", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got []Popular
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Views != 1 {
		t.Errorf("unexpected popular %+v", got)
	}
}

func TestHTTPSessionNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/visits/sessions/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
