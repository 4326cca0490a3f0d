package visits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/docportal/internal/db"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("not found")

// Store reads and writes the navigation log.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a visit. If v.ID is empty a UUID is generated; a zero
// timestamp means now.
func (s *Store) Log(ctx context.Context, v Visit) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO nav_events (
			id, session_id, timestamp, event, view, section_key,
			item_locator, redirect_url, title, back_depth, forward_depth
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID,
		v.SessionID,
		v.Timestamp.UTC().Format(time.DateTime),
		v.Event,
		string(v.View),
		v.Section,
		v.Item,
		v.Redirect,
		v.Title,
		v.BackDepth,
		v.ForwardDepth,
	)
	if err != nil {
		return fmt.Errorf("inserting visit: %w", err)
	}
	return nil
}

// StartSession records a new page session.
func (s *Store) StartSession(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session id is required")
	}
	now := time.Now().UTC().Format(time.DateTime)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, started_at, last_seen, user_agent, entry_fragment)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET last_seen = excluded.last_seen`,
		sess.ID, now, now, sess.UserAgent, sess.EntryFragment,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// TouchSession marks a session as active now.
func (s *Store) TouchSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET last_seen = ? WHERE id = ?",
		time.Now().UTC().Format(time.DateTime), id,
	)
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	return nil
}

// GetSession retrieves a single session.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	var (
		sess              Session
		started, lastSeen string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, last_seen, user_agent, entry_fragment
		FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &started, &lastSeen, &sess.UserAgent, &sess.EntryFragment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	sess.StartedAt = parseTime(started)
	sess.LastSeen = parseTime(lastSeen)
	return &sess, nil
}

// QueryFilter controls which visits are returned by Query.
type QueryFilter struct {
	SessionID string
	Section   string
	Event     string
	View      View
	Since     *time.Time
	Until     *time.Time
	Limit     int
	Offset    int
}

// Query returns visits matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Visit, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Section != "" {
		clauses = append(clauses, "section_key = ?")
		args = append(args, filter.Section)
	}
	if filter.Event != "" {
		clauses = append(clauses, "event = ?")
		args = append(args, filter.Event)
	}
	if filter.View != "" {
		clauses = append(clauses, "view = ?")
		args = append(args, string(filter.View))
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}
	if filter.Until != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, filter.Until.UTC().Format(time.DateTime))
	}

	query := "SELECT id, session_id, timestamp, event, view, section_key, item_locator, redirect_url, title, back_depth, forward_depth FROM nav_events"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	defer rows.Close()

	visits := []Visit{}
	for rows.Next() {
		var (
			v        Visit
			ts, view string
		)
		if err := rows.Scan(&v.ID, &v.SessionID, &ts, &v.Event, &view, &v.Section,
			&v.Item, &v.Redirect, &v.Title, &v.BackDepth, &v.ForwardDepth); err != nil {
			return nil, err
		}
		v.View = View(view)
		v.Timestamp = parseTime(ts)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// Popular ranks items by how often their page view was shown.
func (s *Store) Popular(ctx context.Context, limit int) ([]Popular, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT section_key, item_locator, MAX(title), COUNT(*) AS views
		FROM nav_events
		WHERE view = 'page'
		GROUP BY section_key, item_locator
		ORDER BY views DESC, section_key, item_locator
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying popular items: %w", err)
	}
	defer rows.Close()

	out := []Popular{}
	for rows.Next() {
		var p Popular
		if err := rows.Scan(&p.Section, &p.Item, &p.Title, &p.Views); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteBefore removes visits older than the given time and returns how
// many were deleted.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM nav_events WHERE timestamp < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old visits: %w", err)
	}
	return res.RowsAffected()
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
