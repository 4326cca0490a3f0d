// Package fetch retrieves the raw bytes behind a content locator.
package fetch

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound means the locator does not name any content.
	ErrNotFound = errors.New("content not found")
	// ErrUnavailable means the content could not be retrieved right now,
	// or this fetcher has no way to retrieve it at all.
	ErrUnavailable = errors.New("retrieval unavailable")
)

// Fetcher retrieves content by locator. Returned slices may be shared
// between callers and must not be modified.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// IsRemote reports whether the locator is an absolute http(s) URL.
func IsRemote(locator string) bool {
	l := strings.ToLower(locator)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Mux sends remote locators to Remote and everything else to Local.
// A nil side reports ErrUnavailable.
type Mux struct {
	Local  Fetcher
	Remote Fetcher
}

func (m Mux) Fetch(ctx context.Context, locator string) ([]byte, error) {
	f := m.Local
	if IsRemote(locator) {
		f = m.Remote
	}
	if f == nil {
		return nil, ErrUnavailable
	}
	return f.Fetch(ctx, locator)
}
