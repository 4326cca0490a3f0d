package fetch

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Shared collapses concurrent retrievals of the same locator into one call
// to the wrapped fetcher. Sessions opening the same document at the same
// time then share a single read.
type Shared struct {
	next  Fetcher
	group singleflight.Group
}

// NewShared wraps next.
func NewShared(next Fetcher) *Shared {
	return &Shared{next: next}
}

func (s *Shared) Fetch(ctx context.Context, locator string) ([]byte, error) {
	// The shared call must not die with whichever caller started it.
	ch := s.group.DoChan(locator, func() (any, error) {
		return s.next.Fetch(context.WithoutCancel(ctx), locator)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]byte), nil
	}
}
