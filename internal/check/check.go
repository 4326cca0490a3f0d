// Package check verifies that every catalog item can be shown.
package check

import (
	"context"
	"fmt"
	"sync"

	"github.com/ziadkadry99/docportal/internal/catalog"
	"github.com/ziadkadry99/docportal/internal/dispatch"
	"github.com/ziadkadry99/docportal/internal/fetch"
	"github.com/ziadkadry99/docportal/internal/progress"
	"github.com/ziadkadry99/docportal/internal/render"
	"golang.org/x/sync/errgroup"
)

// Problem is an item that would not display as intended.
type Problem struct {
	Section string
	Locator string
	Kind    dispatch.Kind
	Err     error
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s (%s): %v", p.Section, p.Locator, p.Kind, p.Err)
}

// Result summarises a check run.
type Result struct {
	Checked  int
	Skipped  int
	Problems []Problem
}

// OK reports whether every checked item passed.
func (r Result) OK() bool { return len(r.Problems) == 0 }

// Checker retrieves every local item in a catalog. External links are
// skipped, as are remote pages unless Remote is set.
type Checker struct {
	Fetcher  fetch.Fetcher
	Pages    render.PageCounter
	Reporter progress.Reporter
	Workers  int
	Remote   bool
}

type target struct {
	idx     int
	section string
	item    catalog.Item
	kind    dispatch.Kind
}

// Run checks cat. The error is non-nil only if ctx ends first.
func (c *Checker) Run(ctx context.Context, cat *catalog.Catalog) (Result, error) {
	var (
		res     Result
		targets []target
	)
	for _, sec := range cat.Sections() {
		for _, it := range sec.Items {
			kind := dispatch.Classify(it.Locator, it.External)
			if kind == dispatch.Redirect || (!c.Remote && fetch.IsRemote(it.Locator)) {
				res.Skipped++
				continue
			}
			targets = append(targets, target{idx: len(targets), section: sec.Key, item: it, kind: kind})
		}
	}

	if c.Reporter != nil {
		c.Reporter.Start(len(targets))
		defer c.Reporter.Finish()
	}

	found := make([]error, len(targets))
	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	workers := c.Workers
	if workers <= 0 {
		workers = 4
	}
	g.SetLimit(workers)
	for _, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[t.idx] = c.checkOne(gctx, t)

			mu.Lock()
			done++
			if c.Reporter != nil {
				c.Reporter.Update(done, t.item.Locator)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.Checked = len(targets)
	for i, err := range found {
		if err != nil {
			t := targets[i]
			res.Problems = append(res.Problems, Problem{Section: t.section, Locator: t.item.Locator, Kind: t.kind, Err: err})
		}
	}
	return res, nil
}

func (c *Checker) checkOne(ctx context.Context, t target) error {
	data, err := c.Fetcher.Fetch(ctx, t.item.Locator)
	if err != nil {
		return err
	}
	if t.kind != dispatch.PDF || c.Pages == nil {
		return nil
	}
	n, err := c.Pages.CountPages(data)
	if err != nil {
		return err
	}
	if n <= 0 {
		return render.ErrNoPages
	}
	return nil
}
