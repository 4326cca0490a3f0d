package nav

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/ziadkadry99/docportal/internal/catalog"
	"github.com/ziadkadry99/docportal/internal/dispatch"
	"github.com/ziadkadry99/docportal/internal/fetch"
	"github.com/ziadkadry99/docportal/internal/page"
)

const (
	leaveDoc    = "content/HR/Apply Leave.htm"
	approvalDoc = "content/HR/Approvals.htm"
	handbookPDF = "docs/handbook.pdf"
	introVideo  = "media/intro.mp4"
	payrollSite = "https://payroll.example.com/?redirectUrl=https%3A%2F%2Fpay.example.com%2Fhome"
	kbDoc       = "content/KB/Getting Started.htm"
)

var testLinks = page.Linker{Prefix: "/content/"}

var testFiles = fstest.MapFS{
	leaveDoc:    {Data: []byte(`<h1>Apply Leave</h1><p>Use the form.</p>`)},
	approvalDoc: {Data: []byte(`<h1>Approvals</h1><script>track()</script>`)},
	kbDoc:       {Data: []byte(`<h1>Welcome</h1>`)},
	handbookPDF: {Data: []byte(`not really a pdf`)},
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New("knowledge-base",
		catalog.Section{Key: "knowledge-base", Title: "Knowledge Base", Items: []catalog.Item{
			{Locator: kbDoc, Title: "Getting Started"},
			{Locator: handbookPDF, Title: "Handbook"},
		}},
		catalog.Section{Key: "hr", Title: "HR", Items: []catalog.Item{
			{Locator: leaveDoc, Title: "Apply Leave"},
			{Locator: approvalDoc, Title: "Approvals"},
			{Locator: introVideo, Title: "Intro"},
			{Locator: payrollSite, Title: "Payroll", External: true},
		}},
	)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return cat
}

type histOp struct {
	replace  bool
	rec      Record
	fragment string
}

type fakeHistory struct {
	ops []histOp
}

func (h *fakeHistory) Push(rec Record, fragment string) {
	h.ops = append(h.ops, histOp{rec: rec, fragment: fragment})
}

func (h *fakeHistory) Replace(rec Record, fragment string) {
	h.ops = append(h.ops, histOp{replace: true, rec: rec, fragment: fragment})
}

func (h *fakeHistory) pushes() int {
	n := 0
	for _, op := range h.ops {
		if !op.replace {
			n++
		}
	}
	return n
}

func (h *fakeHistory) last() histOp {
	return h.ops[len(h.ops)-1]
}

type memRecorder struct {
	mu sync.Mutex
	ts []Transition
}

func (m *memRecorder) RecordTransition(_ context.Context, t Transition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ts = append(m.ts, t)
}

func newController(cat *catalog.Catalog, f fetch.Fetcher, rec Recorder) (*Controller, *fakeHistory) {
	h := &fakeHistory{}
	c := New(Options{
		Session:  "test",
		Catalog:  cat,
		Router:   dispatch.NewRouter(f, nil, testLinks, []string{"redirectUrl"}),
		History:  h,
		Links:    testLinks,
		Recorder: rec,
	})
	return c, h
}

func setup(t *testing.T) (*Controller, *fakeHistory) {
	t.Helper()
	return newController(testCatalog(t), fetch.NewFS(testFiles), nil)
}

func docOf(c *Controller) (title, content string, version uint64, redirect string) {
	c.WithDocument(func(d *page.Document, _ State) {
		title, content, version = d.Title(), d.ContentHTML(), d.Version()
		redirect = d.TakeRedirect()
	})
	return
}

// blockingFetcher holds the first retrieval of one locator until released.
type blockingFetcher struct {
	next    fetch.Fetcher
	locator string
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if locator == b.locator {
		b.once.Do(func() {
			close(b.started)
			<-b.release
		})
	}
	return b.next.Fetch(ctx, locator)
}
