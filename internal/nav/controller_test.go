package nav

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/ziadkadry99/docportal/internal/fetch"
	"github.com/ziadkadry99/docportal/internal/page"
)

func area(t *testing.T, c *Controller) *goquery.Selection {
	t.Helper()
	var html string
	c.WithDocument(func(d *page.Document, _ State) { html = d.ContentHTML() })
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing content: %v", err)
	}
	return doc.Selection
}

func TestScenarioFreshLoad(t *testing.T) {
	ctx := context.Background()
	c, h := setup(t)

	c.InitialLoad(ctx, "#knowledge-base")

	st := c.State()
	if len(st.Back) != 1 || len(st.Forward) != 0 {
		t.Fatalf("stacks = %d/%d", len(st.Back), len(st.Forward))
	}
	if st.Section != "knowledge-base" || st.Item != "" {
		t.Errorf("current = %q/%q", st.Section, st.Item)
	}
	if title, _, _, _ := docOf(c); title != "Knowledge Base" {
		t.Errorf("title = %q", title)
	}
	if area(t, c).Find(`.metrics-container[data-section="knowledge-base"] .metric-box`).Length() != 2 {
		t.Error("expected the knowledge base grid")
	}
	want := []histOp{{replace: true, rec: Record{View: View{Kind: ViewSection, Section: "knowledge-base"}, Index: 0}, fragment: "knowledge-base"}}
	if diff := cmp.Diff(want, h.ops, cmp.AllowUnexported(histOp{})); diff != "" {
		t.Errorf("history ops (-want +got):\n%s", diff)
	}
}

func TestScenarioBackAndForward(t *testing.T) {
	ctx := context.Background()
	c, h := setup(t)
	c.InitialLoad(ctx, "#hr")

	// B: click an item.
	c.ClickItem(ctx, leaveDoc, "hr")
	st := c.State()
	if len(st.Back) != 2 || len(st.Forward) != 0 {
		t.Fatalf("after click stacks = %d/%d", len(st.Back), len(st.Forward))
	}
	if st.Back[1] != (PageEntry{Section: "hr", Locator: leaveDoc}) {
		t.Errorf("top = %#v", st.Back[1])
	}
	if op := h.last(); op.replace || op.rec.Index != 1 || op.fragment != "hr/Apply%20Leave" {
		t.Errorf("push = %+v", op)
	}
	title, pageHTML, _, _ := docOf(c)
	if title != "HR - Apply Leave" {
		t.Errorf("title = %q", title)
	}
	if area(t, c).Find(".html-content h1").Text() != "Apply Leave" {
		t.Error("fragment not shown")
	}

	// C: the browser goes back to the section entry.
	c.PopState(ctx, &Record{View: View{Kind: ViewSection, Section: "hr"}, Index: 0})
	st = c.State()
	if len(st.Back) != 1 || len(st.Forward) != 1 {
		t.Fatalf("after back stacks = %d/%d", len(st.Back), len(st.Forward))
	}
	if st.Back[0] != (SectionEntry{Key: "hr"}) || st.Forward[0] != (PageEntry{Section: "hr", Locator: leaveDoc}) {
		t.Errorf("stacks = %#v / %#v", st.Back, st.Forward)
	}
	if title, _, _, _ := docOf(c); title != "HR" {
		t.Errorf("title = %q", title)
	}
	if area(t, c).Find(`.metrics-container[data-section="hr"]`).Length() != 1 {
		t.Error("expected the hr grid")
	}

	// D: and forward again.
	c.PopState(ctx, &Record{View: View{Kind: ViewPage, Section: "hr", Item: leaveDoc}, Index: 1})
	st = c.State()
	if len(st.Back) != 2 || len(st.Forward) != 0 || st.Item != leaveDoc {
		t.Fatalf("after forward: %+v", st)
	}
	title2, pageHTML2, _, _ := docOf(c)
	if title2 != title || pageHTML2 != pageHTML {
		t.Error("forward did not restore the page")
	}
	if h.pushes() != 1 {
		t.Errorf("back/forward pushed history: %d pushes", h.pushes())
	}
}

func TestScenarioClickClearsForward(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	c.InitialLoad(ctx, "#hr")
	c.ClickItem(ctx, leaveDoc, "hr")
	c.NativeBack(ctx)
	if st := c.State(); len(st.Forward) != 1 {
		t.Fatalf("forward = %d", len(st.Forward))
	}

	c.ClickItem(ctx, approvalDoc, "hr")
	st := c.State()
	if len(st.Forward) != 0 {
		t.Errorf("forward not cleared: %d", len(st.Forward))
	}
	if len(st.Back) != 2 || st.Back[1] != (PageEntry{Section: "hr", Locator: approvalDoc}) {
		t.Errorf("back = %#v", st.Back)
	}
	if area(t, c).Find("script").Length() != 0 {
		t.Error("scripts should be stripped")
	}
}

func TestScenarioBrokenPDF(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	c.InitialLoad(ctx, "")

	c.ClickItem(ctx, handbookPDF, "knowledge-base")

	if st := c.State(); st.Item != handbookPDF {
		t.Errorf("current item = %q", st.Item)
	}
	sel := area(t, c)
	if n := sel.Find(".error-message").Length(); n != 1 {
		t.Errorf("error messages = %d", n)
	}
	if sel.Find("canvas").Length() != 0 {
		t.Error("unexpected canvases")
	}
}

func TestReclickIsNoop(t *testing.T) {
	ctx := context.Background()
	c, h := setup(t)
	c.InitialLoad(ctx, "#hr")
	c.ClickItem(ctx, leaveDoc, "hr")
	_, _, version, _ := docOf(c)
	ops := len(h.ops)

	c.ClickItem(ctx, leaveDoc, "hr")

	if st := c.State(); len(st.Back) != 2 || len(st.Forward) != 0 {
		t.Errorf("stacks changed: %d/%d", len(st.Back), len(st.Forward))
	}
	if _, _, v, _ := docOf(c); v != version {
		t.Error("content area was replaced")
	}
	if len(h.ops) != ops {
		t.Error("history changed")
	}
}

func TestClickSameSectionIsNoop(t *testing.T) {
	ctx := context.Background()
	c, h := setup(t)
	c.InitialLoad(ctx, "#hr")
	c.ClickSection(ctx, "hr")
	if st := c.State(); len(st.Back) != 1 || h.pushes() != 0 {
		t.Errorf("same section click changed state: %+v", st)
	}

	// From an item view the section click is a real navigation.
	c.ClickItem(ctx, leaveDoc, "hr")
	c.ClickSection(ctx, "hr")
	st := c.State()
	if len(st.Back) != 3 || st.Item != "" || st.Section != "hr" {
		t.Errorf("state = %+v", st)
	}
}

func TestUnknownReferencesFallBackToDefault(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	c.InitialLoad(ctx, "#hr")

	c.ClickSection(ctx, "nope")
	st := c.State()
	if st.Section != "knowledge-base" || len(st.Back) != 2 {
		t.Errorf("unknown section: %+v", st)
	}

	c.ClickItem(ctx, leaveDoc, "hr")
	c.ClickItem(ctx, "content/missing.htm", "hr")
	st = c.State()
	if st.Section != "knowledge-base" || st.Item != "" || len(st.Back) != 4 {
		t.Errorf("unknown item: %+v", st)
	}
}

func TestExternalItemRedirects(t *testing.T) {
	ctx := context.Background()
	c, h := setup(t)
	c.InitialLoad(ctx, "#hr")
	before := c.State()
	ops := len(h.ops)

	c.ClickItem(ctx, payrollSite, "hr")

	if diff := cmp.Diff(before, c.State()); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
	if len(h.ops) != ops {
		t.Error("history changed")
	}
	if _, _, _, redirect := docOf(c); redirect != "https://pay.example.com/home" {
		t.Errorf("redirect = %q", redirect)
	}
}

func TestDeepLinks(t *testing.T) {
	tests := []struct {
		name      string
		fragment  string
		wantBack  []Entry
		wantFrag  string
		wantTitle string
	}{
		{
			name:      "item by stem",
			fragment:  "#hr/Apply%20Leave",
			wantBack:  []Entry{SectionEntry{Key: "hr"}, PageEntry{Section: "hr", Locator: leaveDoc}},
			wantFrag:  "hr/Apply%20Leave",
			wantTitle: "HR - Apply Leave",
		},
		{
			name:      "item by substring",
			fragment:  "hr/Approv",
			wantBack:  []Entry{SectionEntry{Key: "hr"}, PageEntry{Section: "hr", Locator: approvalDoc}},
			wantFrag:  "hr/Approvals",
			wantTitle: "HR - Approvals",
		},
		{
			name:      "unknown item",
			fragment:  "#hr/nothing-here",
			wantBack:  []Entry{SectionEntry{Key: "hr"}},
			wantFrag:  "hr",
			wantTitle: "HR",
		},
		{
			name:      "unknown section",
			fragment:  "#nope/Apply%20Leave",
			wantBack:  []Entry{SectionEntry{Key: "knowledge-base"}},
			wantFrag:  "knowledge-base",
			wantTitle: "Knowledge Base",
		},
		{
			name:      "empty",
			fragment:  "",
			wantBack:  []Entry{SectionEntry{Key: "knowledge-base"}},
			wantFrag:  "knowledge-base",
			wantTitle: "Knowledge Base",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, h := setup(t)
			c.InitialLoad(context.Background(), tt.fragment)

			st := c.State()
			if diff := cmp.Diff(tt.wantBack, st.Back); diff != "" {
				t.Errorf("back (-want +got):\n%s", diff)
			}
			if len(h.ops) != 1 || !h.ops[0].replace || h.ops[0].fragment != tt.wantFrag {
				t.Errorf("history = %+v", h.ops)
			}
			if title, _, _, _ := docOf(c); title != tt.wantTitle {
				t.Errorf("title = %q", title)
			}
		})
	}
}

func TestDeepLinkBackToSection(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	c.InitialLoad(ctx, "#hr/Apply%20Leave")
	c.NativeBack(ctx)
	st := c.State()
	if st.Item != "" || st.Section != "hr" || len(st.Forward) != 1 {
		t.Errorf("state = %+v", st)
	}
}

func TestNativeBackAtRootIsNoop(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	c.InitialLoad(ctx, "#hr")
	_, _, version, _ := docOf(c)

	c.NativeBack(ctx)
	c.NativeForward(ctx)

	if st := c.State(); len(st.Back) != 1 || len(st.Forward) != 0 {
		t.Errorf("stacks = %d/%d", len(st.Back), len(st.Forward))
	}
	if _, _, v, _ := docOf(c); v != version {
		t.Error("content area changed")
	}
}

func TestPopStateWithoutStateResets(t *testing.T) {
	ctx := context.Background()
	c, h := setup(t)
	c.InitialLoad(ctx, "#hr")
	c.ClickItem(ctx, leaveDoc, "hr")
	c.ClickItem(ctx, approvalDoc, "hr")
	c.NativeBack(ctx)

	c.PopState(ctx, nil)

	st := c.State()
	if diff := cmp.Diff([]Entry{SectionEntry{Key: "knowledge-base"}}, st.Back); diff != "" {
		t.Errorf("back (-want +got):\n%s", diff)
	}
	if len(st.Forward) != 0 {
		t.Errorf("forward = %d", len(st.Forward))
	}
	if op := h.last(); !op.replace || op.fragment != "knowledge-base" {
		t.Errorf("last history op = %+v", op)
	}
}

func TestPopStateMismatchResets(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	c.InitialLoad(ctx, "#hr")

	// An entry from before a reload: ahead of anything this session knows.
	c.PopState(ctx, &Record{View: View{Kind: ViewPage, Section: "hr", Item: approvalDoc}, Index: 4})

	st := c.State()
	if st.Section != "knowledge-base" || len(st.Back) != 1 {
		t.Errorf("state = %+v", st)
	}
	if s := c.Snapshot(); s.LastSeen != 4 {
		t.Errorf("last seen = %d", s.LastSeen)
	}
}

func TestPushesAfterResyncStayAheadOfOldEntries(t *testing.T) {
	ctx := context.Background()
	c, h := setup(t)
	c.InitialLoad(ctx, "#hr")

	// The browser lands on an entry numbered by an earlier page session.
	c.PopState(ctx, &Record{View: View{Kind: ViewPage, Section: "hr", Item: approvalDoc}, Index: 4})
	resynced := h.last()
	if !resynced.replace || resynced.rec.Index != 4 {
		t.Fatalf("resync op = %+v", resynced)
	}

	c.ClickItem(ctx, leaveDoc, "hr")
	pushed := h.last()
	if pushed.replace || pushed.rec.Index <= resynced.rec.Index {
		t.Fatalf("push after resync got index %d, behind %d", pushed.rec.Index, resynced.rec.Index)
	}

	// Browser back, then forward, across the two entries.
	c.PopState(ctx, &resynced.rec)
	st := c.State()
	if st.Section != "knowledge-base" || st.Item != "" || len(st.Forward) != 1 {
		t.Fatalf("after back: %+v", st)
	}
	c.PopState(ctx, &pushed.rec)
	st = c.State()
	if st.Item != leaveDoc || len(st.Back) != 2 || len(st.Forward) != 0 {
		t.Fatalf("after forward: %+v", st)
	}
	if h.pushes() != 1 {
		t.Errorf("pushes = %d", h.pushes())
	}
}

func TestPopStateSameIndexMismatchResets(t *testing.T) {
	ctx := context.Background()
	c, h := setup(t)
	c.InitialLoad(ctx, "#hr")

	// Same position as the current entry, but a different view.
	c.PopState(ctx, &Record{View: View{Kind: ViewPage, Section: "knowledge-base", Item: kbDoc}, Index: 0})

	st := c.State()
	if diff := cmp.Diff([]Entry{SectionEntry{Key: "knowledge-base"}}, st.Back); diff != "" {
		t.Errorf("back (-want +got):\n%s", diff)
	}
	if st.Section != "knowledge-base" || st.Item != "" {
		t.Errorf("state = %+v", st)
	}
	if op := h.last(); !op.replace || op.rec.Index != 0 || op.fragment != "knowledge-base" {
		t.Errorf("last history op = %+v", op)
	}
}

func TestTitleChangesBeforeContentArrives(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	c.InitialLoad(ctx, "#hr")

	r := c.Begin(ctx, Event{Type: EventItem, Section: "hr", Locator: leaveDoc})
	if title, _, _, _ := docOf(c); title != "HR - Apply Leave" {
		t.Errorf("title while loading = %q", title)
	}
	if !r.Finish(ctx) {
		t.Fatal("render was not applied")
	}
	if title, _, _, _ := docOf(c); title != "HR - Apply Leave" {
		t.Errorf("title after loading = %q", title)
	}
}

func TestPopStateMultipleSteps(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	c.InitialLoad(ctx, "#hr")
	c.ClickItem(ctx, leaveDoc, "hr")
	c.ClickItem(ctx, approvalDoc, "hr")
	c.ClickItem(ctx, introVideo, "hr")

	c.PopState(ctx, &Record{View: View{Kind: ViewPage, Section: "hr", Item: leaveDoc}, Index: 1})
	st := c.State()
	if st.Item != leaveDoc || len(st.Back) != 2 || len(st.Forward) != 2 {
		t.Fatalf("after jump back: %+v", st)
	}

	c.PopState(ctx, &Record{View: View{Kind: ViewPage, Section: "hr", Item: introVideo}, Index: 3})
	st = c.State()
	if st.Item != introVideo || len(st.Back) != 4 || len(st.Forward) != 0 {
		t.Fatalf("after jump forward: %+v", st)
	}
	if area(t, c).Find("video.video-player").Length() != 1 {
		t.Error("expected the video")
	}
}

func TestPopStateSameIndexIsNoop(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	c.InitialLoad(ctx, "#hr")
	c.ClickItem(ctx, leaveDoc, "hr")
	before := c.State()

	c.PopState(ctx, &Record{View: View{Kind: ViewPage, Section: "hr", Item: leaveDoc}, Index: 1})

	if diff := cmp.Diff(before, c.State()); diff != "" {
		t.Errorf("state changed:\n%s", diff)
	}
}

func TestEventBeforeInitSeedsDefault(t *testing.T) {
	c, _ := setup(t)
	c.ClickItem(context.Background(), leaveDoc, "hr")
	st := c.State()
	want := []Entry{SectionEntry{Key: "knowledge-base"}, PageEntry{Section: "hr", Locator: leaveDoc}}
	if diff := cmp.Diff(want, st.Back); diff != "" {
		t.Errorf("back (-want +got):\n%s", diff)
	}
}

func TestStaleContentIsDiscarded(t *testing.T) {
	ctx := context.Background()
	bf := &blockingFetcher{
		next:    fetch.NewFS(testFiles),
		locator: leaveDoc,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c, _ := newController(testCatalog(t), bf, nil)
	c.InitialLoad(ctx, "#hr")

	slow := c.Begin(ctx, Event{Type: EventItem, Section: "hr", Locator: leaveDoc})
	done := make(chan bool)
	go func() { done <- slow.Finish(ctx) }()
	<-bf.started

	c.ClickItem(ctx, approvalDoc, "hr")
	close(bf.release)

	if applied := <-done; applied {
		t.Error("late content for an abandoned view was applied")
	}
	if got := area(t, c).Find("h1").Text(); got != "Approvals" {
		t.Errorf("content shows %q", got)
	}
	if title, _, _, _ := docOf(c); title != "HR - Approvals" {
		t.Errorf("title = %q", title)
	}
}

func TestStaleAfterBackAndForward(t *testing.T) {
	ctx := context.Background()
	bf := &blockingFetcher{
		next:    fetch.NewFS(testFiles),
		locator: leaveDoc,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c, _ := newController(testCatalog(t), bf, nil)
	c.InitialLoad(ctx, "#hr")

	slow := c.Begin(ctx, Event{Type: EventItem, Section: "hr", Locator: leaveDoc})
	done := make(chan bool)
	go func() { done <- slow.Finish(ctx) }()
	<-bf.started

	// Same locator, but a newer view of it.
	c.Begin(ctx, Event{Type: EventBack})
	newer := c.Begin(ctx, Event{Type: EventForward})
	close(bf.release)

	if <-done {
		t.Error("superseded render was applied")
	}
	if !newer.Finish(ctx) {
		t.Error("current render was not applied")
	}
}

func TestRecorderSeesTransitions(t *testing.T) {
	ctx := context.Background()
	rec := &memRecorder{}
	c, _ := newController(testCatalog(t), fetch.NewFS(testFiles), rec)

	c.InitialLoad(ctx, "#hr")
	c.ClickItem(ctx, leaveDoc, "hr")
	c.ClickItem(ctx, leaveDoc, "hr") // no-op
	c.ClickItem(ctx, payrollSite, "hr")
	c.NativeBack(ctx)

	var got []EventType
	for _, tr := range rec.ts {
		got = append(got, tr.Event)
	}
	want := []EventType{EventInit, EventItem, EventItem, EventBack}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if rec.ts[1].Title != "HR - Apply Leave" || rec.ts[1].Back != 2 || rec.ts[1].Session != "test" {
		t.Errorf("item transition = %+v", rec.ts[1])
	}
	if rec.ts[2].Redirect != "https://pay.example.com/home" {
		t.Errorf("redirect transition = %+v", rec.ts[2])
	}
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	c.InitialLoad(ctx, "#hr")
	c.ClickItem(ctx, leaveDoc, "hr")
	c.NativeBack(ctx)

	want := Status{
		Section:  "hr",
		Title:    "HR",
		Back:     []View{{Kind: ViewSection, Section: "hr"}},
		Forward:  []View{{Kind: ViewPage, Section: "hr", Item: leaveDoc}},
		Sequence: 1,
		LastSeen: 1,
	}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Errorf("snapshot (-want +got):\n%s", diff)
	}
}
