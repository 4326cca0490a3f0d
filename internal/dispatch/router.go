package dispatch

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/ziadkadry99/docportal/internal/fetch"
	"github.com/ziadkadry99/docportal/internal/page"
	"github.com/ziadkadry99/docportal/internal/render"
)

// Renderer produces the content-area subtree for one kind of content.
// Failure builds the in-place message shown when Render fails.
type Renderer interface {
	Render(ctx context.Context, locator string) (*page.Fragment, error)
	Failure(locator string, err error) *page.Fragment
}

// Router maps locators to renderers.
type Router struct {
	PDF      Renderer
	Video    Renderer
	Embedded Renderer
	Fragment Renderer

	// RedirectParams lists query keys that wrap the real destination of
	// an external link.
	RedirectParams []string

	Log *log.Entry
}

// Job is a prepared dispatch, ready to be applied to a document.
type Job struct {
	Locator string
	// Kind is the kind actually shown, which is Embedded when a local
	// fragment could not be retrieved.
	Kind     Kind
	Redirect string
	Fragment *page.Fragment
	// Err is the render error behind an in-place failure message.
	Err error
}

// Prepare does the blocking part of a dispatch: retrieval and subtree
// construction. It never fails; render errors become a failure
// fragment on the job.
func (r *Router) Prepare(ctx context.Context, locator string, external bool) *Job {
	kind := Classify(locator, external)
	job := &Job{Locator: locator, Kind: kind}
	logger := r.logger().WithFields(log.Fields{"locator": locator, "kind": kind.String()})

	if kind == Redirect {
		job.Redirect = ResolveRedirect(locator, r.RedirectParams)
		return job
	}

	rd := r.renderer(kind)
	f, err := rd.Render(ctx, locator)
	if err != nil && kind == Fragment && errors.Is(err, render.ErrRetrieval) {
		logger.WithError(err).Info("fragment unavailable, embedding instead")
		job.Kind = Embedded
		rd = r.Embedded
		f, err = rd.Render(ctx, locator)
	}
	if err != nil {
		logger.WithError(err).Error("render failed")
		job.Err = err
		f = rd.Failure(locator, err)
	}
	job.Fragment = f
	return job
}

// Apply writes the job's result into doc.
func (j *Job) Apply(doc *page.Document) {
	if j.Redirect != "" {
		doc.Redirect(j.Redirect)
		return
	}
	if j.Fragment != nil {
		doc.Replace(j.Fragment)
	}
}

func (r *Router) renderer(k Kind) Renderer {
	switch k {
	case PDF:
		return r.PDF
	case Video:
		return r.Video
	case Embedded:
		return r.Embedded
	default:
		return r.Fragment
	}
}

func (r *Router) logger() *log.Entry {
	if r.Log != nil {
		return r.Log
	}
	return log.WithField("component", "dispatch")
}

// NewRouter wires the standard renderers over one fetcher.
func NewRouter(f fetch.Fetcher, images render.ImageRewriter, links page.Linker, redirectParams []string) *Router {
	return &Router{
		PDF:            &render.PDF{Fetcher: f, Pages: render.PDFPages{}, Links: links},
		Video:          &render.Video{Links: links},
		Embedded:       &render.Frame{Links: links},
		Fragment:       render.NewFragment(f, images),
		RedirectParams: redirectParams,
	}
}
