package visits

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/ziadkadry99/docportal/internal/nav"
)

// Recorder logs navigation transitions to the store.
type Recorder struct {
	Store *Store
	Log   *log.Entry
}

// RecordTransition implements nav.Recorder. Failures are logged and
// never reach the navigation path.
func (r *Recorder) RecordTransition(ctx context.Context, t nav.Transition) {
	v := Visit{
		SessionID:    t.Session,
		Timestamp:    t.At,
		Event:        string(t.Event),
		View:         ViewSection,
		Section:      t.Section,
		Item:         t.Item,
		Title:        t.Title,
		BackDepth:    t.Back,
		ForwardDepth: t.Forward,
	}
	switch {
	case t.Redirect != "":
		v.View = ViewRedirect
		v.Redirect = t.Redirect
	case t.Item != "":
		v.View = ViewPage
	}

	if err := r.Store.Log(context.WithoutCancel(ctx), v); err != nil {
		logger := r.Log
		if logger == nil {
			logger = log.WithField("component", "visits")
		}
		logger.WithError(err).WithField("session", t.Session).Warn("could not record visit")
	}
}
