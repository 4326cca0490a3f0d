package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resty.dev/v3"
)

// HTTP retrieves locators from a web server. Relative locators are
// resolved against the base URL; absolute ones are requested as-is.
type HTTP struct {
	client *resty.Client
}

// NewHTTP returns an HTTP fetcher. baseURL may be empty when only
// absolute locators will be fetched.
func NewHTTP(baseURL string, timeout time.Duration, retries int) *HTTP {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/pdf,*/*;q=0.8")
	if baseURL != "" {
		client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	}
	return &HTTP{client: client}
}

func (h *HTTP) Fetch(ctx context.Context, locator string) ([]byte, error) {
	target := locator
	if !IsRemote(locator) {
		target = "/" + escapePath(strings.TrimPrefix(locator, "/"))
	}

	resp, err := h.client.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, locator)
	case resp.IsError():
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrUnavailable, resp.StatusCode(), locator)
	}
	return resp.Bytes(), nil
}

// escapePath percent-encodes each segment of a slash-separated path.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
