package render

import (
	"context"

	"github.com/ziadkadry99/docportal/internal/page"
	"golang.org/x/net/html"
)

// Video plays a single clip. It starts muted so browsers allow autoplay.
type Video struct {
	Links page.Linker
}

func (v *Video) Render(ctx context.Context, locator string) (*page.Fragment, error) {
	video := page.Elem("video",
		"class", "video-player",
		"controls", "",
		"autoplay", "",
		"muted", "",
		"playsinline", "",
		"style", "width: 100%; height: 100%; object-fit: contain;",
	)
	page.Append(video, page.Elem("source", "src", v.Links.Href(locator), "type", "video/mp4"))

	wrapper := page.Append(page.Elem("div", "class", "content-page video-page"),
		page.Append(page.Elem("div", "class", "video-container"), video))

	return &page.Fragment{Kind: "video", Nodes: []*html.Node{wrapper}, Style: videoCSS}, nil
}

func (v *Video) Failure(locator string, err error) *page.Fragment {
	return failure("video", "content-page video-page", "This video could not be played. Please try again later.")
}
