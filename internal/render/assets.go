package render

import (
	"path"
	"strings"

	"github.com/ziadkadry99/docportal/internal/catalog"
	"github.com/ziadkadry99/docportal/internal/page"
)

// ImageRewriter maps an image reference found inside a fragment to the
// URL the browser should load it from.
type ImageRewriter interface {
	RewriteImage(locator, src string) string
}

// AssetTable resolves relative image references against each fragment's
// asset directory. Exported HTML pages usually keep their images in a
// sibling "<name>_files" directory; catalog items may name another one.
type AssetTable struct {
	dirs  map[string]string
	links page.Linker
}

// NewAssetTable collects the asset directories declared in cat.
func NewAssetTable(cat *catalog.Catalog, links page.Linker) *AssetTable {
	t := &AssetTable{dirs: make(map[string]string), links: links}
	if cat == nil {
		return t
	}
	for _, sec := range cat.Sections() {
		for _, it := range sec.Items {
			if it.AssetDir != "" {
				t.dirs[it.Locator] = it.AssetDir
			}
		}
	}
	return t
}

func (t *AssetTable) RewriteImage(locator, src string) string {
	src = strings.TrimSpace(src)
	lower := strings.ToLower(src)
	switch {
	case src == "",
		strings.HasPrefix(lower, "http://"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "data:"),
		strings.HasPrefix(src, "/"):
		return src
	}

	dir, ok := t.dirs[locator]
	if !ok {
		base := path.Base(locator)
		dir = strings.TrimSuffix(base, path.Ext(base)) + "_files"
	}
	name := path.Base(strings.ReplaceAll(src, "\\", "/"))
	return t.links.Href(path.Join(path.Dir(locator), dir, name))
}
