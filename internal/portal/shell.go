package portal

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/ziadkadry99/docportal/internal/catalog"
	"github.com/ziadkadry99/docportal/internal/dispatch"
)

//go:embed shell.html
var shellHTML string

//go:embed shell.js
var shellJS []byte

//go:embed shell.css
var shellCSS []byte

var shellTmpl = template.Must(template.New("shell").Parse(shellHTML))

type shellData struct {
	Title    string
	Default  string
	Sections []catalogSection
}

func (p *Portal) serveShell(w http.ResponseWriter, r *http.Request) {
	view := p.catalogView()
	data := shellData{
		Title:    "Portal",
		Default:  view.DefaultSection,
		Sections: view.Sections,
	}
	if def := p.opts.Catalog.Default(); def != nil {
		data.Title = def.Title
	}

	var buf bytes.Buffer
	if err := shellTmpl.Execute(&buf, data); err != nil {
		p.log.WithError(err).Error("rendering shell")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (p *Portal) catalogView() catalogResponse {
	cat := p.opts.Catalog
	resp := catalogResponse{Sections: []catalogSection{}}
	if def := cat.Default(); def != nil {
		resp.DefaultSection = def.Key
	}
	for _, sec := range cat.Sections() {
		cs := catalogSection{Key: sec.Key, Title: sec.Title, Items: []catalogItem{}}
		for _, it := range sec.Items {
			cs.Items = append(cs.Items, catalogItem{
				Locator:     it.Locator,
				Title:       it.Title,
				Description: it.Description,
				Image:       it.Image,
				External:    it.External,
				Kind:        dispatch.Classify(it.Locator, it.External).String(),
				Slug:        catalog.Slug(it.Locator),
			})
		}
		resp.Sections = append(resp.Sections, cs)
	}
	return resp
}

func serveAsset(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write(body)
	}
}
