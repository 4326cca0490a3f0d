// Package catalog holds the read-only mapping from section keys to their
// titles and ordered content items.
package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrUnknownItem    = errors.New("unknown item")
)

// Catalog is the parsed content catalog. It is never mutated after Load
// (ExpandGlobs runs once, before the catalog is shared).
type Catalog struct {
	sections   []*Section
	byKey      map[string]*Section
	defaultKey string
}

// Load reads and parses the catalog YAML file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return New(doc.DefaultSection, doc.Sections...)
}

// New builds a catalog from sections in sidebar order. An empty defaultKey
// selects the first section.
func New(defaultKey string, sections ...Section) (*Catalog, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("catalog has no sections")
	}

	c := &Catalog{byKey: make(map[string]*Section, len(sections))}
	for i := range sections {
		s := sections[i]
		if s.Key == "" {
			return nil, fmt.Errorf("section %d has no key", i)
		}
		if strings.Contains(s.Key, "/") {
			return nil, fmt.Errorf("section key %q must not contain '/'", s.Key)
		}
		if _, dup := c.byKey[s.Key]; dup {
			return nil, fmt.Errorf("duplicate section key %q", s.Key)
		}
		if s.Title == "" {
			s.Title = formatName(s.Key)
		}
		s.Items = append([]Item(nil), s.Items...)
		seen := make(map[string]bool, len(s.Items))
		for j, it := range s.Items {
			if it.Locator == "" {
				return nil, fmt.Errorf("section %q item %d has no locator", s.Key, j)
			}
			if seen[it.Locator] {
				return nil, fmt.Errorf("section %q lists %q twice", s.Key, it.Locator)
			}
			seen[it.Locator] = true
			if it.Title == "" {
				s.Items[j].Title = formatName(Slug(it.Locator))
			}
		}
		c.sections = append(c.sections, &s)
		c.byKey[s.Key] = &s
	}

	if defaultKey == "" {
		defaultKey = c.sections[0].Key
	}
	if err := c.SetDefault(defaultKey); err != nil {
		return nil, err
	}
	return c, nil
}

// SetDefault changes the fallback section.
func (c *Catalog) SetDefault(key string) error {
	if _, ok := c.byKey[key]; !ok {
		return fmt.Errorf("default section %q: %w", key, ErrUnknownSection)
	}
	c.defaultKey = key
	return nil
}

// Default returns the fallback section used for unknown references.
func (c *Catalog) Default() *Section {
	return c.byKey[c.defaultKey]
}

// Sections returns the sections in sidebar order.
func (c *Catalog) Sections() []*Section {
	return c.sections
}

// Section looks up a section by key.
func (c *Catalog) Section(key string) (*Section, bool) {
	s, ok := c.byKey[key]
	return s, ok
}

// Item looks up an item by locator within a section.
func (c *Catalog) Item(sectionKey, locator string) (*Section, *Item, error) {
	s, ok := c.byKey[sectionKey]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSection, sectionKey)
	}
	if it := s.find(locator); it != nil {
		return s, it, nil
	}
	return s, nil, fmt.Errorf("%w: %q in section %q", ErrUnknownItem, locator, sectionKey)
}

// ResolveSlug finds the item in a section addressed by a URL fragment slug.
// An exact filename-stem match wins; otherwise the first item whose locator
// contains the slug is used.
func (c *Catalog) ResolveSlug(sectionKey, slug string) (*Item, bool) {
	s, ok := c.byKey[sectionKey]
	if !ok || slug == "" {
		return nil, false
	}
	for i := range s.Items {
		if Slug(s.Items[i].Locator) == slug {
			return &s.Items[i], true
		}
	}
	for i := range s.Items {
		if strings.Contains(s.Items[i].Locator, slug) {
			return &s.Items[i], true
		}
	}
	return nil, false
}

func (s *Section) find(locator string) *Item {
	for i := range s.Items {
		if s.Items[i].Locator == locator {
			return &s.Items[i]
		}
	}
	return nil
}

// Slug returns the filename stem of a locator: the last path element with
// its extension removed. Query strings and fragments of URLs are ignored.
func Slug(locator string) string {
	p := locator
	if u, err := url.Parse(locator); err == nil && u.Scheme != "" {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	base := path.Base(strings.TrimSuffix(p, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// formatName converts a slug to a human-readable title.
func formatName(name string) string {
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
