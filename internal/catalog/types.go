package catalog

// Item is one clickable card in a section grid.
type Item struct {
	Locator     string `yaml:"locator"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Image       string `yaml:"image,omitempty"`
	// External items leave the portal instead of loading into the content area.
	External bool `yaml:"external,omitempty"`
	// AssetDir overrides the folder that holds a fragment's relative images.
	AssetDir string `yaml:"asset_dir,omitempty"`
}

// Section is a sidebar entry with its ordered items.
type Section struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
	// Glob adds every matching file under the content root as an item.
	Glob  string `yaml:"glob,omitempty"`
	Items []Item `yaml:"items"`
}

// document is the on-disk catalog layout.
type document struct {
	DefaultSection string    `yaml:"default_section"`
	Sections       []Section `yaml:"sections"`
}
