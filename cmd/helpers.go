package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/ziadkadry99/docportal/internal/catalog"
	"github.com/ziadkadry99/docportal/internal/config"
	"github.com/ziadkadry99/docportal/internal/db"
	"github.com/ziadkadry99/docportal/internal/dispatch"
	"github.com/ziadkadry99/docportal/internal/fetch"
	"github.com/ziadkadry99/docportal/internal/logging"
	"github.com/ziadkadry99/docportal/internal/page"
	"github.com/ziadkadry99/docportal/internal/render"
)

const fetchRetries = 2

// loadConfig loads and validates the config, then sets up logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docportal init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	if err := logging.Setup(os.Stderr, level, string(cfg.LogFormat)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCatalog reads the catalog named by cfg and expands glob sections
// against the local content directory.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	if _, ok := cat.Section(cfg.DefaultSection); ok {
		if err := cat.SetDefault(cfg.DefaultSection); err != nil {
			return nil, err
		}
	} else {
		logging.For("catalog").WithFields(log.Fields{
			"configured": cfg.DefaultSection,
			"using":      cat.Default().Key,
		}).Warn("default section not in catalog")
	}
	if cfg.ContentDir != "" {
		if err := cat.ExpandGlobs(os.DirFS(cfg.ContentDir)); err != nil {
			return nil, fmt.Errorf("expanding catalog globs: %w", err)
		}
	}
	return cat, nil
}

// newFetcher returns the fetcher for cfg's content source. Absolute URLs
// always go over HTTP; relative locators are read from the content
// directory, or from content_base_url when one is set.
func newFetcher(cfg *config.Config) fetch.Fetcher {
	remote := fetch.NewHTTP("", cfg.FetchTimeout(), fetchRetries)
	var local fetch.Fetcher = fetch.NewDir(cfg.ContentDir)
	if cfg.ContentBaseURL != "" {
		local = fetch.NewHTTP(cfg.ContentBaseURL, cfg.FetchTimeout(), fetchRetries)
	}
	return fetch.NewShared(fetch.Mux{Local: local, Remote: remote})
}

// buildRouter wires the content renderers for cat.
func buildRouter(cfg *config.Config, cat *catalog.Catalog, f fetch.Fetcher) (*dispatch.Router, page.Linker) {
	links := page.Linker{Prefix: cfg.PublicPrefix}
	router := dispatch.NewRouter(f, render.NewAssetTable(cat, links), links, cfg.RedirectParams)
	router.Log = logging.For("dispatch")
	return router, links
}

// openDB opens the visit database under cfg.DataDir.
func openDB(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	database, err := db.Open(filepath.Join(cfg.DataDir, "docportal.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}
