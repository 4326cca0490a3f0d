package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCPORTAL_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// DOCPORTAL_CONTENT_DIR -> content_dir, etc.
	if err := k.Load(env.Provider("DOCPORTAL_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DOCPORTAL_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogFormats = map[LogFormat]bool{
	LogFormatText: true,
	LogFormatJSON: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	if c.CatalogFile == "" {
		return fmt.Errorf("catalog_file is required")
	}

	if c.ContentDir == "" && c.ContentBaseURL == "" {
		return fmt.Errorf("one of content_dir or content_base_url is required")
	}

	if c.ContentBaseURL != "" {
		u, err := url.Parse(c.ContentBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid content_base_url %q: must be an http(s) URL", c.ContentBaseURL)
		}
	}

	if !strings.HasPrefix(c.PublicPrefix, "/") || !strings.HasSuffix(c.PublicPrefix, "/") {
		return fmt.Errorf("invalid public_prefix %q: must start and end with /", c.PublicPrefix)
	}

	if c.DefaultSection == "" {
		return fmt.Errorf("default_section is required")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.FetchTimeoutSecs <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive")
	}

	if c.SessionIdleMinutes <= 0 {
		return fmt.Errorf("session_idle_minutes must be positive")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	if c.LogFormat != "" && !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format %q: must be one of text, json", c.LogFormat)
	}

	return nil
}
