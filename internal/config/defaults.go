package config

import "time"

// DefaultConfigPath is where init writes and every command reads by default.
const DefaultConfigPath = ".docportal.yml"

// DefaultRedirectParams are the query keys that wrap the real destination
// of an external link (sign-in interstitials and similar).
var DefaultRedirectParams = []string{"redirectUrl"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:               8080,
		CatalogFile:        "catalog.yml",
		ContentDir:         ".",
		PublicPrefix:       "/content/",
		DefaultSection:     "knowledge-base",
		DataDir:            ".docportal",
		FetchTimeoutSecs:   15,
		RedirectParams:     DefaultRedirectParams,
		SessionIdleMinutes: 120,
		LogLevel:           "info",
		LogFormat:          LogFormatText,
	}
}

// FetchTimeout returns the retrieval timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSecs) * time.Second
}

// SessionIdle returns how long an untouched session is kept alive.
func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}
