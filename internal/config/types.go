package config

// LogFormat selects the logrus formatter.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config is the top-level docportal configuration, corresponding to .docportal.yml.
type Config struct {
	Port               int       `yaml:"port" koanf:"port"`
	CatalogFile        string    `yaml:"catalog_file" koanf:"catalog_file"`
	ContentDir         string    `yaml:"content_dir" koanf:"content_dir"`
	ContentBaseURL     string    `yaml:"content_base_url" koanf:"content_base_url"`
	PublicPrefix       string    `yaml:"public_prefix" koanf:"public_prefix"`
	DefaultSection     string    `yaml:"default_section" koanf:"default_section"`
	DataDir            string    `yaml:"data_dir" koanf:"data_dir"`
	AllowAllOrigins    bool      `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	FetchTimeoutSecs   int       `yaml:"fetch_timeout_seconds" koanf:"fetch_timeout_seconds"`
	RedirectParams     []string  `yaml:"redirect_params" koanf:"redirect_params"`
	SessionIdleMinutes int       `yaml:"session_idle_minutes" koanf:"session_idle_minutes"`
	LogLevel           string    `yaml:"log_level" koanf:"log_level"`
	LogFormat          LogFormat `yaml:"log_format" koanf:"log_format"`
}
