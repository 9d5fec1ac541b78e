package am

// Config represents the kin configuration
type Config struct {
	Parser  ParserConfig  `mapstructure:"parser" toml:"parser" json:"parser" yaml:"parser"`
	Graph   GraphConfig   `mapstructure:"graph" toml:"graph" json:"graph" yaml:"graph"`
	Suggest SuggestConfig `mapstructure:"suggest" toml:"suggest" json:"suggest" yaml:"suggest"`
	Server  ServerConfig  `mapstructure:"server" toml:"server" json:"server" yaml:"server"`
	Log     LogConfig     `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// ParserConfig configures phrase resolution
type ParserConfig struct {
	MaxRemoved int `mapstructure:"max_removed" toml:"max_removed" json:"max_removed" yaml:"max_removed"` // Deepest "N times removed" expanded (1-9)
}

// GraphConfig configures DOT rendering
type GraphConfig struct {
	LabelWidth int    `mapstructure:"label_width" toml:"label_width" json:"label_width" yaml:"label_width"` // Wrap width for node labels, 0 = no wrapping
	Size       string `mapstructure:"size" toml:"size" json:"size" yaml:"size"`                             // Graphviz size attribute (e.g., "10,10")
}

// SuggestConfig configures autosuggest
type SuggestConfig struct {
	DefaultLimit int `mapstructure:"default_limit" toml:"default_limit" json:"default_limit" yaml:"default_limit"` // Suggestions returned when no limit is given
	MaxLimit     int `mapstructure:"max_limit" toml:"max_limit" json:"max_limit" yaml:"max_limit"`                 // Upper bound on a requested limit
	MaxGreats    int `mapstructure:"max_greats" toml:"max_greats" json:"max_greats" yaml:"max_greats"`             // Deepest "great-" prefix offered
}

// ServerConfig configures the kin web server
type ServerConfig struct {
	BindAddress         string   `mapstructure:"bind_address" toml:"bind_address" json:"bind_address" yaml:"bind_address"`
	AllowedOrigins      []string `mapstructure:"allowed_origins" toml:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins"`
	RateLimit           float64  `mapstructure:"rate_limit" toml:"rate_limit" json:"rate_limit" yaml:"rate_limit"` // Requests per second per client, 0 = unlimited
	RateBurst           int      `mapstructure:"rate_burst" toml:"rate_burst" json:"rate_burst" yaml:"rate_burst"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" toml:"read_timeout_seconds" json:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" toml:"write_timeout_seconds" json:"write_timeout_seconds" yaml:"write_timeout_seconds"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"` // JSON lines instead of console output
}

// Server defaults
const (
	DefaultBindAddress  = "127.0.0.1:8787"
	DefaultRateLimit    = 20.0
	DefaultRateBurst    = 40
	DefaultReadTimeout  = 10
	DefaultWriteTimeout = 10
)

// Parser, graph and suggest defaults
const (
	DefaultMaxRemoved     = 9
	DefaultLabelWidth     = 16
	DefaultGraphSize      = "10,10"
	DefaultSuggestLimit   = 10
	DefaultSuggestMaximum = 100
	DefaultMaxGreats      = 5
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
