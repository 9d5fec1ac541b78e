package am

import (
	"fmt"

	"github.com/spf13/viper"
)

var defaultAllowedOrigins = []string{
	"http://localhost",
	"https://localhost",
	"http://127.0.0.1",
	"https://127.0.0.1",
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("parser.max_removed", DefaultMaxRemoved)

	v.SetDefault("graph.label_width", DefaultLabelWidth)
	v.SetDefault("graph.size", DefaultGraphSize)

	v.SetDefault("suggest.default_limit", DefaultSuggestLimit)
	v.SetDefault("suggest.max_limit", DefaultSuggestMaximum)
	v.SetDefault("suggest.max_greats", DefaultMaxGreats)

	v.SetDefault("server.bind_address", DefaultBindAddress)
	v.SetDefault("server.allowed_origins", defaultAllowedOrigins)
	v.SetDefault("server.rate_limit", DefaultRateLimit)
	v.SetDefault("server.rate_burst", DefaultRateBurst)
	v.SetDefault("server.read_timeout_seconds", DefaultReadTimeout)
	v.SetDefault("server.write_timeout_seconds", DefaultWriteTimeout)

	v.SetDefault("log.json", false)
}

// BindEnvVars binds the settings most often overridden per process
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("server.bind_address", "KIN_SERVER_BIND_ADDRESS")
	v.BindEnv("log.json", "KIN_LOG_JSON")
}

// Default returns the built-in configuration, ignoring files and environment
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always unmarshal
		panic(err)
	}
	return cfg
}

// GetServerAllowedOrigins returns the allowed CORS origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return append([]string{}, defaultAllowedOrigins...)
	}
	return c.Server.AllowedOrigins
}

// ClampSuggestLimit applies the configured default and maximum to a requested limit
func (c *Config) ClampSuggestLimit(limit int) int {
	if limit <= 0 {
		limit = c.Suggest.DefaultLimit
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	if c.Suggest.MaxLimit > 0 && limit > c.Suggest.MaxLimit {
		limit = c.Suggest.MaxLimit
	}
	return limit
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Parser: {MaxRemoved: %d}, Server: {BindAddress: %s, RateLimit: %g}, Suggest: {DefaultLimit: %d}}",
		c.Parser.MaxRemoved, c.Server.BindAddress, c.Server.RateLimit, c.Suggest.DefaultLimit)
}
