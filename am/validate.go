package am

import (
	"net"

	"github.com/teranos/kin/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Parser.MaxRemoved < 1 || c.Parser.MaxRemoved > DefaultMaxRemoved {
		return errors.Newf("parser.max_removed must be between 1 and %d, got %d", DefaultMaxRemoved, c.Parser.MaxRemoved)
	}

	// 0 disables wrapping
	if c.Graph.LabelWidth < 0 {
		return errors.Newf("graph.label_width must be >= 0, got %d", c.Graph.LabelWidth)
	}

	if c.Suggest.DefaultLimit < 1 {
		return errors.Newf("suggest.default_limit must be > 0, got %d", c.Suggest.DefaultLimit)
	}
	if c.Suggest.MaxLimit < c.Suggest.DefaultLimit {
		return errors.Newf("suggest.max_limit (%d) must be >= suggest.default_limit (%d)",
			c.Suggest.MaxLimit, c.Suggest.DefaultLimit)
	}
	if c.Suggest.MaxGreats < 0 {
		return errors.Newf("suggest.max_greats must be >= 0, got %d", c.Suggest.MaxGreats)
	}

	if _, _, err := net.SplitHostPort(c.Server.BindAddress); err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "server.bind_address %q is not host:port", c.Server.BindAddress),
			"for example 127.0.0.1:8787")
	}

	// Rate limit: 0 = unlimited, negative = invalid
	if c.Server.RateLimit < 0 {
		return errors.Newf("server.rate_limit must be >= 0, got %g", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return errors.Newf("server.rate_burst must be > 0 when rate_limit is set, got %d", c.Server.RateBurst)
	}
	if c.Server.ReadTimeoutSeconds < 0 {
		return errors.Newf("server.read_timeout_seconds must be >= 0, got %d", c.Server.ReadTimeoutSeconds)
	}
	if c.Server.WriteTimeoutSeconds < 0 {
		return errors.Newf("server.write_timeout_seconds must be >= 0, got %d", c.Server.WriteTimeoutSeconds)
	}

	return nil
}
