package config

import (
	"time"

	"github.com/jpalmerr/webmonitor"
)

// BuildOptions converts a validated configuration into SDK options.
//
// Direct addresses come first, followed by each grid's expansion, so the
// on-screen order follows the file.
func BuildOptions(cfg *Config) []webmonitor.Option {
	opts := []webmonitor.Option{
		webmonitor.WithAddresses(cfg.Addresses...),
	}

	for _, g := range cfg.Grids {
		opts = append(opts, webmonitor.WithAddressGrid(g.URLTemplate, g.Dimensions))
	}

	opts = append(opts,
		webmonitor.WithInterval(time.Duration(cfg.Interval)*time.Second),
		webmonitor.WithTimeout(cfg.Timeout.Duration()),
		webmonitor.WithMaxConcurrency(cfg.MaxConcurrency),
	)

	if cfg.StatusAddr != "" {
		opts = append(opts, webmonitor.WithStatusServer(cfg.StatusAddr))
	}

	return opts
}
