package webmonitor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/muesli/termenv"
)

// monitorConfig holds mutable state during Monitor construction.
type monitorConfig struct {
	addresses      []string
	interval       time.Duration
	timeout        time.Duration
	output         io.Writer
	profile        termenv.Profile
	profileSet     bool
	logger         *slog.Logger
	maxConcurrency int
	roundCallbacks []func([]Result)
	statusAddr     string
}

// Option is a function that configures a [Monitor] instance during construction.
//
// Options return a [*ConfigError] if validation fails.
//
// Built-in options: [WithAddresses], [WithInterval], [WithTimeout],
// [WithOutput], [WithColorProfile], [WithLogger], [WithMaxConcurrency],
// [WithRoundCallback], [WithStatusServer].
type Option func(*monitorConfig) error

// WithAddresses appends addresses to the monitored list.
//
// Can be called multiple times; order is preserved and is the left-to-right
// order on screen. The same address may appear more than once. An address
// without a scheme is probed over plain HTTP.
//
// Example:
//
//	m, err := webmonitor.New(
//	    webmonitor.WithAddresses("https://example.com", "https://example.org"),
//	)
//
// Returns an error if any address is empty.
func WithAddresses(addresses ...string) Option {
	return func(cfg *monitorConfig) error {
		for i, addr := range addresses {
			if addr == "" {
				return &ConfigError{Field: "address", Err: fmt.Errorf("address %d is empty", i)}
			}
		}
		cfg.addresses = append(cfg.addresses, addresses...)
		return nil
	}
}

// WithInterval sets the pause between the end of one round and the start of
// the next. Defaults to 5 seconds.
//
// Returns an error unless d is a whole number of seconds, at least one.
func WithInterval(d time.Duration) Option {
	return func(cfg *monitorConfig) error {
		if d < time.Second {
			return &ConfigError{Field: "interval", Err: errors.New("interval must be at least 1 second")}
		}
		if d%time.Second != 0 {
			return &ConfigError{Field: "interval", Err: fmt.Errorf("interval must be whole seconds, got %s", d)}
		}
		cfg.interval = d
		return nil
	}
}

// WithTimeout sets the per-probe timeout. A probe that does not finish in
// time is reported as [StatusFailure]. Defaults to 5 seconds.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *monitorConfig) error {
		if d <= 0 {
			return &ConfigError{Field: "timeout", Err: errors.New("timeout must be positive")}
		}
		cfg.timeout = d
		return nil
	}
}

// WithOutput sets the terminal the dashboard is drawn on. Defaults to
// [os.Stdout].
//
// Returns an error if w is nil.
func WithOutput(w io.Writer) Option {
	return func(cfg *monitorConfig) error {
		if w == nil {
			return &ConfigError{Field: "output", Err: errors.New("output cannot be nil")}
		}
		cfg.output = w
		return nil
	}
}

// WithColorProfile forces the color profile of the dashboard. By default the
// profile is detected from the environment when the output is a terminal,
// and colors are disabled otherwise.
func WithColorProfile(p termenv.Profile) Option {
	return func(cfg *monitorConfig) error {
		cfg.profile = p
		cfg.profileSet = true
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Monitor instance.
//
// The dashboard owns the terminal, so the logger should write somewhere
// else, such as a file. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *monitorConfig) error {
		if logger == nil {
			return &ConfigError{Field: "logger", Err: errors.New("logger cannot be nil")}
		}
		cfg.logger = logger
		return nil
	}
}

// WithMaxConcurrency caps the number of probes in flight during a round.
//
// Zero, the default, probes every address at once.
//
// Returns an error if the value is negative.
func WithMaxConcurrency(n int) Option {
	return func(cfg *monitorConfig) error {
		if n < 0 {
			return &ConfigError{Field: "max concurrency", Err: errors.New("max concurrency cannot be negative")}
		}
		cfg.maxConcurrency = n
		return nil
	}
}

// WithRoundCallback registers a function called after every rendered round
// with one [Result] per address, in address order.
//
// Multiple callbacks may be registered; they execute in registration order,
// each with its own copy of the results. Callbacks run on the render loop,
// so a slow callback delays the next round. Panics are recovered and logged.
//
// Nil callbacks are silently ignored.
func WithRoundCallback(cb func([]Result)) Option {
	return func(cfg *monitorConfig) error {
		if cb == nil {
			return nil
		}
		cfg.roundCallbacks = append(cfg.roundCallbacks, cb)
		return nil
	}
}

// WithStatusServer serves the latest round over HTTP on addr, for example
// "127.0.0.1:8080". GET /api/status returns the latest round as JSON and
// GET /api/sse streams one event per round. Only the latest round is kept.
//
// The server is off by default. [Monitor.Run] fails if addr cannot be bound.
//
// Returns an error if addr is empty.
func WithStatusServer(addr string) Option {
	return func(cfg *monitorConfig) error {
		if addr == "" {
			return &ConfigError{Field: "status address", Err: errors.New("status address cannot be empty")}
		}
		cfg.statusAddr = addr
		return nil
	}
}
