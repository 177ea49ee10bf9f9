// Package config provides YAML configuration parsing for webmonitor.
//
// This package enables running webmonitor from a configuration file, as an
// alternative to listing every address on the command line. Flags given on
// the command line override the file.
//
// Example configuration:
//
//	interval: 5
//	timeout: 3s
//
//	addresses:
//	  - https://example.com
//	  - ${API_URL:-https://api.example.com}/health
//
//	grids:
//	  - url_template: "https://{{.env}}.example.com/health"
//	    dimensions:
//	      env: [prod, staging]
//
//	status_addr: 127.0.0.1:8080
//
//	log:
//	  level: info
//	  file: /tmp/webmonitor.log
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"regexp"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/webmonitor"
)

const (
	// DefaultInterval is the pause between rounds, in seconds.
	DefaultInterval = 5

	// DefaultTimeout is the per-probe timeout.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel keeps the log quiet while the dashboard owns the terminal.
	DefaultLogLevel = "error"

	minTimeout = 1 * time.Second
	maxTimeout = 10 * time.Second
)

// Config is the root configuration structure for webmonitor.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Addresses are monitored in order, left to right on screen.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Addresses []string `yaml:"addresses"`

	// Grids generate further addresses via cartesian product. They are
	// appended after Addresses.
	Grids []GridConfig `yaml:"grids"`

	// Interval is the pause between rounds in whole seconds. Defaults to 5.
	Interval int `yaml:"interval"`

	// Timeout is the per-probe timeout, between 1s and 10s. Defaults to 5s.
	Timeout Duration `yaml:"timeout"`

	// MaxConcurrency caps the probes in flight per round. Zero probes every
	// address at once.
	MaxConcurrency int `yaml:"max_concurrency"`

	// StatusAddr, if set, serves the latest round over HTTP on this
	// host:port. Empty disables the status server.
	StatusAddr string `yaml:"status_addr"`

	// Log configures the JSON log written by the webmonitor command.
	Log LogConfig `yaml:"log"`
}

// GridConfig defines an address grid that expands via cartesian product.
//
// For example, with dimensions {env: [prod, staging], svc: [api, web]},
// the grid expands to 4 addresses: prod/api, prod/web, staging/api, staging/web.
type GridConfig struct {
	// URLTemplate is a Go template for generating addresses.
	// Dimension keys are available as template variables: {{.env}}, {{.svc}}
	// Supports environment variable substitution in the template.
	URLTemplate string `yaml:"url_template"`

	// Dimensions maps dimension names to their possible values.
	Dimensions map[string][]string `yaml:"dimensions"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error. Defaults to error.
	Level string `yaml:"level"`

	// File receives the JSON log. Empty means stderr.
	File string `yaml:"file"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		varName := submatches[1]
		hasDefault := submatches[2] != ""

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return submatches[3]
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in addresses and grid templates.
// Defaults are applied for Interval (5), Timeout (5s) and the log level
// (error). Every field present is validated; a file without addresses is
// accepted since the command line may supply them. Use [Config.Validate]
// once all sources are merged.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.expandEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validateFields(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a Config holding only defaults, for runs without a file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.Timeout == 0 {
		c.Timeout = Duration(DefaultTimeout)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

func (c *Config) expandEnv() error {
	for i, addr := range c.Addresses {
		expanded, err := expandEnvVars(addr)
		if err != nil {
			return &webmonitor.ConfigError{Field: fmt.Sprintf("addresses[%d]", i), Err: err}
		}
		c.Addresses[i] = expanded
	}

	for i := range c.Grids {
		expanded, err := expandEnvVars(c.Grids[i].URLTemplate)
		if err != nil {
			return &webmonitor.ConfigError{Field: fmt.Sprintf("grids[%d].url_template", i), Err: err}
		}
		c.Grids[i].URLTemplate = expanded
	}
	return nil
}

// Validate checks the merged configuration. Besides every field check done
// by [Parse], it requires at least one address, given directly or through
// a grid.
func (c *Config) Validate() error {
	if err := c.validateFields(); err != nil {
		return err
	}

	addrs, err := c.AllAddresses()
	if err != nil {
		return err
	}
	if len(addrs) == 0 {
		return &webmonitor.ConfigError{Field: "addresses", Err: webmonitor.ErrNoTargets}
	}
	return nil
}

func (c *Config) validateFields() error {
	if c.Interval < 1 {
		return &webmonitor.ConfigError{
			Field: "interval",
			Err:   fmt.Errorf("interval must be at least 1 second, got %d", c.Interval),
		}
	}

	if d := c.Timeout.Duration(); d < minTimeout || d > maxTimeout {
		return &webmonitor.ConfigError{
			Field: "timeout",
			Err:   fmt.Errorf("timeout must be between %s and %s, got %s", minTimeout, maxTimeout, d),
		}
	}

	if c.MaxConcurrency < 0 {
		return &webmonitor.ConfigError{
			Field: "max_concurrency",
			Err:   fmt.Errorf("max_concurrency cannot be negative, got %d", c.MaxConcurrency),
		}
	}

	if c.StatusAddr != "" {
		if _, _, err := net.SplitHostPort(c.StatusAddr); err != nil {
			return &webmonitor.ConfigError{Field: "status_addr", Err: err}
		}
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return &webmonitor.ConfigError{Field: "log.level", Err: err}
	}

	for i, addr := range c.Addresses {
		if err := ValidateAddress(addr); err != nil {
			return &webmonitor.ConfigError{Field: fmt.Sprintf("addresses[%d]", i), Err: err}
		}
	}

	for i, g := range c.Grids {
		field := fmt.Sprintf("grids[%d]", i)

		if g.URLTemplate == "" {
			return &webmonitor.ConfigError{Field: field, Err: errors.New("url_template is required")}
		}
		// fail fast before the SDK tries to use an invalid template
		if _, err := template.New("").Parse(g.URLTemplate); err != nil {
			return &webmonitor.ConfigError{Field: field, Err: fmt.Errorf("invalid url_template: %w", err)}
		}

		if len(g.Dimensions) == 0 {
			return &webmonitor.ConfigError{Field: field, Err: errors.New("at least one dimension is required")}
		}
		for dimName, dimValues := range g.Dimensions {
			if len(dimValues) == 0 {
				return &webmonitor.ConfigError{Field: field, Err: fmt.Errorf("dimension %q has no values", dimName)}
			}
			seen := make(map[string]struct{}, len(dimValues))
			for _, v := range dimValues {
				if _, exists := seen[v]; exists {
					return &webmonitor.ConfigError{
						Field: field,
						Err:   fmt.Errorf("dimension %q has duplicate value %q", dimName, v),
					}
				}
				seen[v] = struct{}{}
			}
		}
	}

	return nil
}

// AllAddresses returns the direct addresses followed by every grid's
// expansion, in file order.
func (c *Config) AllAddresses() ([]string, error) {
	addrs := append([]string(nil), c.Addresses...)
	for i, g := range c.Grids {
		expanded, err := webmonitor.ExpandAddressGrid(g.URLTemplate, g.Dimensions)
		if err != nil {
			return nil, &webmonitor.ConfigError{Field: fmt.Sprintf("grids[%d]", i), Err: err}
		}
		for j, addr := range expanded {
			if err := ValidateAddress(addr); err != nil {
				return nil, &webmonitor.ConfigError{Field: fmt.Sprintf("grids[%d] address %d", i, j), Err: err}
			}
		}
		addrs = append(addrs, expanded...)
	}
	return addrs, nil
}

// ValidateAddress checks that address can be probed: an http or https URL
// with a host. An address without a scheme is treated as plain HTTP.
func ValidateAddress(address string) error {
	if address == "" {
		return errors.New("address is empty")
	}

	raw := address
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("address scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("address %q has no host", address)
	}
	return nil
}

// ParseLevel maps a level name to a [slog.Level].
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (expected debug, info, warn or error)", s)
	}
}
