package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/webmonitor"
)

func TestParse_MinimalConfig(t *testing.T) {
	yaml := `
addresses:
  - https://example.com
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.Interval != DefaultInterval {
		t.Errorf("Interval = %d, want %d", cfg.Interval, DefaultInterval)
	}
	if cfg.Timeout.Duration() != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout.Duration(), DefaultTimeout)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if len(cfg.Addresses) != 1 {
		t.Errorf("len(Addresses) = %d, want 1", len(cfg.Addresses))
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
interval: 30
timeout: 2s
max_concurrency: 4
status_addr: 127.0.0.1:8080

addresses:
  - https://example.com
  - example.org:8080/status

grids:
  - url_template: "https://{{.env}}.example.com/health"
    dimensions:
      env: [prod, staging]

log:
  level: debug
  file: /tmp/webmonitor.log
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Interval != 30 {
		t.Errorf("Interval = %d, want 30", cfg.Interval)
	}
	if cfg.Timeout.Duration() != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", cfg.Timeout.Duration())
	}
	if cfg.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency = %d, want 4", cfg.MaxConcurrency)
	}
	if cfg.StatusAddr != "127.0.0.1:8080" {
		t.Errorf("StatusAddr = %q, want 127.0.0.1:8080", cfg.StatusAddr)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/webmonitor.log" {
		t.Errorf("Log = %+v", cfg.Log)
	}

	addrs, err := cfg.AllAddresses()
	if err != nil {
		t.Fatalf("AllAddresses() error = %v", err)
	}
	want := []string{
		"https://example.com",
		"example.org:8080/status",
		"https://prod.example.com/health",
		"https://staging.example.com/health",
	}
	if !reflect.DeepEqual(addrs, want) {
		t.Errorf("AllAddresses() = %v, want %v", addrs, want)
	}
}

func TestParse_NoAddressesAccepted(t *testing.T) {
	cfg, err := Parse([]byte("interval: 2\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	err = cfg.Validate()
	if !errors.Is(err, webmonitor.ErrNoTargets) {
		t.Errorf("Validate() error = %v, want ErrNoTargets", err)
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	t.Setenv("TEST_API_HOST", "api.test.com")

	yaml := `
addresses:
  - https://${TEST_API_HOST}/health
  - https://${UNSET_VAR:-fallback.example.com}/health
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []string{"https://api.test.com/health", "https://fallback.example.com/health"}
	if !reflect.DeepEqual(cfg.Addresses, want) {
		t.Errorf("Addresses = %v, want %v", cfg.Addresses, want)
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	// MISSING_VAR is expected to not exist in the environment
	yaml := `
addresses:
  - https://${MISSING_VAR}/health
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() expected error for missing env var, got nil")
	}
	if !strings.Contains(err.Error(), "MISSING_VAR") {
		t.Errorf("error should mention MISSING_VAR: %v", err)
	}

	var cfgErr *webmonitor.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "addresses[0]" {
		t.Errorf("error = %v, want *ConfigError for addresses[0]", err)
	}
}

func TestParse_EnvVarInGridTemplate(t *testing.T) {
	t.Setenv("TEST_DOMAIN", "example.com")

	yaml := `
grids:
  - url_template: "https://{{.env}}.${TEST_DOMAIN}/health"
    dimensions:
      env: [prod]
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Grids[0].URLTemplate != "https://{{.env}}.example.com/health" {
		t.Errorf("URLTemplate = %q", cfg.Grids[0].URLTemplate)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantField string
	}{
		{
			name:      "negative interval",
			yaml:      "interval: -1\naddresses: [https://example.com]\n",
			wantField: "interval",
		},
		{
			name:      "timeout too short",
			yaml:      "timeout: 500ms\naddresses: [https://example.com]\n",
			wantField: "timeout",
		},
		{
			name:      "timeout too long",
			yaml:      "timeout: 11s\naddresses: [https://example.com]\n",
			wantField: "timeout",
		},
		{
			name:      "negative max concurrency",
			yaml:      "max_concurrency: -2\naddresses: [https://example.com]\n",
			wantField: "max_concurrency",
		},
		{
			name:      "unknown log level",
			yaml:      "log:\n  level: verbose\naddresses: [https://example.com]\n",
			wantField: "log.level",
		},
		{
			name:      "status address without port",
			yaml:      "status_addr: localhost\naddresses: [https://example.com]\n",
			wantField: "status_addr",
		},
		{
			name:      "unsupported scheme",
			yaml:      "addresses: [https://example.com, ftp://files.example.com]\n",
			wantField: "addresses[1]",
		},
		{
			name:      "empty address",
			yaml:      "addresses: ['']\n",
			wantField: "addresses[0]",
		},
		{
			name:      "grid without template",
			yaml:      "grids:\n  - dimensions:\n      env: [prod]\n",
			wantField: "grids[0]",
		},
		{
			name:      "grid with bad template",
			yaml:      "grids:\n  - url_template: \"https://{{.env\"\n    dimensions:\n      env: [prod]\n",
			wantField: "grids[0]",
		},
		{
			name:      "grid without dimensions",
			yaml:      "grids:\n  - url_template: \"https://{{.env}}.example.com\"\n",
			wantField: "grids[0]",
		},
		{
			name:      "grid with empty dimension",
			yaml:      "grids:\n  - url_template: \"https://{{.env}}.example.com\"\n    dimensions:\n      env: []\n",
			wantField: "grids[0]",
		},
		{
			name:      "grid with duplicate value",
			yaml:      "grids:\n  - url_template: \"https://{{.env}}.example.com\"\n    dimensions:\n      env: [prod, prod]\n",
			wantField: "grids[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}

			var cfgErr *webmonitor.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Parse() error = %T (%v), want *ConfigError", err, err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q (error: %v)", cfgErr.Field, tt.wantField, err)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("addresses: [unclosed"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("error = %v, want YAML parse error", err)
	}
}

func TestParse_IntervalMustBeWholeSeconds(t *testing.T) {
	if _, err := Parse([]byte("interval: 5s\naddresses: [https://example.com]\n")); err == nil {
		t.Error("Parse() expected error for duration string interval, got nil")
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"seconds", "10s", 10 * time.Second, false},
		{"milliseconds", "1500ms", 1500 * time.Millisecond, false},
		{"minutes", "2m", 2 * time.Minute, false},
		{"combined", "1m30s", 90 * time.Second, false},
		{"invalid", "not-a-duration", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				D Duration `yaml:"d"`
			}
			err := yaml.Unmarshal([]byte("d: "+tt.input), &v)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Unmarshal() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if v.D.Duration() != tt.want {
				t.Errorf("Duration = %v, want %v", v.D.Duration(), tt.want)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "value")
	t.Setenv("EMPTY_VAR", "") // set but empty

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"no vars", "plain text", "plain text", false},
		{"simple var", "${TEST_VAR}", "value", false},
		{"var in text", "prefix ${TEST_VAR} suffix", "prefix value suffix", false},
		{"multiple vars", "${TEST_VAR}-${TEST_VAR}", "value-value", false},
		{"with default (var set)", "${TEST_VAR:-default}", "value", false},
		{"with default (var unset)", "${UNSET:-default}", "default", false},
		{"missing required", "${MISSING}", "", true},
		{"empty default (var unset)", "${UNSET:-}", "", false},
		{"set but empty var", "${EMPTY_VAR}", "", false},
		{"set but empty with default", "${EMPTY_VAR:-fallback}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// UNSET and MISSING are expected to not exist in environment
			got, err := expandEnvVars(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expandEnvVars() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expandEnvVars() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		address string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://example.com:8080/health?x=1", false},
		{"example.com", false},
		{"localhost:9000", false},
		{"", true},
		{"ftp://example.com", true},
		{"https://", true},
		{"http://exa mple.com", true},
	}

	for _, tt := range tests {
		err := ValidateAddress(tt.address)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAddress(%q) error = %v, wantErr %v", tt.address, err, tt.wantErr)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "info", "warn", "warning", "error", "ERROR"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q) error = %v", s, err)
		}
	}
	if _, err := ParseLevel("trace"); err == nil {
		t.Error("ParseLevel(trace) expected error, got nil")
	}
}

func TestValidate_GridOnly(t *testing.T) {
	cfg := Default()
	cfg.Grids = []GridConfig{{
		URLTemplate: "https://{{.region}}.example.com",
		Dimensions:  map[string][]string{"region": {"eu", "us"}},
	}}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_GridMissingKey(t *testing.T) {
	cfg := Default()
	cfg.Grids = []GridConfig{{
		URLTemplate: "https://{{.region}}.example.com",
		Dimensions:  map[string][]string{"env": {"prod"}},
	}}

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for missing template key, got nil")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webmonitor.yaml")
	if err := os.WriteFile(path, []byte("addresses: [https://example.com]\ninterval: 3\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Interval != 3 {
		t.Errorf("Interval = %d, want 3", cfg.Interval)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want wrapping os.ErrNotExist", err)
	}
}
