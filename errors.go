package webmonitor

import (
	"errors"
	"fmt"

	"github.com/jpalmerr/webmonitor/internal/display"
	"github.com/jpalmerr/webmonitor/internal/poller"
)

// ErrNoTargets is returned when a monitor is configured without addresses.
var ErrNoTargets = errors.New("program requires one or more addresses to monitor")

// ConfigError reports an invalid startup setting. It is fatal.
type ConfigError struct {
	// Field names the offending setting, e.g. "interval".
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// RenderError is a failure to write to the terminal. It ends [Monitor.Run].
type RenderError = display.RenderError

// ProbeError is the failure reason of a single probe, carried in
// [Result.Err]. It never ends [Monitor.Run].
type ProbeError = poller.ProbeError
