package display

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jpalmerr/webmonitor/internal/poller"
)

// ErrNotReady is returned by [Display.Refresh] before [Display.Init].
var ErrNotReady = errors.New("display is not initialized")

// RenderError is a failure to write to the terminal.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

type state int

const (
	stateUninitialized state = iota
	stateReady
)

type displayConfig struct {
	profile termenv.Profile
}

// Option configures a [Display].
type Option func(*displayConfig)

// WithColorProfile sets the color profile used for cell colors. Defaults to
// [termenv.Ascii] (no colors).
func WithColorProfile(p termenv.Profile) Option {
	return func(cfg *displayConfig) {
		cfg.profile = p
	}
}

// Display renders the dashboard and refreshes its data cells in place.
//
// All output is buffered and flushed once per operation. A Display is not
// safe for concurrent use; it is driven by a single render loop.
type Display struct {
	addresses []string
	buf       *bufio.Writer
	out       *termenv.Output
	styles    Styles
	plan      Plan
	state     state
	closed    bool
}

// New creates a [Display] for addresses writing to w. Nothing is written
// until [Display.Init].
func New(w io.Writer, addresses []string, opts ...Option) *Display {
	cfg := displayConfig{profile: termenv.Ascii}
	for _, opt := range opts {
		opt(&cfg)
	}

	buf := bufio.NewWriter(w)
	renderer := lipgloss.NewRenderer(buf, termenv.WithProfile(cfg.profile))
	renderer.SetColorProfile(cfg.profile)

	return &Display{
		addresses: append([]string(nil), addresses...),
		buf:       buf,
		out:       termenv.NewOutput(buf, termenv.WithProfile(cfg.profile)),
		styles:    NewStyles(renderer),
	}
}

// Plan returns a copy of the layout plan. It is empty before [Display.Init].
func (d *Display) Plan() Plan {
	return Plan{
		Row:     d.plan.Row,
		Columns: append([]int(nil), d.plan.Columns...),
	}
}

// Init computes the layout and draws the empty frame. Calling Init on a
// ready display is a no-op.
func (d *Display) Init() error {
	if d.state == stateReady {
		return nil
	}

	d.plan = NewPlan(d.addresses)

	d.out.ClearScreen()
	d.out.HideCursor()
	for i, row := range Frame(d.addresses) {
		d.out.MoveCursor(i+1, 1)
		_, _ = d.buf.WriteString(d.styles.Frame.Render(row))
	}
	d.out.MoveCursor(RestRow, RestColumn)

	if err := d.flush("init"); err != nil {
		return err
	}
	d.state = stateReady
	return nil
}

// Refresh overwrites every data cell with the matching result. results
// must be in target order, one per target.
func (d *Display) Refresh(results []poller.ProbeResult) error {
	if d.state != stateReady {
		return ErrNotReady
	}
	if len(results) != len(d.plan.Columns) {
		return fmt.Errorf("refresh: got %d results for %d cells", len(results), len(d.plan.Columns))
	}

	blank := strings.Repeat(" ", DataWidth)
	for i, col := range d.plan.Columns {
		d.out.MoveCursor(d.plan.Row, col)
		_, _ = d.buf.WriteString(blank)
		d.out.MoveCursor(d.plan.Row, col)
		_, _ = d.buf.WriteString(FormatCell(results[i], d.styles))
	}
	d.out.MoveCursor(RestRow, RestColumn)

	return d.flush("refresh")
}

// Close restores the terminal: the cursor is shown again and the screen is
// cleared so the shell prompt does not land inside the frame. Close is a
// no-op on a display that was never initialized, and idempotent.
func (d *Display) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.state != stateReady {
		return nil
	}

	d.out.ShowCursor()
	d.out.ClearScreen()
	return d.flush("close")
}

// flush pushes buffered output to the terminal. bufio keeps the first write
// error, so a failure anywhere in the operation surfaces here.
func (d *Display) flush(op string) error {
	if err := d.buf.Flush(); err != nil {
		return &RenderError{Op: op, Err: err}
	}
	return nil
}
