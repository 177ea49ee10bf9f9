package webmonitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/muesli/termenv"

	"github.com/jpalmerr/webmonitor/internal/display"
	"github.com/jpalmerr/webmonitor/internal/poller"
	"github.com/jpalmerr/webmonitor/internal/server"
	"github.com/jpalmerr/webmonitor/internal/store"
)

const (
	defaultInterval = 5 * time.Second
	defaultTimeout  = 5 * time.Second
)

// Monitor polls a fixed list of addresses and keeps a terminal dashboard of
// their status and latency up to date.
//
// A Monitor is created using [New] with functional options and started
// with [Monitor.Run]. The typical lifecycle is:
//
//	m, err := webmonitor.New(webmonitor.WithAddresses("https://example.com"))
//	if err != nil {
//	    slog.Error("failed to create monitor", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	m.Run(ctx) // blocks until context cancelled
type Monitor struct {
	addresses      []string
	interval       time.Duration
	timeout        time.Duration
	output         io.Writer
	profile        termenv.Profile
	logger         *slog.Logger
	maxConcurrency int
	roundCallbacks []func([]Result)
	statusAddr     string
	store          store.Store
}

// New creates a new [Monitor] instance with the given options.
//
// At least one address must be configured via [WithAddresses]. Other
// options have sensible defaults:
//   - Interval: 5 seconds
//   - Probe timeout: 5 seconds
//   - Output: os.Stdout
//   - Max concurrency: unlimited
//
// Returns a [*ConfigError] wrapping [ErrNoTargets] if no addresses are
// configured, or the error of the first invalid option.
func New(opts ...Option) (*Monitor, error) {
	cfg := &monitorConfig{
		interval: defaultInterval,
		timeout:  defaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.addresses) == 0 {
		return nil, &ConfigError{Field: "addresses", Err: ErrNoTargets}
	}

	output := cfg.output
	if output == nil {
		output = os.Stdout
	}

	profile := cfg.profile
	if !cfg.profileSet {
		profile = detectProfile(output)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Monitor{
		addresses:      cfg.addresses,
		interval:       cfg.interval,
		timeout:        cfg.timeout,
		output:         output,
		profile:        profile,
		logger:         logger,
		maxConcurrency: cfg.maxConcurrency,
		roundCallbacks: cfg.roundCallbacks,
		statusAddr:     cfg.statusAddr,
	}, nil
}

// detectProfile returns the color profile of w when it is a terminal.
// Anything else gets plain text.
func detectProfile(w io.Writer) termenv.Profile {
	if f, ok := w.(*os.File); ok {
		return termenv.NewOutput(f).EnvColorProfile()
	}
	return termenv.Ascii
}

// Run draws the dashboard and refreshes it every round until ctx is cancelled.
//
// Each round probes every address concurrently and waits for the slowest
// probe before rendering, then sleeps for the interval. A round that is
// interrupted by cancellation is not rendered. On return the cursor is
// shown again and the screen is cleared.
//
// Returns nil on graceful shutdown, a [*RenderError] if the terminal
// cannot be written, or an error if the status server cannot be started.
func (m *Monitor) Run(ctx context.Context) (err error) {
	m.logger.Info("webmonitor starting",
		"target_count", len(m.addresses),
		"interval", m.interval.String(),
		"timeout", m.timeout.String(),
	)

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	if m.statusAddr != "" {
		// stop the server when Run returns, even on a render error
		srvCtx, stopServer := context.WithCancel(ctx)
		defer stopServer()

		m.store = store.NewMemoryStore()
		srv := server.NewServer(m.store, m.statusAddr, m.logger)
		if err := srv.Start(srvCtx); err != nil {
			return fmt.Errorf("failed to start status server: %w", err)
		}
	}

	targets := poller.NewTargetSet(m.addresses, m.timeout)
	defer targets.Close()

	p := poller.New(m.logger, m.maxConcurrency)
	d := display.New(m.output, targets.Addresses(), display.WithColorProfile(m.profile))
	if err := d.Init(); err != nil {
		return err
	}
	defer func() {
		if cerr := d.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	timer := time.NewTimer(m.interval)
	defer timer.Stop()

	var seq uint64
	for {
		results := p.PollRound(ctx, targets)
		if ctx.Err() != nil {
			break
		}

		if err := d.Refresh(results); err != nil {
			return err
		}
		seq++
		m.publish(seq, toResults(targets.Addresses(), results))

		timer.Reset(m.interval)
		select {
		case <-ctx.Done():
			m.logger.Info("webmonitor stopped")
			return nil
		case <-timer.C:
		}
	}

	m.logger.Info("webmonitor stopped")
	return nil
}

// publish hands a round's results to the status store, if any, and to
// every registered callback.
func (m *Monitor) publish(seq uint64, results []Result) {
	if m.store != nil {
		m.store.Update(toRound(seq, time.Now(), results))
	}
	for _, cb := range m.roundCallbacks {
		invokeCallbackSafe(cb, append([]Result(nil), results...), m.logger)
	}
}

// Addresses returns a copy of the monitored addresses.
func (m *Monitor) Addresses() []string {
	return append([]string(nil), m.addresses...)
}

// Interval returns the pause between rounds.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Timeout returns the per-probe timeout.
func (m *Monitor) Timeout() time.Duration {
	return m.timeout
}

// invokeCallbackSafe calls a round callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func([]Result), results []Result, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("round callback panicked",
				"panic", r,
				"target_count", len(results),
			)
		}
	}()
	cb(results)
}
