// Package webmonitor provides a terminal dashboard that monitors the
// availability of a fixed set of websites.
//
// Every round, each address is probed with an HTTP GET concurrently. Once
// the slowest probe has finished or timed out, the status code and latency
// of every address are written into a fixed frame in the terminal, cell by
// cell, without redrawing the rest of the screen. The monitor then sleeps
// for the configured interval and starts again.
//
// # Quick Start
//
//	m, _ := webmonitor.New(
//	    webmonitor.WithAddresses("https://example.com", "https://example.org"),
//	)
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	m.Run(ctx) // blocks until context is cancelled
//
// # Configuration
//
// webmonitor uses the functional options pattern for configuration:
//
//	m, err := webmonitor.New(
//	    webmonitor.WithAddresses(addrs...),
//	    webmonitor.WithInterval(10 * time.Second),
//	    webmonitor.WithTimeout(3 * time.Second),
//	    webmonitor.WithLogger(logger),
//	)
//
// # Dashboard
//
// Status codes of 400 and above are shown in red, anything else in green.
// Latencies up to 200ms are green, up to one second yellow, slower ones red.
// A probe that fails to complete shows ERROR.
//
// # Status API
//
// [WithStatusServer] additionally serves the latest round over HTTP, as a
// JSON snapshot at /api/status and a Server-Sent Events stream at /api/sse.
// Only the most recent round is kept.
//
// # Architecture
//
//   - internal/poller: concurrent probe rounds over the address list
//   - internal/display: layout engine and in-place cell rendering
//   - internal/store, internal/server: optional latest-round status API
//   - config: YAML configuration files for the webmonitor command
package webmonitor
