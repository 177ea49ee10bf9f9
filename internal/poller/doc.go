// Package poller provides the concurrent HTTP probing engine for webmonitor.
//
// This package is internal to webmonitor. It owns the per-address probe
// handles and runs one synchronized round of probes per refresh cycle.
//
// The main components are:
//
//   - [Client]: HTTP client bound to a fixed per-probe timeout
//   - [Target]: one monitored address plus the probe handle it owns
//   - [TargetSet]: the ordered, immutable set of targets
//   - [Poller]: runs a round of concurrent probes with a full barrier
//   - [ProbeResult]: status code and latency of a single probe
//
// Results of a round are stored in per-index slots, so result i always
// belongs to target i regardless of which probe finished first.
package poller
