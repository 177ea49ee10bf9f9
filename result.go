package webmonitor

import (
	"time"

	"github.com/jpalmerr/webmonitor/internal/poller"
	"github.com/jpalmerr/webmonitor/internal/store"
)

const (
	// StatusFailure is the [Result.Status] of a probe that did not complete:
	// timeout, refused connection, DNS or TLS failure, malformed response.
	StatusFailure = poller.StatusFailure

	// LatencyUnknown is the [Result.LatencyMS] reported with [StatusFailure].
	LatencyUnknown = poller.LatencyUnknown
)

// Result holds the outcome of probing one address in one round.
//
// Results are delivered to round callbacks in the order the addresses were
// configured, which is also their left-to-right order on screen.
type Result struct {
	// Address is the monitored address, as configured.
	Address string

	// Status is the HTTP status code, or [StatusFailure].
	Status int32

	// LatencyMS is the time from sending the request to reading the last
	// byte of the response, in milliseconds, or [LatencyUnknown].
	LatencyMS int64

	// Err is the failure reason when Status is [StatusFailure], nil otherwise.
	Err error
}

// Failed reports whether the probe did not complete.
func (r Result) Failed() bool {
	return r.Status == StatusFailure
}

// toResults pairs a round's probe results with their addresses.
func toResults(addresses []string, probes []poller.ProbeResult) []Result {
	results := make([]Result, len(probes))
	for i, p := range probes {
		results[i] = Result{
			Address:   addresses[i],
			Status:    p.Status,
			LatencyMS: p.LatencyMS,
			Err:       p.Err,
		}
	}
	return results
}

// toRound converts a round's results to the form kept by the status server.
func toRound(seq uint64, completedAt time.Time, results []Result) store.Round {
	statuses := make([]store.AddressStatus, len(results))
	for i, r := range results {
		statuses[i] = store.AddressStatus{
			Address:   r.Address,
			Status:    r.Status,
			LatencyMS: r.LatencyMS,
		}
		if r.Err != nil {
			msg := r.Err.Error()
			statuses[i].Error = &msg
		}
	}
	return store.Round{Seq: seq, CompletedAt: completedAt, Results: statuses}
}
