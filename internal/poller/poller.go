package poller

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// StatusFailure marks a probe that did not complete.
	StatusFailure int32 = -1

	// LatencyUnknown is the latency reported alongside [StatusFailure].
	LatencyUnknown int64 = -1
)

// ProbeResult holds the outcome of probing a single target in one round.
type ProbeResult struct {
	// Status is the HTTP status code, or [StatusFailure].
	Status int32

	// LatencyMS is the client-observed latency in milliseconds, or
	// [LatencyUnknown] when the probe failed.
	LatencyMS int64

	// Err is the failure reason when Status is [StatusFailure]. It is only
	// used for logging; the dashboard shows failures as a plain ERROR cell.
	Err error
}

// Failed reports whether the probe did not complete.
func (r ProbeResult) Failed() bool {
	return r.Status == StatusFailure
}

// failure builds a failed [ProbeResult].
func failure(err error) ProbeResult {
	return ProbeResult{
		Status:    StatusFailure,
		LatencyMS: LatencyUnknown,
		Err:       err,
	}
}

// Poller runs synchronized probe rounds over a [TargetSet].
type Poller struct {
	logger         *slog.Logger
	maxConcurrency int
}

// New creates a [Poller].
//
// maxConcurrency caps the number of probes in flight during a round; zero
// or a negative value runs one probe per target concurrently. A nil logger
// falls back to [slog.Default].
func New(logger *slog.Logger, maxConcurrency int) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		logger:         logger,
		maxConcurrency: maxConcurrency,
	}
}

// PollRound probes every target concurrently and returns one [ProbeResult]
// per target, in [TargetSet] order.
//
// The round returns only after every probe has completed or timed out. A
// failing or slow target never aborts the others; its slot is set to
// [StatusFailure]. Probes are not retried within a round.
func (p *Poller) PollRound(ctx context.Context, targets *TargetSet) []ProbeResult {
	results := make([]ProbeResult, targets.Len())
	if len(results) == 0 {
		return results
	}

	roundID := uuid.NewString()
	start := time.Now()

	var g errgroup.Group
	if p.maxConcurrency > 0 {
		g.SetLimit(p.maxConcurrency)
	}
	for i, t := range targets.targets {
		g.Go(func() error {
			// each task writes only its own slot
			results[i] = p.probeTarget(ctx, t)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, r := range results {
		if !r.Failed() {
			continue
		}
		failed++
		p.logger.Debug("probe failed",
			"round_id", roundID,
			"address", targets.targets[i].address,
			"error", r.Err,
		)
	}
	p.logger.Debug("round completed",
		"round_id", roundID,
		"targets", len(results),
		"failed", failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return results
}

// probeTarget probes a single target with panic recovery. A panicking
// prober is logged with a correlation ID and reported as a failure.
func (p *Poller) probeTarget(ctx context.Context, t *Target) (result ProbeResult) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			p.logger.Error("probe panic",
				"correlation_id", correlationID,
				"address", t.address,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			result = failure(&ProbeError{
				Address: t.address,
				Err:     fmt.Errorf("probe panic (correlation_id: %s)", correlationID),
			})
		}
	}()

	start := time.Now()
	status, err := t.prober.Probe(ctx, t.address)
	elapsed := time.Since(start)
	if err != nil {
		return failure(&ProbeError{Address: t.address, Err: err})
	}

	return ProbeResult{
		Status:    int32(status),
		LatencyMS: elapsed.Milliseconds(),
	}
}
