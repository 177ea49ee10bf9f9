package poller

import (
	"context"
	"sync"
	"time"
)

// Prober performs a single probe against an address and reports its HTTP
// status code. [Client] is the production implementation.
type Prober interface {
	Probe(ctx context.Context, address string) (int, error)
}

// Target is one monitored address plus the probe handle bound to it.
//
// Target is immutable after creation. The probe handle is owned by the
// Target and released by [Target.Close].
type Target struct {
	address string
	prober  Prober
}

// NewTarget creates a [Target] for address with its own [Client].
func NewTarget(address string, timeout time.Duration) *Target {
	return &Target{
		address: address,
		prober:  NewClient(timeout),
	}
}

// Address returns the monitored address.
func (t *Target) Address() string {
	return t.address
}

// Close releases the target's probe handle.
func (t *Target) Close() {
	if c, ok := t.prober.(interface{ Close() }); ok {
		c.Close()
	}
}

// TargetSet is the ordered set of targets monitored for the process lifetime.
//
// Order is significant: it is both the on-screen left-to-right order and
// the order of the results returned by [Poller.PollRound].
type TargetSet struct {
	targets   []*Target
	closeOnce sync.Once
}

// NewTargetSet creates one [Target] per address, preserving order.
// Duplicate addresses are allowed and get independent probe handles.
func NewTargetSet(addresses []string, timeout time.Duration) *TargetSet {
	targets := make([]*Target, len(addresses))
	for i, addr := range addresses {
		targets[i] = NewTarget(addr, timeout)
	}
	return &TargetSet{targets: targets}
}

// Len returns the number of targets.
func (s *TargetSet) Len() int {
	return len(s.targets)
}

// Addresses returns a copy of the monitored addresses in order.
func (s *TargetSet) Addresses() []string {
	addrs := make([]string, len(s.targets))
	for i, t := range s.targets {
		addrs[i] = t.address
	}
	return addrs
}

// Close releases every target's probe handle. Idempotent.
func (s *TargetSet) Close() {
	s.closeOnce.Do(func() {
		for _, t := range s.targets {
			t.Close()
		}
	})
}
