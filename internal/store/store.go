package store

import "time"

// AddressStatus is one address's outcome within a [Round], shaped for JSON.
type AddressStatus struct {
	// Address is the monitored address as configured.
	Address string `json:"address"`

	// Status is the HTTP status code, or -1 if the probe failed.
	Status int32 `json:"status"`

	// LatencyMS is the probe latency in milliseconds, or -1 if the probe failed.
	LatencyMS int64 `json:"latency_ms"`

	// Error describes why the probe failed. nil for a completed probe, even
	// when its status is 400 or above.
	Error *string `json:"error"`
}

// Round is the outcome of one completed polling round.
type Round struct {
	// Seq counts completed rounds, starting at 1.
	Seq uint64 `json:"seq"`

	// CompletedAt is when the slowest probe of the round finished.
	CompletedAt time.Time `json:"completed_at"`

	// Results holds one entry per address, in configured order.
	Results []AddressStatus `json:"results"`
}

// Store defines the interface for keeping and subscribing to the latest round.
//
// Store implementations must be safe for concurrent access.
type Store interface {
	// Update replaces the stored round and notifies all subscribers.
	Update(round Round)

	// Latest returns a copy of the stored round. ok is false until the
	// first Update.
	Latest() (round Round, ok bool)

	// Subscribe returns a channel that receives every new round.
	// The returned channel has a buffer; slow consumers may miss rounds.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Round

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Round)
}

// clone returns a copy of r that shares no slice with it.
func (r Round) clone() Round {
	r.Results = append([]AddressStatus(nil), r.Results...)
	return r
}
