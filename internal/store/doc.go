// Package store holds the most recent round of probe results and fans it
// out to subscribers.
//
// The store keeps exactly one round. Each [Store.Update] replaces the
// previous round wholesale, so nothing older than the last completed round
// is ever retained.
//
// Subscribers receive rounds via buffered channels with non-blocking sends:
// a slow subscriber misses rounds rather than stalling the monitor.
package store
