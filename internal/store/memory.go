package store

import (
	"sync"
)

// subscriberBuffer is the number of rounds a subscriber may lag behind
// before rounds are dropped for it.
const subscriberBuffer = 16

// MemoryStore is an in-memory implementation of [Store].
//
// Subscribers receive rounds via buffered channels. Sends are non-blocking;
// if a subscriber's buffer is full, the round is dropped for that subscriber.
type MemoryStore struct {
	mu     sync.RWMutex
	latest Round
	filled bool

	subMu       sync.RWMutex
	subscribers map[chan Round]struct{}
}

// NewMemoryStore creates a new in-memory [Store] implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subscribers: make(map[chan Round]struct{}),
	}
}

// Update replaces the stored round and notifies all subscribers.
func (m *MemoryStore) Update(round Round) {
	round = round.clone()

	m.mu.Lock()
	m.latest = round
	m.filled = true
	m.mu.Unlock()

	m.notifySubscribers(round)
}

// Latest returns a copy of the stored round.
func (m *MemoryStore) Latest() (Round, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.filled {
		return Round{}, false
	}
	return m.latest.clone(), true
}

// Subscribe creates a new subscription and returns a channel for receiving rounds.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan Round {
	ch := make(chan Round, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan Round) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	// map keys are bidirectional, so match by identity
	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the round to all active subscribers without
// blocking. Each subscriber gets its own copy of the results.
func (m *MemoryStore) notifySubscribers(round Round) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- round.clone():
		default:
			// subscriber is slow, drop the round
		}
	}
}
