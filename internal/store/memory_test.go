package store

import (
	"sync"
	"testing"
	"time"
)

func testRound(seq uint64, addrs ...string) Round {
	r := Round{Seq: seq, CompletedAt: time.Now()}
	for _, a := range addrs {
		r.Results = append(r.Results, AddressStatus{Address: a, Status: 200, LatencyMS: 42})
	}
	return r
}

func TestNewMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if store == nil {
		t.Fatal("NewMemoryStore() = nil")
	}

	// should start empty
	if _, ok := store.Latest(); ok {
		t.Error("Latest() ok = true before any update")
	}
}

func TestMemoryStore_Update(t *testing.T) {
	store := NewMemoryStore()

	msg := "connection refused"
	store.Update(Round{
		Seq:         1,
		CompletedAt: time.Now(),
		Results: []AddressStatus{
			{Address: "https://example.com", Status: 200, LatencyMS: 100},
			{Address: "https://down.example.com", Status: -1, LatencyMS: -1, Error: &msg},
		},
	})

	got, ok := store.Latest()
	if !ok {
		t.Fatal("Latest() ok = false after update")
	}
	if got.Seq != 1 {
		t.Errorf("Seq = %d, want 1", got.Seq)
	}
	if len(got.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(got.Results))
	}
	if got.Results[0].Address != "https://example.com" || got.Results[0].Status != 200 {
		t.Errorf("Results[0] = %+v", got.Results[0])
	}
	if got.Results[1].Error == nil || *got.Results[1].Error != msg {
		t.Errorf("Results[1].Error = %v, want %q", got.Results[1].Error, msg)
	}
}

// TestMemoryStore_UpdateReplacesRound verifies that only the most recent
// round is kept, even when it has fewer addresses.
func TestMemoryStore_UpdateReplacesRound(t *testing.T) {
	store := NewMemoryStore()

	store.Update(testRound(1, "a.com", "b.com", "c.com"))
	store.Update(testRound(2, "d.com"))

	got, _ := store.Latest()
	if got.Seq != 2 {
		t.Errorf("Seq = %d, want 2", got.Seq)
	}
	if len(got.Results) != 1 || got.Results[0].Address != "d.com" {
		t.Errorf("Results = %+v, want only d.com", got.Results)
	}
}

func TestMemoryStore_LatestReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	in := testRound(1, "a.com")
	store.Update(in)

	// neither the caller's slice nor a returned slice aliases the store
	in.Results[0].Address = "mutated"
	got, _ := store.Latest()
	got.Results[0].Address = "mutated"

	again, _ := store.Latest()
	if again.Results[0].Address != "a.com" {
		t.Errorf("Address = %q, store was mutated through a shared slice", again.Results[0].Address)
	}
}

func TestMemoryStore_Subscribe(t *testing.T) {
	store := NewMemoryStore()

	ch := store.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() = nil")
	}

	go func() {
		store.Update(testRound(7, "a.com"))
	}()

	select {
	case round := <-ch:
		if round.Seq != 7 {
			t.Errorf("received Seq = %d, want 7", round.Seq)
		}
	case <-time.After(1 * time.Second):
		t.Error("Subscribe() channel did not receive update")
	}
}

func TestMemoryStore_MultipleSubscribers(t *testing.T) {
	store := NewMemoryStore()

	ch1 := store.Subscribe()
	ch2 := store.Subscribe()
	ch3 := store.Subscribe()

	// update should fanout to all subscribers
	go func() {
		store.Update(testRound(1, "a.com"))
	}()

	received := 0
	timeout := time.After(1 * time.Second)

	for received < 3 {
		select {
		case <-ch1:
			received++
		case <-ch2:
			received++
		case <-ch3:
			received++
		case <-timeout:
			t.Fatalf("Only received %d/3 updates", received)
		}
	}
}

func TestMemoryStore_Unsubscribe(t *testing.T) {
	store := NewMemoryStore()

	ch := store.Subscribe()
	store.Unsubscribe(ch)

	// channel should be closed
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Unsubscribe() channel should be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Unsubscribe() channel should be closed immediately")
	}

	// second call is a no-op
	store.Unsubscribe(ch)
}

func TestMemoryStore_UnsubscribeStopsDelivery(t *testing.T) {
	store := NewMemoryStore()

	ch1 := store.Subscribe()
	ch2 := store.Subscribe()

	store.Unsubscribe(ch1)

	go func() {
		store.Update(testRound(1, "a.com"))
	}()

	select {
	case <-ch2:
		// expected
	case <-time.After(1 * time.Second):
		t.Error("ch2 should still receive updates")
	}
}

func TestMemoryStore_SlowSubscriberDoesNotBlock(t *testing.T) {
	store := NewMemoryStore()

	// create a subscriber but don't read from it
	_ = store.Subscribe()

	ch2 := store.Subscribe()

	done := make(chan bool)

	go func() {
		for i := 0; i < 10*subscriberBuffer; i++ {
			store.Update(testRound(uint64(i+1), "a.com"))
		}
		done <- true
	}()

	go func() {
		for range ch2 {
		}
	}()

	select {
	case <-done:
		// expected - updates completed without blocking
	case <-time.After(2 * time.Second):
		t.Error("Update() blocked on slow subscriber")
	}
}

// TestMemoryStore_SubscribersGetOwnCopy verifies that a subscriber mutating
// its round does not affect other subscribers or the store.
func TestMemoryStore_SubscribersGetOwnCopy(t *testing.T) {
	store := NewMemoryStore()

	ch1 := store.Subscribe()
	ch2 := store.Subscribe()
	store.Update(testRound(1, "a.com"))

	r1 := <-ch1
	r1.Results[0].Address = "mutated"

	r2 := <-ch2
	if r2.Results[0].Address != "a.com" {
		t.Errorf("ch2 Address = %q, mutation leaked between subscribers", r2.Results[0].Address)
	}
	if got, _ := store.Latest(); got.Results[0].Address != "a.com" {
		t.Errorf("Latest() Address = %q, mutation leaked into the store", got.Results[0].Address)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	numGoroutines := 10
	numUpdates := 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numUpdates; j++ {
				store.Update(testRound(uint64(j), "a.com", "b.com"))
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numUpdates; j++ {
				_, _ = store.Latest()
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := store.Subscribe()
			time.Sleep(10 * time.Millisecond)
			store.Unsubscribe(ch)
		}()
	}

	wg.Wait()
}
