// Package mockhealth serves canned responses for trying the dashboard
// without real websites.
//
// Routes:
//
//	/ok         200 after 20-120ms
//	/slow       200 after 300-900ms (yellow latency)
//	/very-slow  200 after 1.2-1.8s (red latency)
//	/not-found  404
//	/error      500
//	/hang       never answers until the client gives up (ERROR)
//	/flaky      cycles through 200, 503 and 429 every 10-30 seconds
package mockhealth

import (
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// flakyState tracks the current status and next change time of /flaky.
type flakyState struct {
	mu           sync.Mutex
	statusIdx    int
	nextChangeAt time.Time
}

var flakyStatuses = []int{http.StatusOK, http.StatusServiceUnavailable, http.StatusTooManyRequests}

// Handler returns the mock routes. logger receives status changes of
// /flaky; nil falls back to [slog.Default].
func Handler(logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", delayed(20, 120, http.StatusOK))
	mux.HandleFunc("/slow", delayed(300, 900, http.StatusOK))
	mux.HandleFunc("/very-slow", delayed(1200, 1800, http.StatusOK))
	mux.HandleFunc("/not-found", delayed(0, 0, http.StatusNotFound))
	mux.HandleFunc("/error", delayed(0, 0, http.StatusInternalServerError))
	mux.HandleFunc("/hang", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	flaky := &flakyState{nextChangeAt: time.Now().Add(nextChange())}
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		flaky.mu.Lock()
		if time.Now().After(flaky.nextChangeAt) {
			old := flakyStatuses[flaky.statusIdx]
			flaky.statusIdx = (flaky.statusIdx + 1) % len(flakyStatuses)
			flaky.nextChangeAt = time.Now().Add(nextChange())
			logger.Info("status change", "route", "/flaky", "from", old, "to", flakyStatuses[flaky.statusIdx])
		}
		status := flakyStatuses[flaky.statusIdx]
		flaky.mu.Unlock()

		w.WriteHeader(status)
	})

	return mux
}

// delayed answers with status after a random delay in [minMS, maxMS].
func delayed(minMS, maxMS int, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := minMS
		if maxMS > minMS {
			d += rand.Intn(maxMS - minMS + 1)
		}

		select {
		case <-time.After(time.Duration(d) * time.Millisecond):
		case <-r.Context().Done():
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(http.StatusText(status) + "\n"))
	}
}

func nextChange() time.Duration {
	return time.Duration(10+rand.Intn(21)) * time.Second
}
