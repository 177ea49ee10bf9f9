// Standalone mock server for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/webmonitor -c example/webmonitor.yaml
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jpalmerr/webmonitor/example/mockhealth"
)

func main() {
	fmt.Println("Mock health server starting on :9999")
	fmt.Println("Routes: /ok /slow /very-slow /not-found /error /hang /flaky")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if err := http.ListenAndServe(":9999", mockhealth.Handler(logger)); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
