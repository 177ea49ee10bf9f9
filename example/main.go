package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jpalmerr/webmonitor"
	"github.com/jpalmerr/webmonitor/example/mockhealth"
)

func main() {
	// the dashboard owns the terminal, so logs go to a file
	logFile, err := os.CreateTemp("", "webmonitor-example-*.log")
	if err != nil {
		slog.Error("failed to create log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// start the mock server on a free port
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		slog.Error("failed to listen", "error", err)
		os.Exit(1)
	}
	go func() {
		_ = http.Serve(ln, mockhealth.Handler(logger))
	}()
	base := "http://" + ln.Addr().String()

	m, err := webmonitor.New(
		webmonitor.WithAddresses(base+"/ok", base+"/error"),
		webmonitor.WithAddressGrid(base+"/{{.route}}", map[string][]string{
			"route": {"slow", "hang"},
		}),
		webmonitor.WithLogger(logger),
		webmonitor.WithRoundCallback(func(results []webmonitor.Result) {
			for _, r := range results {
				if r.Failed() {
					logger.Warn("address down", "address", r.Address, "error", r.Err)
				}
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create monitor", "error", err)
		os.Exit(1)
	}

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := m.Run(ctx); err != nil {
		slog.Error("webmonitor error", "error", err)
		os.Exit(1)
	}
	slog.Info("logs written", "path", logFile.Name())
}
