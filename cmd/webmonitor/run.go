package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/webmonitor"
	"github.com/jpalmerr/webmonitor/config"
)

const (
	shutdownTimeout = 10 * time.Second

	helpHint           = "Use 'webmonitor --help' for more information"
	noAddressesMessage = "Program requires one or more addresses to monitor."
	intervalMessage    = "Interval must be at least 1 second"
)

func addMonitorFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayP("address", "a", nil, "address to monitor (repeatable)")
	f.IntP("interval", "i", config.DefaultInterval, "seconds between rounds")
	f.Duration("timeout", config.DefaultTimeout, "per-probe timeout (1s to 10s)")
	f.StringP("config", "c", "", "path to config file")
	f.Int("max-concurrency", 0, "maximum probes in flight per round (0 = all at once)")
	f.String("status-addr", "", "serve the latest round as JSON on this host:port")
	f.String("log-file", "", "write JSON logs to this file instead of stderr")
	f.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	f.Bool("no-color", false, "disable colors")
}

// newLogger creates a JSON logger for CLI use. Logs go to stderr unless a
// file is configured, since stdout holds the dashboard. The returned
// function releases the log file.
func newLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	cleanup := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		cleanup = func() { _ = f.Close() }
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), cleanup, nil
}

// loadConfig reads the config file if one is given and applies the flags
// that were set on top of it. Addresses from flags follow those from the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	f := cmd.Flags()

	cfg := config.Default()
	if path, _ := f.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	addrs, _ := f.GetStringArray("address")
	cfg.Addresses = append(cfg.Addresses, addrs...)

	if f.Changed("interval") {
		cfg.Interval, _ = f.GetInt("interval")
	}
	if f.Changed("timeout") {
		d, _ := f.GetDuration("timeout")
		cfg.Timeout = config.Duration(d)
	}
	if f.Changed("max-concurrency") {
		cfg.MaxConcurrency, _ = f.GetInt("max-concurrency")
	}
	if f.Changed("status-addr") {
		cfg.StatusAddr, _ = f.GetString("status-addr")
	}
	if f.Changed("log-file") {
		cfg.Log.File, _ = f.GetString("log-file")
	}
	if f.Changed("log-level") {
		cfg.Log.Level, _ = f.GetString("log-level")
	}

	return cfg, cfg.Validate()
}

// fail prints msg verbatim in place of cobra's error line.
func fail(cmd *cobra.Command, msg string, err error) error {
	cmd.SilenceErrors = true
	fmt.Fprintln(cmd.ErrOrStderr(), msg)
	return err
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if cmd.Flags().NFlag() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), helpHint)
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		var cfgErr *webmonitor.ConfigError
		switch {
		case errors.Is(err, webmonitor.ErrNoTargets):
			return fail(cmd, noAddressesMessage, err)
		case errors.As(err, &cfgErr) && cfgErr.Field == "interval":
			return fail(cmd, intervalMessage, err)
		}
		return err
	}

	logger, cleanup, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := append(config.BuildOptions(cfg),
		webmonitor.WithOutput(cmd.OutOrStdout()),
		webmonitor.WithLogger(logger),
	)
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		opts = append(opts, webmonitor.WithColorProfile(termenv.Ascii))
	}

	m, err := webmonitor.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	logger.Info("config loaded",
		"addresses", len(m.Addresses()),
		"interval", m.Interval().String(),
		"timeout", m.Timeout().String(),
	)

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- m.Run(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("monitor error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for the current round to wind down
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("monitor error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
