// Package main is the entry point for the webmonitor CLI.
//
// webmonitor can be run either as a library (SDK) or as a standalone binary.
// This CLI provides the standalone binary approach.
//
// Usage:
//
//	webmonitor -a https://example.com -a https://example.org -i 10
//	webmonitor -c webmonitor.yaml          # Addresses from a config file
//	webmonitor validate -c webmonitor.yaml # Validate configuration
//	webmonitor version                     # Show version info
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newRootCmd builds the command tree. The root command runs the dashboard.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "webmonitor",
		Short: "Monitor website availability from the terminal",
		Long: `webmonitor polls a list of websites and shows their HTTP status and
latency in a dashboard drawn directly in the terminal.

Every round, all addresses are probed concurrently. Once the slowest probe
has finished or timed out, each address's cell is updated in place and
webmonitor sleeps for the interval before the next round.

Status codes of 400 and above are red. Latencies up to 200ms are green, up
to one second yellow, slower ones red. A probe that fails shows ERROR.

Quick start:
  webmonitor -a https://example.com -a https://example.org -i 10

Example config:
  interval: 10
  timeout: 3s
  addresses:
    - https://example.com
    - https://example.org`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runMonitor,
	}

	addMonitorFlags(rootCmd)
	rootCmd.AddCommand(newValidateCmd(), newVersionCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

// newVersionCmd prints version information.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of this webmonitor binary.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "webmonitor %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}
