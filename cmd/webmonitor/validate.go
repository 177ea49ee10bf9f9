package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/webmonitor/config"
)

// newValidateCmd validates a config file without starting the dashboard.
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file",
		Long: `Validate a webmonitor configuration file without starting the dashboard.

This command parses the YAML, expands environment variables, expands grids
and validates all fields. It's useful for CI/CD pipelines or pre-deployment
checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  webmonitor validate -c webmonitor.yaml
  webmonitor validate --config /etc/webmonitor/webmonitor.yaml`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}

	cmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	addrs, err := cfg.AllAddresses()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	direct := len(cfg.Addresses)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Interval:  %ds\n", cfg.Interval)
	fmt.Fprintf(out, "  Timeout:   %s\n", cfg.Timeout.Duration())
	fmt.Fprintf(out, "  Addresses: %d direct + %d from grids = %d total\n",
		direct, len(addrs)-direct, len(addrs))
	for _, addr := range addrs {
		fmt.Fprintf(out, "    %s\n", addr)
	}

	return nil
}
