package cmd

import (
	"fmt"

	"github.com/pingmon/pingmon/internal/config"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe <host> [host...]",
	Short: "Probe hosts once and print the results",
	Long: `Probe one or more hosts a single time without starting the dashboard.
Useful for scripting and for checking that a host is reachable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	col, note := newCollector(cfg)
	if note != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), note)
	}

	failures := 0
	for _, host := range args {
		m, err := col.Sample(cmd.Context(), host)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: error: %v\n", host, err)
			failures++
			continue
		}
		if m.Loss {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no reply\n", host)
			failures++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2f ms\n", host, m.LatencyMS)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d probes failed", failures, len(args))
	}
	return nil
}
