package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xcawolfe-amzn/tripwire/internal/config"
	"github.com/xcawolfe-amzn/tripwire/internal/hookctx"
	"github.com/xcawolfe-amzn/tripwire/internal/metrics"
	"github.com/xcawolfe-amzn/tripwire/internal/style"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear hook context and recorded guard events",
	Long: `Clear this process's hook context, drop the recorded guard
events, and start a fresh session. Use after recovering from a tripped
circuit or when testing hook configurations.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	hookctx.Clear()

	recorder := metrics.NewRecorder(config.Dir())
	if err := recorder.Clear(); err != nil {
		// Reset always exits 0: a stale diagnostics file must not make
		// recovery look like it failed.
		style.Warnf("clearing guard events: %v", err)
	}

	style.Successf("hook context cleared, session rotated to %s", hookctx.SessionID())
	return nil
}
