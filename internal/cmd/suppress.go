package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xcawolfe-amzn/tripwire/internal/hookctx"
	"github.com/xcawolfe-amzn/tripwire/internal/style"
)

var suppressDisable bool

var suppressCmd = &cobra.Command{
	Use:   "suppress",
	Short: "Toggle hook suppression (hooks are skipped entirely)",
	Long: `Enable or disable hook suppression. While set, 'tw exec'
skips every hook without running it — the manual override for breaking
a loop that is already in flight.

Examples:
  tw suppress            # stop all hooks
  tw suppress --disable  # re-enable hooks`,
	Args: cobra.NoArgs,
	RunE: runSuppress,
}

func init() {
	rootCmd.AddCommand(suppressCmd)
	suppressCmd.Flags().BoolVar(&suppressDisable, "disable", false, "Re-enable hooks")
}

func runSuppress(cmd *cobra.Command, args []string) error {
	hookctx.SetSuppress(!suppressDisable)
	if suppressDisable {
		style.Successf("hooks re-enabled")
		fmt.Println(style.Dim.Render("  shell: unset " + hookctx.EnvSuppress))
	} else {
		style.Successf("hooks suppressed")
		fmt.Println(style.Dim.Render("  shell: export " + hookctx.EnvSuppress + "=1"))
	}
	return nil
}
