package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xcawolfe-amzn/tripwire/internal/hookctx"
	"github.com/xcawolfe-amzn/tripwire/internal/style"
)

var safeModeDisable bool

var safeModeCmd = &cobra.Command{
	Use:   "safe-mode",
	Short: "Toggle safe mode (append a no-side-effects flag to hook commands)",
	Long: `Enable or disable safe mode. While set, every guarded hook
command is run with a no-side-effects flag appended.

The flag lives in the environment, so it applies to this process and
anything it spawns. To apply it to your shell, use the printed export.

Examples:
  tw safe-mode            # enable
  tw safe-mode --disable  # disable`,
	Args: cobra.NoArgs,
	RunE: runSafeMode,
}

func init() {
	rootCmd.AddCommand(safeModeCmd)
	safeModeCmd.Flags().BoolVar(&safeModeDisable, "disable", false, "Disable safe mode")
}

func runSafeMode(cmd *cobra.Command, args []string) error {
	hookctx.SetSafeMode(!safeModeDisable)
	if safeModeDisable {
		style.Successf("safe mode disabled")
		fmt.Println(style.Dim.Render("  shell: unset " + hookctx.EnvSafeMode))
	} else {
		style.Successf("safe mode enabled")
		fmt.Println(style.Dim.Render("  shell: export " + hookctx.EnvSafeMode + "=1"))
	}
	return nil
}
