package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xcawolfe-amzn/tripwire/internal/classify"
	"github.com/xcawolfe-amzn/tripwire/internal/config"
	"github.com/xcawolfe-amzn/tripwire/internal/style"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <command...>",
	Short: "Show safe rewrites for a dangerous hook command",
	Long: `Show documented safe rewrite patterns for a hook command that
would fail validation: flag-file signaling instead of re-invocation,
narrower triggers instead of Stop, suppressed nested runs.

Example:
  tw suggest 'claude --continue'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	command := strings.Join(args, " ")

	limits, err := config.Load()
	if err != nil {
		style.Warnf("%v (using default limits)", err)
	}

	alts := classify.New(limits).SuggestAlternatives(command)
	if len(alts) == 0 {
		style.Successf("%q matches no dangerous pattern — no rewrite needed", command)
		return nil
	}

	fmt.Printf("%s %s\n", style.Bold.Render("Safer alternatives for"), command)
	for i, alt := range alts {
		fmt.Printf("\n  %d. %s\n", i+1, alt.Description)
		fmt.Printf("     %s\n", style.Dim.Render(alt.Example))
	}
	return nil
}
