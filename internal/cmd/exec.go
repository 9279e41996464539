package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xcawolfe-amzn/tripwire/internal/config"
	"github.com/xcawolfe-amzn/tripwire/internal/guard"
	"github.com/xcawolfe-amzn/tripwire/internal/style"
)

var execCmd = &cobra.Command{
	Use:   "exec <hook-type> -- <command...>",
	Short: "Run a hook command through the safety guard",
	Long: `Run a hook command through the full guard pipeline.

Wrap hook entries in settings.json with this command:

  {"type": "command", "command": "tw exec PostToolUse -- make lint"}

The guard checks the suppress flag, the per-session circuit breaker, and
the command classifier before delegating. On allow, the child inherits
the incremented hook context via environment.

Exit codes:
  0   command ran (or hooks are suppressed)
  2   execution blocked by the guard
  N   delegated command exited with code N`,
	Args: cobra.MinimumNArgs(2),
	// Machine-consumed by hook plumbing — keep the output clean.
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	hookType := args[0]
	command := strings.Join(args[1:], " ")

	limits, err := config.Load()
	if err != nil {
		// A broken limits file falls back to defaults; say so but guard anyway.
		style.Warnf("%v (using default limits)", err)
	}

	executor := guard.New(limits)
	result, runErr := executor.Execute(cmd.Context(), command, hookType)

	switch result.Outcome {
	case guard.Skipped:
		fmt.Println(style.Dim.Render("hook skipped: " + result.Reason))
		return nil
	case guard.Blocked:
		return &exitError{code: 2}
	}

	if runErr != nil {
		code := result.ExitCode
		if code <= 0 {
			code = 1
		}
		return &exitError{code: code, msg: fmt.Sprintf("hook command failed: %v", runErr)}
	}
	return nil
}
