// Package cmd implements the tw command-line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xcawolfe-amzn/tripwire/internal/style"
)

var rootCmd = &cobra.Command{
	Use:   "tw",
	Short: "Hook-safety guard for Claude Code hooks",
	Long: `tw guards Claude Code style hooks against recursive self-invocation.

A hook that re-invokes the tool that triggered it spawns an unbounded
chain of metered subprocesses. tw carries hook context across process
spawns via environment, classifies hook commands for known recursion
shapes, and circuit-breaks repeated executions within a session.

Wrap hook commands with 'tw exec', and validate configurations with
'tw validate' before arming them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a specific process exit code through RunE.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.msg != "" {
				fmt.Fprintln(os.Stderr, ee.msg)
			}
			return ee.code
		}
		style.Errorf("%v", err)
		return 1
	}
	return 0
}
