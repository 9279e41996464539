package classify

import "fmt"

// Alternative is a documented safe rewrite for a dangerous hook command.
type Alternative struct {
	Description string
	Example     string
}

// SuggestAlternatives returns safe rewrite patterns for a command that
// would fail classification. Purely advisory — nothing here blocks.
func (c *Classifier) SuggestAlternatives(command string) []Alternative {
	if !c.IsGuardedInvocation(command) && !c.IsStructurallyRisky(command) {
		return nil
	}

	alts := []Alternative{
		{
			Description: "Signal follow-up work through a flag file instead of re-invoking " + c.limits.GuardedTool + "; a supervisor outside the hook chain picks it up",
			Example:     `touch .needs-followup  # poll this from cron or a wrapper script`,
		},
		{
			Description: "Move the command to a narrower trigger that fires once per event instead of at session end",
			Example:     fmt.Sprintf(`"PostToolUse": [{"matcher": "Write", "hooks": [{"type": "command", "command": %q}]}]`, command),
		},
	}

	if c.IsGuardedInvocation(command) {
		alts = append(alts, Alternative{
			Description: "If the nested invocation is genuinely wanted, run it with hooks suppressed so it cannot chain",
			Example:     fmt.Sprintf("%s=1 %s", "TW_SUPPRESS_HOOKS", command),
		})
	}

	return alts
}
