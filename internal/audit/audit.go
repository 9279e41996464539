// Package audit statically validates hook configurations before any hook
// is armed. It never executes anything.
package audit

import (
	"regexp"

	"github.com/xcawolfe-amzn/tripwire/internal/classify"
	"github.com/xcawolfe-amzn/tripwire/internal/hookctx"
	"github.com/xcawolfe-amzn/tripwire/internal/settings"
)

// SensitiveTriggers are the trigger classes audited: the ones that fire
// without a direct user action, where a dangerous command keeps firing
// unattended. Stop is the termination class and the true loop hazard.
var SensitiveTriggers = []string{
	settings.TriggerStop,
	settings.TriggerPostToolUse,
	settings.TriggerSessionStart,
}

// Finding ties a classifier finding to where it came from in the document.
type Finding struct {
	Trigger string
	Matcher string
	Command string
	classify.Finding
}

// Report is the accumulated outcome of auditing one document.
type Report struct {
	Warnings []Finding
	Errors   []Finding
	Checked  int // command entries inspected
}

// HasErrors reports whether any hard error was found.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// Validate runs every command entry under the sensitive triggers through
// the classifier with an empty context, as if the hook were about to fire
// at the top of a chain.
func Validate(cfg *settings.HooksConfig, c *classify.Classifier) *Report {
	report := &Report{}
	empty := hookctx.HookContext{}

	for _, trigger := range SensitiveTriggers {
		for _, entry := range cfg.GetEntries(trigger) {
			for _, hook := range entry.Hooks {
				if hook.Type != "command" || hook.Command == "" {
					continue
				}
				report.Checked++

				result := c.Check(unwrap(hook.Command), trigger, empty)
				for _, f := range result.Errors {
					report.Errors = append(report.Errors, Finding{
						Trigger: trigger,
						Matcher: entry.Matcher,
						Command: hook.Command,
						Finding: f,
					})
				}
				for _, f := range result.Warnings {
					report.Warnings = append(report.Warnings, Finding{
						Trigger: trigger,
						Matcher: entry.Matcher,
						Command: hook.Command,
						Finding: f,
					})
				}
			}
		}
	}

	return report
}

// execWrapper matches a hook entry already wrapped with `tw exec`.
var execWrapper = regexp.MustCompile(`^\s*tw\s+exec\s+\S+\s+--\s+(.+)$`)

// unwrap strips a `tw exec <type> -- ` wrapper so the inner command is
// what gets classified. Without this, every correctly guarded entry would
// flag its own wrapper as a nested hook-runner invocation.
func unwrap(command string) string {
	if m := execWrapper.FindStringSubmatch(command); m != nil {
		return m[1]
	}
	return command
}
