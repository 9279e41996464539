// Package classify inspects hook command text for recursion hazards.
//
// The classifier is the authoritative cross-process guard: the execution
// ledger only sees repetitions within one process lifetime, but a Stop hook
// that invokes the guarded tool loops across fresh processes where no
// counter survives. Content inspection plus the propagated depth counter is
// what actually catches that, so the Stop-plus-guarded-tool shape is an
// unconditional hard error at any depth.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xcawolfe-amzn/tripwire/internal/config"
	"github.com/xcawolfe-amzn/tripwire/internal/hookctx"
	"github.com/xcawolfe-amzn/tripwire/internal/settings"
)

// Kind identifies which rule produced a finding.
type Kind int

const (
	// KindStopRecursion is the documented catastrophic pattern: the
	// guarded tool invoked from a Stop hook. Always a hard error.
	KindStopRecursion Kind = iota

	// KindDepthExceeded means a guarded-tool invocation was seen while
	// already at or beyond the maximum nested hook depth.
	KindDepthExceeded

	// KindNestedRecursion is a guarded-tool invocation from inside a hook
	// context below the depth ceiling. A warning, not an error.
	KindNestedRecursion

	// KindRiskyPattern covers shapes that can re-trigger hook machinery
	// without being recursion themselves (blanket commits, file watchers).
	KindRiskyPattern
)

// String returns the rule name for a Kind.
func (k Kind) String() string {
	switch k {
	case KindStopRecursion:
		return "stop-recursion"
	case KindDepthExceeded:
		return "depth-exceeded"
	case KindNestedRecursion:
		return "nested-recursion"
	case KindRiskyPattern:
		return "risky-pattern"
	default:
		return "unknown"
	}
}

// Finding is a single classification result with its originating rule.
type Finding struct {
	Kind    Kind
	Message string
}

// Result accumulates findings for one command. Safe is true iff Errors is
// empty; warnings never affect it.
type Result struct {
	Warnings []Finding
	Errors   []Finding
	Safe     bool
}

// Classifier holds the compiled patterns for a guarded tool.
type Classifier struct {
	limits  config.Limits
	guarded []*regexp.Regexp
	risky   []*regexp.Regexp
}

// New builds a classifier for the guarded tool named in limits.
func New(limits config.Limits) *Classifier {
	tool := regexp.QuoteMeta(limits.GuardedTool)

	// A command position is the start of the string or just after a shell
	// separator. Matching mid-word (e.g. "claudette") must not fire.
	pre := `(?:^|[\s;&|(])`

	guarded := []*regexp.Regexp{
		// Direct invocation, platform executable suffix included.
		regexp.MustCompile(pre + tool + `(?:\.exe)?(?:\s|$|[;&|)])`),
		// Relative-path or explicit-path wrapper.
		regexp.MustCompile(pre + `\.?/[^\s]*/?` + tool + `(?:\.exe)?(?:\s|$|[;&|)])`),
		// Package-manager-run forms.
		regexp.MustCompile(pre + `(?:npx|bunx)\s+(?:-[^\s]+\s+)*(?:@anthropic-ai/claude-code|` + tool + `)(?:\s|$)`),
		regexp.MustCompile(pre + `(?:pnpm|yarn)\s+dlx\s+` + tool + `(?:\s|$)`),
	}

	risky := []*regexp.Regexp{
		// Blanket stage-and-commit: stages whatever happens to be dirty,
		// which inside a hook usually includes hook-generated files.
		regexp.MustCompile(`git\s+add\s+(?:-A|--all|\.)(?:\s|$).*git\s+commit`),
		// File watchers that run the guarded tool or tw itself re-arm the
		// loop outside any hook context tw can see.
		regexp.MustCompile(`(?:watchman|nodemon|entr|fswatch)\b.*(?:` + tool + `|tw\s+exec)`),
		// A hook command invoking the hook runner is one hop from a loop.
		regexp.MustCompile(pre + `tw\s+exec(?:\s|$)`),
	}

	return &Classifier{limits: limits, guarded: guarded, risky: risky}
}

// IsGuardedInvocation reports whether the command invokes the guarded tool.
func (c *Classifier) IsGuardedInvocation(command string) bool {
	for _, re := range c.guarded {
		if re.MatchString(command) {
			return true
		}
	}
	return false
}

// IsStructurallyRisky reports whether the command matches a secondary risk
// pattern independent of recursion.
func (c *Classifier) IsStructurallyRisky(command string) bool {
	for _, re := range c.risky {
		if re.MatchString(command) {
			return true
		}
	}
	return false
}

// Check classifies a candidate hook command. hookType is the trigger the
// command would run under; ctx is the current process's hook context.
func (c *Classifier) Check(command, hookType string, ctx hookctx.HookContext) Result {
	var r Result

	guarded := c.IsGuardedInvocation(command)

	switch {
	case guarded && hookType == settings.TriggerStop:
		// Absolute rule: never downgraded, independent of depth or counts.
		r.Errors = append(r.Errors, Finding{
			Kind: KindStopRecursion,
			Message: fmt.Sprintf(
				"%s hook invokes %q — this re-triggers the %s hook on exit and loops forever, burning metered calls",
				settings.TriggerStop, firstLine(command), settings.TriggerStop),
		})
	case guarded && ctx.InHook():
		if ctx.Depth >= c.limits.MaxDepth {
			r.Errors = append(r.Errors, Finding{
				Kind: KindDepthExceeded,
				Message: fmt.Sprintf(
					"guarded tool invoked at hook depth %d (max %d): refusing to nest deeper",
					ctx.Depth, c.limits.MaxDepth),
			})
		} else {
			r.Warnings = append(r.Warnings, Finding{
				Kind: KindNestedRecursion,
				Message: fmt.Sprintf(
					"%q runs %s from inside a %s hook (depth %d); consider setting %s=1 in the child",
					firstLine(command), c.limits.GuardedTool, ctx.HookType, ctx.Depth, hookctx.EnvSuppress),
			})
		}
	}

	if c.IsStructurallyRisky(command) {
		r.Warnings = append(r.Warnings, Finding{
			Kind:    KindRiskyPattern,
			Message: fmt.Sprintf("%q can re-trigger hook machinery on its own", firstLine(command)),
		})
	}

	r.Safe = len(r.Errors) == 0
	return r
}

// firstLine truncates multi-line commands for messages.
func firstLine(command string) string {
	if i := strings.IndexByte(command, '\n'); i >= 0 {
		return command[:i] + " …"
	}
	return command
}
