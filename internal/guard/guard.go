// Package guard orchestrates the allow/deny decision for hook commands.
//
// Per invocation the flow is: suppress check → circuit breaker → command
// classification → set incremented context → delegate → clear context.
// The clear is unconditional so context never leaks into an unrelated
// sibling invocation in the same process.
package guard

import (
	"context"
	"strings"
	"time"

	"github.com/xcawolfe-amzn/tripwire/internal/breaker"
	"github.com/xcawolfe-amzn/tripwire/internal/classify"
	"github.com/xcawolfe-amzn/tripwire/internal/config"
	"github.com/xcawolfe-amzn/tripwire/internal/hookctx"
	"github.com/xcawolfe-amzn/tripwire/internal/metrics"
	"github.com/xcawolfe-amzn/tripwire/internal/settings"
	"github.com/xcawolfe-amzn/tripwire/internal/style"
)

// Command augmentation flags. Additive only — user-specified flags are
// never removed.
const (
	// SkipHooksFlag tells a nested guarded-tool invocation not to run its
	// own hooks, cutting the chain one level down.
	SkipHooksFlag = "--skip-hooks"

	// SafeModeFlag tells the delegated command to avoid real side effects.
	SafeModeFlag = "--dry-run"
)

// Outcome is the terminal state of one guarded execution.
type Outcome int

const (
	Ran Outcome = iota
	Skipped
	Blocked
)

func (o Outcome) String() string {
	switch o {
	case Ran:
		return "ran"
	case Skipped:
		return "skipped"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Result reports what happened to a guarded command.
type Result struct {
	Outcome  Outcome
	ExitCode int    // delegated command's exit code when Outcome == Ran
	Reason   string // why, for Skipped and Blocked
}

// Executor wires the breaker, classifier, and runner together.
type Executor struct {
	Limits     config.Limits
	Breaker    *breaker.Breaker
	Classifier *classify.Classifier
	Runner     Runner
	Recorder   *metrics.Recorder // optional, best-effort
}

// New builds an executor with the default shell runner.
func New(limits config.Limits) *Executor {
	return &Executor{
		Limits:     limits,
		Breaker:    breaker.New(limits, hookctx.SessionID()),
		Classifier: classify.New(limits),
		Runner:     ShellRunner{},
		Recorder:   metrics.NewRecorder(config.Dir()),
	}
}

// Execute runs one hook command through the full guard pipeline.
// Breaker faults and classification errors are terminal: no retry is ever
// attempted. A delegated command's failure is passed through unchanged.
func (e *Executor) Execute(ctx context.Context, command, hookType string) (Result, error) {
	cur := hookctx.Current()

	if cur.Suppress {
		return Result{
			Outcome: Skipped,
			Reason:  hookctx.EnvSuppress + " is set; hooks are disabled",
		}, nil
	}

	count, err := e.Breaker.Check(hookType)
	if err != nil {
		style.Criticalf("%v", err)
		e.record(cur, hookType, command, "blocked", ruleOf(err))
		return Result{Outcome: Blocked, Reason: err.Error()}, nil
	}
	if hookType == settings.TriggerStop && count > 1 {
		style.Warnf("%s hook has now run %d times this session (ceiling %d)",
			hookType, count, e.Limits.StopCeiling)
	}

	check := e.Classifier.Check(command, hookType, cur)
	for _, w := range check.Warnings {
		style.Warnf("[%s] %s", w.Kind, w.Message)
		e.record(cur, hookType, command, "warned", w.Kind.String())
	}
	if !check.Safe {
		for _, f := range check.Errors {
			style.Criticalf("[%s] %s", f.Kind, f.Message)
		}
		e.record(cur, hookType, command, "blocked", check.Errors[0].Kind.String())
		return Result{Outcome: Blocked, Reason: check.Errors[0].Message}, nil
	}

	// From here on the spawned child must inherit the incremented context,
	// and this process must shed it on every exit path.
	hookctx.Set(hookType, cur.Depth+1)
	defer hookctx.Clear()

	exitCode, runErr := e.Runner.Run(ctx, e.augment(command, cur), nil)
	return Result{Outcome: Ran, ExitCode: exitCode}, runErr
}

// augment appends the contract flags the prior context demands. Each flag
// is appended at most once and only if not already present.
func (e *Executor) augment(command string, prior hookctx.HookContext) string {
	if prior.InHook() && !hasFlag(command, SkipHooksFlag) {
		command += " " + SkipHooksFlag
	}
	if prior.SafeMode && !hasFlag(command, SafeModeFlag) {
		command += " " + SafeModeFlag
	}
	return command
}

func hasFlag(command, flag string) bool {
	for _, field := range strings.Fields(command) {
		if field == flag {
			return true
		}
	}
	return false
}

// record persists a guard event. Failures are swallowed: diagnostics must
// never change a guard decision or fail an allowed execution.
func (e *Executor) record(cur hookctx.HookContext, hookType, command, outcome, rule string) {
	if e.Recorder == nil {
		return
	}
	sessionID, _ := e.Breaker.Status()
	_ = e.Recorder.Append(metrics.Event{
		Time:      time.Now().UTC(),
		SessionID: sessionID,
		HookType:  hookType,
		Outcome:   outcome,
		Rule:      rule,
		Command:   command,
		Depth:     cur.Depth,
	})
}

func ruleOf(err error) string {
	if le, ok := err.(*breaker.LimitError); ok {
		return string(le.Rule)
	}
	return "unknown"
}
