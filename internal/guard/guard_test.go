package guard

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/xcawolfe-amzn/tripwire/internal/breaker"
	"github.com/xcawolfe-amzn/tripwire/internal/classify"
	"github.com/xcawolfe-amzn/tripwire/internal/config"
	"github.com/xcawolfe-amzn/tripwire/internal/hookctx"
	"github.com/xcawolfe-amzn/tripwire/internal/metrics"
)

// fakeRunner records what was delegated and the context visible at the
// moment of delegation.
type fakeRunner struct {
	calls    []string
	seenCtx  []hookctx.HookContext
	exitCode int
	err      error
}

func (f *fakeRunner) Run(ctx context.Context, command string, extraEnv []string) (int, error) {
	f.calls = append(f.calls, command)
	f.seenCtx = append(f.seenCtx, hookctx.Current())
	return f.exitCode, f.err
}

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		hookctx.EnvHookType, hookctx.EnvHookDepth, hookctx.EnvSessionID,
		hookctx.EnvSuppress, hookctx.EnvSafeMode,
	}
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, v) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func newTestExecutor(t *testing.T) (*Executor, *fakeRunner) {
	t.Helper()
	limits := config.DefaultLimits()
	runner := &fakeRunner{}
	e := &Executor{
		Limits:     limits,
		Breaker:    breaker.New(limits, "test-session"),
		Classifier: classify.New(limits),
		Runner:     runner,
		Recorder:   metrics.NewRecorder(t.TempDir()),
	}
	return e, runner
}

func TestExecuteCleanCommand(t *testing.T) {
	clearEnv(t)
	e, runner := newTestExecutor(t)

	result, err := e.Execute(context.Background(), "echo hi", "PostToolUse")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Outcome != Ran {
		t.Fatalf("expected Ran, got %s", result.Outcome)
	}

	// Delegated exactly once, command unmodified.
	if len(runner.calls) != 1 || runner.calls[0] != "echo hi" {
		t.Errorf("unexpected delegation %v", runner.calls)
	}

	// The child saw the incremented context.
	seen := runner.seenCtx[0]
	if seen.HookType != "PostToolUse" || seen.Depth != 1 {
		t.Errorf("child saw wrong context %+v", seen)
	}
	if seen.SessionID == "" {
		t.Error("child should inherit a session id")
	}

	// Context cleared after return.
	if hookctx.InHook() {
		t.Error("context must be cleared after execution")
	}
}

func TestExecuteSuppressed(t *testing.T) {
	clearEnv(t)
	e, runner := newTestExecutor(t)

	hookctx.SetSuppress(true)

	result, err := e.Execute(context.Background(), "echo hi", "PostToolUse")
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != Skipped {
		t.Fatalf("expected Skipped, got %s", result.Outcome)
	}
	if len(runner.calls) != 0 {
		t.Error("suppressed hook must not delegate")
	}
}

func TestExecuteBlockedByBreaker(t *testing.T) {
	clearEnv(t)
	e, runner := newTestExecutor(t)

	// Exhaust the Stop ceiling: the breaker counts these executions.
	for i := 0; i < 2; i++ {
		if result, _ := e.Execute(context.Background(), "echo done", "Stop"); result.Outcome != Ran {
			t.Fatalf("call %d should run, got %s", i+1, result.Outcome)
		}
	}

	result, err := e.Execute(context.Background(), "echo done", "Stop")
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != Blocked {
		t.Fatalf("third Stop execution should be blocked, got %s", result.Outcome)
	}
	if len(runner.calls) != 2 {
		t.Errorf("blocked execution must not delegate, saw %d calls", len(runner.calls))
	}
	if hookctx.InHook() {
		t.Error("no context may leak from a blocked execution")
	}

	// Blocked decision was recorded.
	events, err := e.Recorder.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Outcome != "blocked" {
		t.Errorf("expected one blocked event, got %+v", events)
	}
}

func TestExecuteBlockedByClassifier(t *testing.T) {
	clearEnv(t)
	e, runner := newTestExecutor(t)

	result, err := e.Execute(context.Background(), "claude --continue", "Stop")
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != Blocked {
		t.Fatalf("Stop recursion must be blocked, got %s", result.Outcome)
	}
	if len(runner.calls) != 0 {
		t.Error("classifier veto must not delegate")
	}
	if result.Reason == "" {
		t.Error("blocked result should carry the rule's message")
	}
}

func TestExecuteSafeModeAppendsFlagOnce(t *testing.T) {
	clearEnv(t)
	e, runner := newTestExecutor(t)

	// Already inside a hook with safe mode on.
	hookctx.SetSafeMode(true)
	hookctx.Set("PostToolUse", 1)

	result, err := e.Execute(context.Background(), "make deploy", "PostToolUse")
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != Ran {
		t.Fatalf("expected Ran, got %s (%s)", result.Outcome, result.Reason)
	}

	want := "make deploy " + SkipHooksFlag + " " + SafeModeFlag
	if runner.calls[0] != want {
		t.Errorf("augmented command = %q, want %q", runner.calls[0], want)
	}
}

func TestExecuteDoesNotDuplicateFlags(t *testing.T) {
	clearEnv(t)
	e, runner := newTestExecutor(t)

	hookctx.SetSafeMode(true)
	hookctx.Set("PostToolUse", 1)

	command := "make deploy " + SafeModeFlag + " " + SkipHooksFlag
	if _, err := e.Execute(context.Background(), command, "PostToolUse"); err != nil {
		t.Fatal(err)
	}
	if runner.calls[0] != command {
		t.Errorf("flags duplicated: %q", runner.calls[0])
	}
}

func TestExecuteNoAugmentationOutsideHook(t *testing.T) {
	clearEnv(t)
	e, runner := newTestExecutor(t)

	if _, err := e.Execute(context.Background(), "make deploy", "PostToolUse"); err != nil {
		t.Fatal(err)
	}
	if runner.calls[0] != "make deploy" {
		t.Errorf("no prior context, no augmentation: got %q", runner.calls[0])
	}
}

func TestExecutePassesThroughFailure(t *testing.T) {
	clearEnv(t)
	e, runner := newTestExecutor(t)
	runner.exitCode = 7
	runner.err = errors.New("exit status 7")

	result, err := e.Execute(context.Background(), "false", "PostToolUse")
	if err == nil {
		t.Fatal("delegated failure must pass through")
	}
	if result.Outcome != Ran || result.ExitCode != 7 {
		t.Errorf("expected Ran with exit 7, got %+v", result)
	}
	// Cleanup is unconditional even on failure.
	if hookctx.InHook() {
		t.Error("context must be cleared after a failed delegation")
	}
}

func TestExecuteDepthIncrementsAlongChain(t *testing.T) {
	clearEnv(t)
	e, runner := newTestExecutor(t)

	hookctx.Set("PreToolUse", 2)

	if _, err := e.Execute(context.Background(), "echo child", "PostToolUse"); err != nil {
		t.Fatal(err)
	}

	seen := runner.seenCtx[0]
	if seen.Depth != 3 {
		t.Errorf("child must see parent depth + 1, got %d", seen.Depth)
	}
	if seen.HookType != "PostToolUse" {
		t.Errorf("child must see the new hook type, got %q", seen.HookType)
	}
}

func TestOutcomeString(t *testing.T) {
	cases := map[Outcome]string{Ran: "ran", Skipped: "skipped", Blocked: "blocked"}
	for outcome, want := range cases {
		if outcome.String() != want {
			t.Errorf("%d.String() = %q, want %q", outcome, outcome.String(), want)
		}
	}
}
