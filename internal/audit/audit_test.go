package audit

import (
	"testing"

	"github.com/xcawolfe-amzn/tripwire/internal/classify"
	"github.com/xcawolfe-amzn/tripwire/internal/config"
	"github.com/xcawolfe-amzn/tripwire/internal/settings"
)

func newTestClassifier() *classify.Classifier {
	return classify.New(config.DefaultLimits())
}

func entry(command string) settings.HookEntry {
	return settings.HookEntry{
		Hooks: []settings.Hook{{Type: "command", Command: command}},
	}
}

func TestValidateStopRecursion(t *testing.T) {
	cfg := &settings.HooksConfig{
		Stop: []settings.HookEntry{entry("claude --continue")},
	}

	report := Validate(cfg, newTestClassifier())

	if !report.HasErrors() {
		t.Fatal("guarded tool under Stop must be a hard error")
	}
	if len(report.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(report.Errors))
	}
	f := report.Errors[0]
	if f.Trigger != settings.TriggerStop {
		t.Errorf("expected Stop trigger, got %q", f.Trigger)
	}
	if f.Kind != classify.KindStopRecursion {
		t.Errorf("expected stop-recursion, got %s", f.Kind)
	}
}

func TestValidateCleanConfig(t *testing.T) {
	cfg := &settings.HooksConfig{
		Stop:         []settings.HookEntry{entry("echo done")},
		PostToolUse:  []settings.HookEntry{entry("make lint")},
		SessionStart: []settings.HookEntry{entry("git status")},
	}

	report := Validate(cfg, newTestClassifier())

	if report.HasErrors() || len(report.Warnings) != 0 {
		t.Errorf("expected clean report, got %+v", report)
	}
	if report.Checked != 3 {
		t.Errorf("expected 3 checked commands, got %d", report.Checked)
	}
}

func TestValidateSkipsNonSensitiveTriggers(t *testing.T) {
	// PreToolUse fires on a user-driven action; a guarded invocation there
	// is not in the audited set.
	cfg := &settings.HooksConfig{
		PreToolUse: []settings.HookEntry{entry("claude --continue")},
	}

	report := Validate(cfg, newTestClassifier())
	if report.Checked != 0 {
		t.Errorf("expected PreToolUse to be skipped, checked %d", report.Checked)
	}
}

func TestValidateWarnsOnRiskyPattern(t *testing.T) {
	cfg := &settings.HooksConfig{
		PostToolUse: []settings.HookEntry{entry("git add -A && git commit -m auto")},
	}

	report := Validate(cfg, newTestClassifier())

	if report.HasErrors() {
		t.Fatal("risky pattern alone must not be an error")
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Kind != classify.KindRiskyPattern {
		t.Errorf("expected one risky-pattern warning, got %+v", report.Warnings)
	}
}

func TestValidateUnwrapsExecWrapper(t *testing.T) {
	// A properly wrapped entry must be judged by its inner command, not
	// flagged for containing the wrapper itself.
	cfg := &settings.HooksConfig{
		PostToolUse: []settings.HookEntry{entry("tw exec PostToolUse -- make lint")},
		Stop:        []settings.HookEntry{entry("tw exec Stop -- claude --continue")},
	}

	report := Validate(cfg, newTestClassifier())

	if len(report.Warnings) != 0 {
		t.Errorf("wrapped clean command should not warn, got %+v", report.Warnings)
	}
	if len(report.Errors) != 1 || report.Errors[0].Kind != classify.KindStopRecursion {
		t.Errorf("wrapped Stop recursion must still error, got %+v", report.Errors)
	}
}

func TestValidateSkipsNonCommandEntries(t *testing.T) {
	cfg := &settings.HooksConfig{
		Stop: []settings.HookEntry{{
			Hooks: []settings.Hook{{Type: "prompt", Command: "claude"}},
		}},
	}

	report := Validate(cfg, newTestClassifier())
	if report.Checked != 0 || report.HasErrors() {
		t.Errorf("non-command entries must be ignored, got %+v", report)
	}
}
