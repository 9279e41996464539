package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUnmarshalExtractsHooks(t *testing.T) {
	data := []byte(`{
		"editorMode": "vim",
		"hooks": {
			"Stop": [
				{"matcher": "", "hooks": [{"type": "command", "command": "echo done"}]}
			],
			"PreToolUse": [
				{"matcher": "Bash(git push*)", "hooks": [{"type": "command", "command": "echo blocked"}]}
			]
		}
	}`)

	cfg, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(cfg.Stop) != 1 {
		t.Fatalf("expected 1 Stop entry, got %d", len(cfg.Stop))
	}
	if cfg.Stop[0].Hooks[0].Command != "echo done" {
		t.Errorf("unexpected Stop command %q", cfg.Stop[0].Hooks[0].Command)
	}
	if len(cfg.PreToolUse) != 1 || cfg.PreToolUse[0].Matcher != "Bash(git push*)" {
		t.Errorf("unexpected PreToolUse entries %+v", cfg.PreToolUse)
	}
}

func TestUnmarshalNoHooksSection(t *testing.T) {
	cfg, err := Unmarshal([]byte(`{"editorMode": "vim"}`))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, trigger := range EventTypes {
		if len(cfg.GetEntries(trigger)) != 0 {
			t.Errorf("expected no %s entries", trigger)
		}
	}
}

func TestGetEntriesUnknownTrigger(t *testing.T) {
	cfg := &HooksConfig{}
	if got := cfg.GetEntries("NotATrigger"); got != nil {
		t.Errorf("expected nil for unknown trigger, got %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
