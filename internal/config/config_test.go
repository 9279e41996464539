package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultLimits(t *testing.T) {
	limits := DefaultLimits()

	if limits.GuardedTool != "claude" {
		t.Errorf("unexpected guarded tool %q", limits.GuardedTool)
	}
	if limits.MaxDepth != 3 || limits.StopCeiling != 2 || limits.GeneralCeiling != 20 {
		t.Errorf("unexpected default ceilings %+v", limits)
	}
	if limits.DecayWindow != 60*time.Second {
		t.Errorf("unexpected decay window %v", limits.DecayWindow)
	}
}

func TestLoadFileMissing(t *testing.T) {
	limits, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if limits != DefaultLimits() {
		t.Errorf("expected defaults, got %+v", limits)
	}
}

func TestLoadFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
guarded_tool = "aider"
stop_ceiling = 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	limits, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if limits.GuardedTool != "aider" {
		t.Errorf("expected overridden tool, got %q", limits.GuardedTool)
	}
	if limits.StopCeiling != 4 {
		t.Errorf("expected overridden stop ceiling, got %d", limits.StopCeiling)
	}
	// Unspecified fields keep defaults.
	if limits.MaxDepth != DefaultMaxDepth || limits.DecayWindow != DefaultDecayWindow {
		t.Errorf("unspecified fields lost defaults: %+v", limits)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("guarded_tool = ["), 0644); err != nil {
		t.Fatal(err)
	}

	limits, err := LoadFile(path)
	if err == nil {
		t.Error("expected parse error")
	}
	// Broken config still yields usable defaults — the guard must not go
	// offline because of a typo in a TOML file.
	if limits != DefaultLimits() {
		t.Errorf("expected defaults on parse error, got %+v", limits)
	}
}

func TestLoadFileDecayWindowSeconds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("decay_window_secs = 5"), 0644); err != nil {
		t.Fatal(err)
	}

	limits, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if limits.DecayWindow != 5*time.Second {
		t.Errorf("expected 5s decay window, got %v", limits.DecayWindow)
	}
}
