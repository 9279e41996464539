package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunValidateCleanConfig(t *testing.T) {
	validateConfig = writeSettings(t, `{
		"hooks": {
			"PostToolUse": [
				{"matcher": "", "hooks": [{"type": "command", "command": "make lint"}]}
			]
		}
	}`)
	validateJSON = false
	t.Cleanup(func() { validateConfig = "" })

	if err := runValidate(nil, nil); err != nil {
		t.Errorf("clean config should validate, got %v", err)
	}
}

func TestRunValidateStopRecursionFails(t *testing.T) {
	validateConfig = writeSettings(t, `{
		"hooks": {
			"Stop": [
				{"matcher": "", "hooks": [{"type": "command", "command": "claude --continue"}]}
			]
		}
	}`)
	validateJSON = false
	t.Cleanup(func() { validateConfig = "" })

	err := runValidate(nil, nil)
	if err == nil {
		t.Fatal("Stop recursion in config must fail validation")
	}
	var ee *exitError
	if !errors.As(err, &ee) || ee.code != 1 {
		t.Errorf("expected exit code 1, got %v", err)
	}
}

func TestRunValidateMissingFile(t *testing.T) {
	validateConfig = filepath.Join(t.TempDir(), "nope.json")
	t.Cleanup(func() { validateConfig = "" })

	if err := runValidate(nil, nil); err == nil {
		t.Error("missing config file should error")
	}
}
