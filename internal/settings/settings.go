// Package settings models the hooks section of a Claude Code settings.json.
//
// Tripwire only reads these documents — auditing hook commands before they
// are ever armed. It never writes or rewrites a settings file.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Hook trigger names as they appear in settings.json.
const (
	TriggerPreToolUse       = "PreToolUse"
	TriggerPostToolUse      = "PostToolUse"
	TriggerSessionStart     = "SessionStart"
	TriggerStop             = "Stop"
	TriggerPreCompact       = "PreCompact"
	TriggerUserPromptSubmit = "UserPromptSubmit"
)

// EventTypes lists the known hook trigger names in display order.
var EventTypes = []string{
	TriggerPreToolUse,
	TriggerPostToolUse,
	TriggerSessionStart,
	TriggerStop,
	TriggerPreCompact,
	TriggerUserPromptSubmit,
}

// Hook is an individual hook command entry.
type Hook struct {
	Type    string `json:"type"` // "command"
	Command string `json:"command"`
}

// HookEntry groups hooks under a single matcher.
type HookEntry struct {
	Matcher string `json:"matcher"`
	Hooks   []Hook `json:"hooks"`
}

// HooksConfig is the hooks section of a settings.json document.
type HooksConfig struct {
	PreToolUse       []HookEntry `json:"PreToolUse,omitempty"`
	PostToolUse      []HookEntry `json:"PostToolUse,omitempty"`
	SessionStart     []HookEntry `json:"SessionStart,omitempty"`
	Stop             []HookEntry `json:"Stop,omitempty"`
	PreCompact       []HookEntry `json:"PreCompact,omitempty"`
	UserPromptSubmit []HookEntry `json:"UserPromptSubmit,omitempty"`
}

// GetEntries returns the hook entries for a trigger name.
func (c *HooksConfig) GetEntries(trigger string) []HookEntry {
	switch trigger {
	case TriggerPreToolUse:
		return c.PreToolUse
	case TriggerPostToolUse:
		return c.PostToolUse
	case TriggerSessionStart:
		return c.SessionStart
	case TriggerStop:
		return c.Stop
	case TriggerPreCompact:
		return c.PreCompact
	case TriggerUserPromptSubmit:
		return c.UserPromptSubmit
	default:
		return nil
	}
}

// Unmarshal parses a settings.json document, extracting the hooks section
// and ignoring (but tolerating) everything else in the file.
func Unmarshal(data []byte) (*HooksConfig, error) {
	var doc struct {
		Hooks HooksConfig `json:"hooks"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc.Hooks, nil
}

// Load reads and parses a settings.json file.
func Load(path string) (*HooksConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath resolves the settings file to audit: the project-level
// .claude/settings.json under the working directory if present, otherwise
// the user-level ~/.claude/settings.json.
func DefaultPath() (string, error) {
	cwd, err := os.Getwd()
	if err == nil {
		project := filepath.Join(cwd, ".claude", "settings.json")
		if _, err := os.Stat(project); err == nil {
			return project, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving settings path: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}
