// Package config loads tripwire's guard limits from ~/.tripwire/config.toml.
//
// All limits have conservative defaults; a missing or partial config file
// is not an error. Nothing else in tripwire writes this file — it is
// operator-owned.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Default limit values. These are deliberately tight: the guarded tool is
// metered, so erring on the side of refusing is the cheaper mistake.
const (
	DefaultGuardedTool    = "claude"
	DefaultMaxDepth       = 3
	DefaultStopCeiling    = 2
	DefaultGeneralCeiling = 20
	DefaultDecayWindow    = 60 * time.Second
)

// Limits holds the guard thresholds applied by the classifier and the
// circuit breaker.
type Limits struct {
	// GuardedTool is the executable whose invocation from inside a hook
	// is the recursion hazard.
	GuardedTool string

	// MaxDepth is the maximum nested hook depth before a guarded-tool
	// invocation becomes a hard error instead of a warning.
	MaxDepth int

	// StopCeiling is the maximum number of Stop-hook executions per
	// session within one decay window.
	StopCeiling int

	// GeneralCeiling bounds executions of any single hook type per
	// session, regardless of trigger class.
	GeneralCeiling int

	// DecayWindow is how long the execution ledger remembers counts
	// before clearing itself and rotating the session.
	DecayWindow time.Duration
}

// fileLimits is the on-disk TOML shape. Durations are expressed in seconds
// so the file stays editable without knowing Go duration syntax.
type fileLimits struct {
	GuardedTool     string `toml:"guarded_tool"`
	MaxDepth        int    `toml:"max_depth"`
	StopCeiling     int    `toml:"stop_ceiling"`
	GeneralCeiling  int    `toml:"general_ceiling"`
	DecayWindowSecs int    `toml:"decay_window_secs"`
}

// DefaultLimits returns the built-in limits.
func DefaultLimits() Limits {
	return Limits{
		GuardedTool:    DefaultGuardedTool,
		MaxDepth:       DefaultMaxDepth,
		StopCeiling:    DefaultStopCeiling,
		GeneralCeiling: DefaultGeneralCeiling,
		DecayWindow:    DefaultDecayWindow,
	}
}

// Dir returns the ~/.tripwire directory path.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".tripwire")
	}
	return filepath.Join(home, ".tripwire")
}

// Path returns the path to the limits config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads limits from Path(). A missing file yields DefaultLimits();
// fields absent from the file keep their defaults.
func Load() (Limits, error) {
	return LoadFile(Path())
}

// LoadFile reads limits from an explicit path.
func LoadFile(path string) (Limits, error) {
	limits := DefaultLimits()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return limits, nil
	}
	if err != nil {
		return limits, fmt.Errorf("reading limits config: %w", err)
	}

	var fl fileLimits
	if err := toml.Unmarshal(data, &fl); err != nil {
		return limits, fmt.Errorf("parsing %s: %w", path, err)
	}

	if fl.GuardedTool != "" {
		limits.GuardedTool = fl.GuardedTool
	}
	if fl.MaxDepth > 0 {
		limits.MaxDepth = fl.MaxDepth
	}
	if fl.StopCeiling > 0 {
		limits.StopCeiling = fl.StopCeiling
	}
	if fl.GeneralCeiling > 0 {
		limits.GeneralCeiling = fl.GeneralCeiling
	}
	if fl.DecayWindowSecs > 0 {
		limits.DecayWindow = time.Duration(fl.DecayWindowSecs) * time.Second
	}

	return limits, nil
}
