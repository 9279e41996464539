// Package hookctx propagates hook execution context across process spawns.
//
// The only channel between a parent invocation and the subprocess it spawns
// is inherited environment, so the context is a point-in-time snapshot: a
// child sees the values its parent held at spawn time, and siblings never
// observe each other. That isolation is deliberate — it is what keeps two
// unrelated hook chains from cross-talking.
package hookctx

import (
	"os"
	"strconv"

	"github.com/google/uuid"
)

// Environment variable names. These form the stable contract between a
// parent tw invocation and any child process it spawns; renaming one is a
// breaking change for in-flight hook chains.
const (
	EnvHookType  = "TW_HOOK_TYPE"
	EnvHookDepth = "TW_HOOK_DEPTH"
	EnvSessionID = "TW_SESSION_ID"
	EnvSuppress  = "TW_SUPPRESS_HOOKS"
	EnvSafeMode  = "TW_SAFE_MODE"
)

// HookContext is the state carried along a chain of hook-spawned processes.
type HookContext struct {
	HookType  string // active hook trigger, empty when no hook is running
	Depth     int    // nested hook invocations leading to this process
	SessionID string // stable across the chain, set once at the top
	Suppress  bool   // operator switch: hooks must not run at all
	SafeMode  bool   // operator switch: append no-side-effects flag
}

// InHook reports whether a hook is currently active.
func (c HookContext) InHook() bool {
	return c.HookType != ""
}

// Encode converts a context to the key/value pairs a child must inherit.
// Operator flags are only emitted when set, matching how Clear leaves
// them untouched.
func Encode(c HookContext) map[string]string {
	pairs := map[string]string{
		EnvHookType:  c.HookType,
		EnvHookDepth: strconv.Itoa(c.Depth),
		EnvSessionID: c.SessionID,
	}
	if c.Suppress {
		pairs[EnvSuppress] = "1"
	}
	if c.SafeMode {
		pairs[EnvSafeMode] = "1"
	}
	return pairs
}

// Decode reconstructs a context from an environment lookup. Missing keys
// default to "no active hook": empty type, depth 0, flags off. A malformed
// depth also decodes to 0 rather than failing — a corrupt counter must not
// take the guard offline.
func Decode(lookup func(string) (string, bool)) HookContext {
	var c HookContext
	if v, ok := lookup(EnvHookType); ok {
		c.HookType = v
	}
	if v, ok := lookup(EnvHookDepth); ok {
		if d, err := strconv.Atoi(v); err == nil && d > 0 {
			c.Depth = d
		}
	}
	if v, ok := lookup(EnvSessionID); ok {
		c.SessionID = v
	}
	c.Suppress = truthy(lookup, EnvSuppress)
	c.SafeMode = truthy(lookup, EnvSafeMode)
	return c
}

func truthy(lookup func(string) (string, bool), key string) bool {
	v, ok := lookup(key)
	if !ok {
		return false
	}
	return v == "1" || v == "true"
}

// Current reads the hook context from this process's environment.
func Current() HookContext {
	return Decode(os.LookupEnv)
}

// Set writes hook type, depth, and session id into the environment so that
// subsequently spawned children inherit them. The session id is never
// replaced once present: a process already inside a hook chain must not
// invent a new identity.
func Set(hookType string, depth int) {
	os.Setenv(EnvHookType, hookType)
	os.Setenv(EnvHookDepth, strconv.Itoa(depth))
	if os.Getenv(EnvSessionID) == "" {
		os.Setenv(EnvSessionID, SessionID())
	}
}

// Clear removes the per-call context keys. The suppress and safe-mode
// flags are operator-level switches, not per-call state, and survive.
// Safe to call repeatedly.
func Clear() {
	os.Unsetenv(EnvHookType)
	os.Unsetenv(EnvHookDepth)
	os.Unsetenv(EnvSessionID)
}

// InHook reports whether this process is running inside a hook context.
func InHook() bool {
	return os.Getenv(EnvHookType) != ""
}

// SetSuppress toggles the persistent hook-suppression flag.
func SetSuppress(on bool) {
	setFlag(EnvSuppress, on)
}

// SetSafeMode toggles the persistent safe-mode flag.
func SetSafeMode(on bool) {
	setFlag(EnvSafeMode, on)
}

func setFlag(key string, on bool) {
	if on {
		os.Setenv(key, "1")
	} else {
		os.Unsetenv(key)
	}
}

// SessionID resolves the session identifier for this process.
// Priority: TW_SESSION_ID env, CLAUDE_SESSION_ID env, auto-generate.
func SessionID() string {
	if id := os.Getenv(EnvSessionID); id != "" {
		return id
	}
	if id := os.Getenv("CLAUDE_SESSION_ID"); id != "" {
		return id
	}
	return uuid.New().String()
}
