// Package breaker is the same-process circuit breaker for hook executions.
//
// The ledger is a best-effort throttle: it only observes repetitions within
// this process's lifetime. Once each hop in a recursion is a fresh process,
// the ledger starts empty — cross-process recursion is bounded by the
// propagated depth counter and the classifier's absolute Stop rule, not by
// anything in here. This package exists to catch the other failure shape:
// one process pathologically re-firing the same hook.
package breaker

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xcawolfe-amzn/tripwire/internal/config"
	"github.com/xcawolfe-amzn/tripwire/internal/settings"
)

// Rule names which ceiling tripped the breaker.
type Rule string

const (
	// RuleStopCeiling fires when Stop-hook executions exceed the small
	// per-session ceiling. Stop hooks are the documented loop shape, so
	// their ceiling is far tighter than the general one.
	RuleStopCeiling Rule = "stop-ceiling"

	// RuleGeneralCeiling fires when any single hook type loops past the
	// large general ceiling.
	RuleGeneralCeiling Rule = "general-ceiling"
)

// LimitError is the blocking fault raised when a ceiling is exceeded.
type LimitError struct {
	Rule     Rule
	HookType string
	Count    int
	Limit    int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf(
		"circuit open: %s hook executed %d times this session (limit %d, rule %s) — refusing to run for financial protection",
		e.HookType, e.Count, e.Limit, e.Rule)
}

// HookCount is one ledger entry in a status snapshot.
type HookCount struct {
	HookType string `json:"hook_type"`
	Count    int    `json:"count"`
}

// Breaker tracks per-(session, hook type) execution counts with a single
// decay timer. The mutex only guards against the decay timer firing while
// the main path runs; nothing else in tw calls this concurrently.
type Breaker struct {
	mu        sync.Mutex
	limits    config.Limits
	sessionID string
	counts    map[string]int
	decay     *time.Timer
}

// New creates an empty breaker with the given limits and session identity.
func New(limits config.Limits, sessionID string) *Breaker {
	return &Breaker{
		limits:    limits,
		sessionID: sessionID,
		counts:    make(map[string]int),
	}
}

// Track increments and returns the execution count for a hook type, and
// re-arms the decay timer. Re-arming always supersedes the previous timer:
// there is exactly one pending decay at any moment.
func (b *Breaker) Track(hookType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.counts[hookType]++
	count := b.counts[hookType]

	if b.decay != nil {
		b.decay.Stop()
	}
	// AfterFunc timers don't keep the process alive, so a normal exit is
	// never delayed waiting for decay.
	b.decay = time.AfterFunc(b.limits.DecayWindow, b.expire)

	return count
}

// expire clears the ledger and rotates to a fresh session when the decay
// window passes without activity.
func (b *Breaker) expire() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counts = make(map[string]int)
	b.sessionID = uuid.New().String()
}

// Check records one execution of hookType and returns a *LimitError if a
// ceiling is exceeded, along with the observed count. Callers must treat
// the error as terminal — the hazard is cost, so retrying a refused
// execution is a contradiction.
func (b *Breaker) Check(hookType string) (int, error) {
	count := b.Track(hookType)

	if hookType == settings.TriggerStop && count > b.limits.StopCeiling {
		return count, &LimitError{
			Rule:     RuleStopCeiling,
			HookType: hookType,
			Count:    count,
			Limit:    b.limits.StopCeiling,
		}
	}

	if count > b.limits.GeneralCeiling {
		return count, &LimitError{
			Rule:     RuleGeneralCeiling,
			HookType: hookType,
			Count:    count,
			Limit:    b.limits.GeneralCeiling,
		}
	}

	return count, nil
}

// Reset clears the ledger and issues a new session id. Used for operator
// recovery and test setup.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.decay != nil {
		b.decay.Stop()
		b.decay = nil
	}
	b.counts = make(map[string]int)
	b.sessionID = uuid.New().String()
}

// Status returns the current session id and a sorted snapshot of the
// ledger for diagnostics.
func (b *Breaker) Status() (sessionID string, counts []HookCount) {
	b.mu.Lock()
	defer b.mu.Unlock()

	counts = make([]HookCount, 0, len(b.counts))
	for ht, n := range b.counts {
		counts = append(counts, HookCount{HookType: ht, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].HookType < counts[j].HookType
	})

	return b.sessionID, counts
}
