// Package metrics persists guard decisions to ~/.tripwire/events.jsonl.
//
// The file is purely diagnostic: status displays and the watch dashboard
// read it, but no guard decision ever consults it. Appends are protected
// by a file lock because several hook-spawned tw processes can record at
// once.
package metrics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Event is one recorded guard decision.
type Event struct {
	Time      time.Time `json:"time"`
	SessionID string    `json:"session_id"`
	HookType  string    `json:"hook_type"`
	Outcome   string    `json:"outcome"` // "blocked" or "warned"
	Rule      string    `json:"rule"`
	Command   string    `json:"command"`
	Depth     int       `json:"depth"`
}

// Recorder appends and reads guard events under a state directory.
type Recorder struct {
	dir string
}

// NewRecorder creates a recorder rooted at dir (normally config.Dir()).
func NewRecorder(dir string) *Recorder {
	return &Recorder{dir: dir}
}

// Path returns the events file path.
func (r *Recorder) Path() string {
	return filepath.Join(r.dir, "events.jsonl")
}

func (r *Recorder) lockPath() string {
	return filepath.Join(r.dir, "events.lock")
}

// lock acquires an exclusive file lock for event file operations.
// Caller must defer unlock().
func (r *Recorder) lock() (func(), error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	fl := flock.New(r.lockPath())
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("acquiring events lock: %w", err)
	}
	return func() { _ = fl.Unlock() }, nil
}

// Append records one event as a JSONL line.
func (r *Recorder) Append(ev Event) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(r.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening events file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return nil
}

// Recent returns up to n most recent events, newest last. A missing file
// yields an empty slice. Unparseable lines are skipped — the file is
// append-only diagnostics, not a source of truth worth failing over.
func (r *Recorder) Recent(n int) ([]Event, error) {
	f, err := os.Open(r.Path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening events file: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading events file: %w", err)
	}

	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	return events, nil
}

// Clear truncates the events file. Missing file is a no-op.
func (r *Recorder) Clear() error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()

	err = os.Remove(r.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing events file: %w", err)
	}
	return nil
}
