// Package transcript records a forensic event log for each run.
package transcript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types recorded in the transcript.
const (
	EventSeasonStart = "season_start"
	EventPhaseStart  = "phase_start"
	EventPrompt      = "prompt"
	EventResponse    = "response"
	EventAction      = "action"
	EventPhaseEnd    = "phase_end"
	EventOrders      = "orders"
)

// Event is one entry in the run transcript.
type Event struct {
	Time    time.Time `json:"time"`
	Type    string    `json:"type"`
	Country string    `json:"country,omitempty"`
	Phase   string    `json:"phase,omitempty"`
	Season  string    `json:"season,omitempty"`
	Detail  string    `json:"detail,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// Recorder appends JSON events to a per-run transcript file. Recording is
// best-effort: transcript failures never disturb the game run. A nil
// Recorder is valid and records nothing.
type Recorder struct {
	mu    sync.Mutex
	f     *os.File
	runID string
}

// New creates a recorder writing to <dir>/<timestamp>-<run id>.jsonl.
func New(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	name := time.Now().UTC().Format("20060102-150405") + "-" + runID + ".jsonl"
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Recorder{f: f, runID: runID}, nil
}

// RunID returns the unique identifier of this run.
func (r *Recorder) RunID() string {
	if r == nil {
		return ""
	}
	return r.runID
}

// Record appends an event, stamping the time.
func (r *Recorder) Record(ev Event) {
	if r == nil {
		return
	}
	ev.Time = time.Now().UTC()
	line, err := json.Marshal(ev)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.f.Write(append(line, '\n'))
}

// Close flushes and closes the transcript file.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	return r.f.Close()
}
