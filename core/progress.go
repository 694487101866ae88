package core

import "sync"

// ProgressStatus is the lifecycle state of a download.
type ProgressStatus string

const (
	StatusIdle        ProgressStatus = "idle"
	StatusStarting    ProgressStatus = "starting"
	StatusDownloading ProgressStatus = "downloading"
	StatusCompleted   ProgressStatus = "completed"
	StatusError       ProgressStatus = "error"
)

func (s ProgressStatus) String() string { return string(s) }

// IsFinished reports whether the status is terminal for an invocation.
func (s ProgressStatus) IsFinished() bool {
	return s == StatusCompleted || s == StatusError
}

// ProgressRecord is the polled download state for one video ID.
type ProgressRecord struct {
	Status   ProgressStatus `json:"status"`
	Progress int            `json:"progress"`
	Speed    string         `json:"speed,omitempty"`
	ETASec   int            `json:"eta,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ProgressTracker maps video IDs to their current download state. Records
// are created on first Set, replaced whole (last write wins, including two
// overlapping downloads sharing one video ID), and never evicted for the
// lifetime of the process.
type ProgressTracker struct {
	mu      sync.RWMutex
	records map[string]ProgressRecord
}

func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{records: make(map[string]ProgressRecord)}
}

// Get returns the current record, or an idle zero-progress record for a
// video ID that was never touched.
func (t *ProgressTracker) Get(videoID string) ProgressRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if rec, ok := t.records[videoID]; ok {
		return rec
	}
	return ProgressRecord{Status: StatusIdle, Progress: 0}
}

// Set replaces the record for videoID in one step.
func (t *ProgressTracker) Set(videoID string, rec ProgressRecord) {
	t.mu.Lock()
	t.records[videoID] = rec
	t.mu.Unlock()
}
