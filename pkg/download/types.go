// Package download implements the resumable, prioritized download engine
// (C4, spec §4.4). Grounded on the teacher's pkg/distribution/huggingface
// client (HTTP client shape, functional options) and
// pkg/inference/models/service.go (bounded-concurrency semaphore idiom).
package download

import (
	"time"

	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// Priority orders queued tasks: higher-priority tasks are dequeued first;
// tasks of equal priority are served FIFO (spec §4.4).
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// State is the lifecycle state of a download task.
type State string

const (
	StateQueued     State = "queued"
	StateActive     State = "active"
	StatePaused     State = "paused"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

// ResumeHint carries the information needed to resume a partially
// downloaded file: the byte offset already written and, when the server
// supports it, a validator (ETag or Last-Modified) used to detect that the
// remote content changed since the partial download started.
type ResumeHint struct {
	BytesWritten int64
	ETag         string
	LastModified string
}

// Task describes a single download request.
type Task struct {
	ID            string
	ModelID       string
	URL           string
	DestPath      string
	TempPath      string
	Checksum      string
	Priority      Priority
	Framework     models.FrameworkTag
	Format        models.Format
	Extract       bool
	RetryCount    int
	RetryDelay    time.Duration
	Resume        ResumeHint
	// EstimatedSize is the descriptor's reported size in bytes, used by the
	// pre-flight space check. Zero means the size is unknown and the check
	// is skipped.
	EstimatedSize int64
	enqueuedAt    time.Time
	seq           uint64
}

// Progress reports a download's current state, throttled by the engine to
// at most once per 1 MiB transferred or on every state transition (spec
// §4.4).
type Progress struct {
	TaskID         string
	ModelID        string
	State          State
	BytesReceived  int64
	TotalBytes     int64
	Attempt        int
	Err            error
	UpdatedAt      time.Time
}

// Percentage returns the completion fraction in [0, 100]. Returns 0 if the
// total size is unknown.
func (p Progress) Percentage() float64 {
	if p.TotalBytes <= 0 {
		return 0
	}
	return float64(p.BytesReceived) / float64(p.TotalBytes) * 100
}
