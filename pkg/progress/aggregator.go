// Package progress implements the cross-task progress aggregator (C11,
// spec §4.11): merging several independent per-task progress sequences
// (typically one per in-flight download) into a single aggregated
// snapshot subscribers can watch instead of every individual task.
package progress

import (
	"sync"
	"time"

	"github.com/RunanywhereAI/sdks-sub010/pkg/download"
)

// Snapshot is the aggregated view over every source's most recent
// Progress report.
type Snapshot struct {
	TotalBytesReceived int64
	TotalBytes         int64
	Percentage         float64
	WorstState         download.State
	ActiveSources      int
	UpdatedAt          time.Time
}

// stateRank orders States from "worst" to "best" for the WorstState
// computation: a single failed source should be visible in the aggregate
// even while others are still happily active.
var stateRank = map[download.State]int{
	download.StateFailed:    0,
	download.StateCancelled: 1,
	download.StatePaused:    2,
	download.StateQueued:    3,
	download.StateActive:    4,
	download.StateCompleted: 5,
}

// Aggregator merges Progress events from an arbitrary number of sources
// (identified by task id) into one Snapshot, notifying subscribers on
// every update. A source is removed once it reports a terminal state
// (completed/failed/cancelled); the aggregator closes every subscriber
// channel once the last source has gone terminal and no source has been
// added since.
type Aggregator struct {
	mu          sync.Mutex
	bySource    map[string]download.Progress
	subscribers map[int]chan Snapshot
	nextSubID   int
}

// New constructs an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		bySource:    make(map[string]download.Progress),
		subscribers: make(map[int]chan Snapshot),
	}
}

// Report feeds a single source's progress into the aggregator and notifies
// every subscriber with the recomputed snapshot.
func (a *Aggregator) Report(p download.Progress) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if isTerminal(p.State) {
		delete(a.bySource, p.TaskID)
	} else {
		a.bySource[p.TaskID] = p
	}
	snapshot := a.snapshotLocked()
	lastSourceDone := isTerminal(p.State) && len(a.bySource) == 0

	for id, ch := range a.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Slow subscriber: drop rather than block the reporting
			// goroutine, matching the download engine's own progress
			// throttling philosophy (a missed intermediate snapshot is
			// harmless since the next Report supersedes it).
		}
		if lastSourceDone {
			delete(a.subscribers, id)
			close(ch)
		}
	}
}

func (a *Aggregator) snapshotLocked() Snapshot {
	snap := Snapshot{WorstState: download.StateCompleted, UpdatedAt: time.Now()}
	worstRank := len(stateRank)
	for _, p := range a.bySource {
		snap.TotalBytesReceived += p.BytesReceived
		snap.TotalBytes += p.TotalBytes
		snap.ActiveSources++
		if rank, ok := stateRank[p.State]; ok && rank < worstRank {
			worstRank = rank
			snap.WorstState = p.State
		}
	}
	if snap.TotalBytes > 0 {
		snap.Percentage = float64(snap.TotalBytesReceived) / float64(snap.TotalBytes) * 100
	}
	return snap
}

// Snapshot returns the current aggregated state without waiting for the
// next Report.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Subscribe returns a channel that receives every subsequent snapshot and
// an unsubscribe function. The returned channel is buffered (8 snapshots);
// while a subscriber that falls behind has a full buffer, new snapshots are
// dropped for it, and the publisher never blocks.
func (a *Aggregator) Subscribe() (<-chan Snapshot, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextSubID
	a.nextSubID++
	ch := make(chan Snapshot, 8)
	a.subscribers[id] = ch

	unsubscribe := func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if existing, ok := a.subscribers[id]; ok {
			delete(a.subscribers, id)
			close(existing)
		}
	}
	return ch, unsubscribe
}

func isTerminal(s download.State) bool {
	switch s {
	case download.StateCompleted, download.StateFailed, download.StateCancelled:
		return true
	default:
		return false
	}
}
