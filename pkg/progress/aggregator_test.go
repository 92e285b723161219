package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RunanywhereAI/sdks-sub010/pkg/download"
)

func TestAggregator_ReportComputesPercentageAndTotals(t *testing.T) {
	a := New()
	a.Report(download.Progress{TaskID: "a", BytesReceived: 50, TotalBytes: 100, State: download.StateActive})
	a.Report(download.Progress{TaskID: "b", BytesReceived: 25, TotalBytes: 100, State: download.StateActive})

	snap := a.Snapshot()
	assert.Equal(t, int64(75), snap.TotalBytesReceived)
	assert.Equal(t, int64(200), snap.TotalBytes)
	assert.Equal(t, 2, snap.ActiveSources)
	assert.InDelta(t, 37.5, snap.Percentage, 0.001)
}

func TestAggregator_WorstStateReflectsFailedOverActive(t *testing.T) {
	a := New()
	a.Report(download.Progress{TaskID: "a", State: download.StateActive, TotalBytes: 10})
	a.Report(download.Progress{TaskID: "b", State: download.StateFailed, TotalBytes: 10})

	snap := a.Snapshot()
	assert.Equal(t, download.StateFailed, snap.WorstState)
}

func TestAggregator_WorstStateDefaultsToCompletedWhenEmpty(t *testing.T) {
	a := New()
	snap := a.Snapshot()
	assert.Equal(t, download.StateCompleted, snap.WorstState)
	assert.Zero(t, snap.ActiveSources)
	assert.Zero(t, snap.Percentage)
}

func TestAggregator_TerminalStateRemovesSource(t *testing.T) {
	a := New()
	a.Report(download.Progress{TaskID: "a", State: download.StateActive, BytesReceived: 10, TotalBytes: 100})
	require.Equal(t, 1, a.Snapshot().ActiveSources)

	a.Report(download.Progress{TaskID: "a", State: download.StateCompleted, BytesReceived: 100, TotalBytes: 100})
	snap := a.Snapshot()
	assert.Zero(t, snap.ActiveSources)
	assert.Zero(t, snap.TotalBytesReceived)
}

func TestAggregator_SubscribeReceivesSnapshots(t *testing.T) {
	a := New()
	ch, unsubscribe := a.Subscribe()
	defer unsubscribe()

	a.Report(download.Progress{TaskID: "a", State: download.StateActive, BytesReceived: 10, TotalBytes: 100})

	select {
	case snap := <-ch:
		assert.Equal(t, int64(10), snap.TotalBytesReceived)
	case <-time.After(time.Second):
		t.Fatal("expected a snapshot")
	}
}

func TestAggregator_UnsubscribeClosesChannel(t *testing.T) {
	a := New()
	ch, unsubscribe := a.Subscribe()
	unsubscribe()

	_, ok := <-ch
	assert.False(t, ok)
}

func TestAggregator_SlowSubscriberDoesNotBlockReport(t *testing.T) {
	a := New()
	ch, unsubscribe := a.Subscribe()
	defer unsubscribe()

	for i := 0; i < 20; i++ {
		a.Report(download.Progress{TaskID: "a", State: download.StateActive, BytesReceived: int64(i), TotalBytes: 100})
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected at least one snapshot despite slow subscriber")
	}
}

func TestAggregator_MultipleSourcesIndependentlyTracked(t *testing.T) {
	a := New()
	a.Report(download.Progress{TaskID: "a", State: download.StateQueued, TotalBytes: 10})
	a.Report(download.Progress{TaskID: "b", State: download.StatePaused, TotalBytes: 10})
	a.Report(download.Progress{TaskID: "c", State: download.StateActive, TotalBytes: 10})

	snap := a.Snapshot()
	assert.Equal(t, 3, snap.ActiveSources)
	assert.Equal(t, download.StateFailed == snap.WorstState, false)
	assert.Equal(t, download.StatePaused, snap.WorstState)
}
