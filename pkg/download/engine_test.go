package download

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checksumOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func waitForState(t *testing.T, progress <-chan Progress, want State, timeout time.Duration) Progress {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case p := <-progress:
			if p.State == want {
				return p
			}
			if p.State == StateFailed || p.State == StateCancelled {
				if want != p.State {
					t.Fatalf("task reached terminal state %s while waiting for %s (err=%v)", p.State, want, p.Err)
				}
				return p
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %s", want)
		}
	}
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, chan Progress) {
	t.Helper()
	progress := make(chan Progress, 64)
	allOpts := append([]Option{WithProgressFunc(func(p Progress) {
		select {
		case progress <- p:
		default:
		}
	})}, opts...)
	e := NewEngine(nil, nil, allOpts...)
	return e, progress
}

func TestEngine_SuccessfulDownload(t *testing.T) {
	body := []byte("hello model weights")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	dir := t.TempDir()
	e, progress := newTestEngine(t)

	task := Task{
		ID:       "t1",
		ModelID:  "m1",
		URL:      server.URL,
		TempPath: filepath.Join(dir, "t1.tmp"),
		DestPath: filepath.Join(dir, "t1.gguf"),
		Checksum: checksumOf(body),
	}
	e.Enqueue(task)

	waitForState(t, progress, StateCompleted, 2*time.Second)
	e.Wait()

	data, err := os.ReadFile(task.DestPath)
	require.NoError(t, err)
	assert.Equal(t, body, data)
}

func TestEngine_ChecksumMismatchFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("corrupted"))
	}))
	defer server.Close()

	dir := t.TempDir()
	e, progress := newTestEngine(t)

	task := Task{
		ID:         "t2",
		ModelID:    "m2",
		URL:        server.URL,
		TempPath:   filepath.Join(dir, "t2.tmp"),
		DestPath:   filepath.Join(dir, "t2.gguf"),
		Checksum:   "0000000000000000000000000000000000000000000000000000000000000",
		RetryCount: 1,
	}
	e.Enqueue(task)

	p := waitForState(t, progress, StateFailed, 2*time.Second)
	assert.Error(t, p.Err)
	e.Wait()
}

func TestEngine_CancelQueuedTask(t *testing.T) {
	e, progress := newTestEngine(t, WithMaxConcurrent(0))

	e.Enqueue(Task{ID: "queued", ModelID: "m3", URL: "http://example.invalid"})
	waitForState(t, progress, StateQueued, time.Second)

	assert.True(t, e.Cancel("queued"))
	waitForState(t, progress, StateCancelled, time.Second)
}

func TestEngine_CancelActiveTaskReportsCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("partial"))
		w.(http.Flusher).Flush()
		<-release
	}))
	defer server.Close()

	dir := t.TempDir()
	e, progress := newTestEngine(t)

	task := Task{
		ID:       "active",
		ModelID:  "m4",
		URL:      server.URL,
		TempPath: filepath.Join(dir, "active.tmp"),
		DestPath: filepath.Join(dir, "active.bin"),
	}
	e.Enqueue(task)
	waitForState(t, progress, StateActive, 2*time.Second)

	assert.True(t, e.Cancel("active"))
	waitForState(t, progress, StateCancelled, 2*time.Second)
	close(release)
	e.Wait()
}

func TestEngine_InsufficientSpaceFailsWithoutRequest(t *testing.T) {
	requested := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
		w.Write([]byte("x"))
	}))
	defer server.Close()

	dir := t.TempDir()
	e, progress := newTestEngine(t, WithSpaceChecker(func(path string) (uint64, error) {
		return 100, nil
	}))

	task := Task{
		ID:            "big",
		ModelID:       "m5",
		URL:           server.URL,
		TempPath:      filepath.Join(dir, "big.tmp"),
		DestPath:      filepath.Join(dir, "big.bin"),
		EstimatedSize: 1 << 30,
	}
	e.Enqueue(task)

	p := waitForState(t, progress, StateFailed, 2*time.Second)
	assert.Error(t, p.Err)
	assert.False(t, requested)
	e.Wait()
}

func TestEngine_PriorityOrderRespected(t *testing.T) {
	var order []string
	done := make(chan struct{}, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, r.URL.Query().Get("id"))
		w.Write([]byte("x"))
		done <- struct{}{}
	}))
	defer server.Close()

	dir := t.TempDir()
	e, _ := newTestEngine(t, WithMaxConcurrent(1))

	e.PauseAll()
	e.Enqueue(Task{ID: "low", ModelID: "low", URL: server.URL + "?id=low",
		TempPath: filepath.Join(dir, "low.tmp"), DestPath: filepath.Join(dir, "low.bin"), Priority: PriorityLow})
	e.Enqueue(Task{ID: "critical", ModelID: "critical", URL: server.URL + "?id=critical",
		TempPath: filepath.Join(dir, "crit.tmp"), DestPath: filepath.Join(dir, "crit.bin"), Priority: PriorityCritical})
	e.ResumeAll()

	<-done
	<-done
	e.Wait()

	require.Len(t, order, 2)
	assert.Equal(t, "critical", order[0])
}
